package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/proof-comments/internal/config"
	"github.com/a3tai/proof-comments/internal/descriptions"
	"github.com/a3tai/proof-comments/internal/pdf"
	"github.com/a3tai/proof-comments/internal/proof"
)

// noFilesMessage is shown when a selection resolves to zero proofs
const noFilesMessage = "Please upload at least one PDF file."

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // the tool list is fixed
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		logger:     slog.Default().With("component", "mcp"),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		descriptions.ToolExtractComments,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtractComments)),
		mcp.WithArray("paths",
			mcp.Description("PDF paths in the order their rows should appear (a comma-separated string is also accepted)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("directory",
			mcp.Description("Directory searched when no paths are given (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Filename filter applied to the directory search"),
		),
		mcp.WithString("upload_date",
			mcp.Description("Upload date in DD.MM.YYYY (default today)"),
		),
		mcp.WithString("output",
			mcp.Description("Workbook path (default comments.xlsx)"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractComments)

	parseTool := mcp.NewTool(
		descriptions.ToolParseFilename,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolParseFilename)),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Proof filename, with or without directory"),
		),
	)
	s.mcpServer.AddTool(parseTool, s.handleParseFilename)

	classifyTool := mcp.NewTool(
		descriptions.ToolClassifyComment,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolClassifyComment)),
		mcp.WithString("contents",
			mcp.Required(),
			mcp.Description("Comment text as written by the reviewer"),
		),
	)
	s.mcpServer.AddTool(classifyTool, s.handleClassifyComment)

	searchTool := mcp.NewTool(
		descriptions.ToolSearchDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolSearchDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchDirectory)

	validateTool := mcp.NewTool(
		descriptions.ToolValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolValidateFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFile)

	infoTool := mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolServerInfo)),
	)
	s.mcpServer.AddTool(infoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractComments(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	paths, err := stringList(args["paths"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.ExtractCommentsRequest{
		Paths:      paths,
		Directory:  stringArg(args, "directory"),
		Query:      stringArg(args, "query"),
		UploadDate: stringArg(args, "upload_date"),
		OutputPath: stringArg(args, "output"),
	}
	if req.UploadDate != "" {
		if err := proof.ValidateDate(req.UploadDate); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	result, err := s.pdfService.ExtractComments(ctx, req)
	if err != nil {
		s.logger.Warn("extract.failed", "error", err)
		if errors.Is(err, proof.ErrNoFiles) {
			return mcp.NewToolResultError(noFilesMessage), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.yamlResult(result)
}

func (s *Server) handleParseFilename(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.yamlResult(proof.ParseFilename(name))
}

// classifyResult shows where a comment lands in the worksheet
type classifyResult struct {
	Contents       string               `yaml:"contents"`
	Classification proof.Classification `yaml:",inline"`
	Column         string               `yaml:"column"`
}

func (s *Server) handleClassifyComment(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	contents, err := request.RequireString("contents")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c := proof.Classify(contents)
	column := "REMARKS"
	if c.Revision != "" {
		column = "Correction_Revision"
	}

	return s.yamlResult(classifyResult{
		Contents:       proof.Normalize(contents),
		Classification: c,
		Column:         column,
	})
}

func (s *Server) handleSearchDirectory(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	result, err := s.pdfService.SearchDirectory(pdf.PDFSearchDirectoryRequest{
		Directory: stringArg(args, "directory"),
		Query:     stringArg(args, "query"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		return mcp.NewToolResultText(text), nil
	}

	return s.yamlResult(result)
}

func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Valid {
		return mcp.NewToolResultText(
			fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := s.pdfService.ServerInfo(s.config.ServerName, s.config.Version)

	guidance := info.UsageGuidance
	info.UsageGuidance = ""
	out, err := yaml.Marshal(info)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format server info: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out) + "\n" + guidance), nil
}

func (s *Server) yamlResult(v any) (*mcp.CallToolResult, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// stringList accepts a JSON array of strings or a comma-separated string
func stringList(v any) ([]string, error) {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("paths must contain only strings, got %T", item)
			}
			raw = append(raw, str)
		}
	default:
		return nil, fmt.Errorf("paths must be an array of strings, got %T", v)
	}

	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// Run serves MCP over stdin and stdout until ctx is done or stdin closes
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, nil, nil)
}

// Serve serves MCP over the given streams. Nil streams default to the
// process stdin and stdout.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	s.logger.Info("mcp.start",
		"server", s.config.ServerName,
		"version", s.config.Version,
		"directory", s.config.PDFDirectory,
	)

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	s.logger.Info("mcp.stop")
	return nil
}
