package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/a3tai/proof-comments/internal/api"
	"github.com/a3tai/proof-comments/internal/config"
	"github.com/a3tai/proof-comments/internal/mcp"
	"github.com/a3tai/proof-comments/internal/pdf"
	"github.com/a3tai/proof-comments/internal/proof"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitNoFiles = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		printVersion(stdout)
		return exitOK
	case errors.Is(err, pflag.ErrHelp):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitFailure
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger := setupLogging(cfg, stderr)
	logger.Debug("config.loaded", "config", cfg.String())

	service, err := pdf.NewService(pdf.ServiceConfig{
		MaxFileSize:   cfg.MaxFileSize,
		Directory:     cfg.PDFDirectory,
		Library:       cfg.LibraryType(),
		Banner:        cfg.Banner,
		RestrictPaths: cfg.IsStdioMode(),
		Logger:        logger,
	})
	if err != nil {
		logger.Error("service.init.failed", "error", err)
		return exitFailure
	}

	switch {
	case cfg.IsStdioMode():
		err = runStdioMode(ctx, cfg, service)
	case cfg.IsServerMode():
		err = runServerMode(ctx, cfg, service, logger)
	default:
		return runCLIMode(ctx, cfg, service, stdout, stderr)
	}

	if err != nil {
		logger.Error("server.failed", "mode", cfg.Mode, "error", err)
		return exitFailure
	}
	return exitOK
}

// setupLogging installs the default slog logger for the configured mode. The
// stdio transport owns stdout, so MCP logs go to stderr and only in debug.
func setupLogging(cfg *config.Config, stderr io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	w := stderr
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		w = io.Discard
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// runCLIMode extracts the selected proofs into the configured workbook
func runCLIMode(ctx context.Context, cfg *config.Config, service *pdf.Service, stdout, stderr io.Writer) int {
	result, err := extractCLI(ctx, cfg, service)
	if errors.Is(err, proof.ErrNoFiles) {
		fmt.Fprintln(stderr, proof.SelectionSummary(0))
		fmt.Fprintln(stderr, "Please upload at least one PDF file.")
		return exitNoFiles
	}
	if err != nil {
		fmt.Fprintf(stderr, "Extraction failed: %v\n", err)
		return exitFailure
	}

	fmt.Fprintln(stdout, result.Selection)
	fmt.Fprintf(stdout, "Wrote %d comment(s) from %d file(s) to %s\n", result.Comments, len(result.Files), result.OutputPath)
	if result.Duplicates > 0 {
		fmt.Fprintf(stdout, "Skipped %d repeated comment(s)\n", result.Duplicates)
	}
	return exitOK
}

// extractCLI searches a directory only when one was named explicitly. With no
// files and no directory the selection is empty.
func extractCLI(ctx context.Context, cfg *config.Config, service *pdf.Service) (*pdf.ExtractCommentsResult, error) {
	if len(cfg.Files) == 0 && !cfg.DirectorySet {
		return nil, proof.ErrNoFiles
	}
	return service.ExtractComments(ctx, pdf.ExtractCommentsRequest{
		Paths:      cfg.Files,
		Directory:  cfg.PDFDirectory,
		UploadDate: cfg.UploadDate,
		OutputPath: cfg.OutputPath,
	})
}

// runStdioMode serves MCP until stdin closes or ctx is cancelled
func runStdioMode(ctx context.Context, cfg *config.Config, service *pdf.Service) error {
	server, err := mcp.NewServer(cfg, service)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

// runServerMode serves the upload API until ctx is cancelled, then shuts down
// gracefully
func runServerMode(ctx context.Context, cfg *config.Config, service *pdf.Service, logger *slog.Logger) error {
	if !cfg.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Address(), err)
	}

	srv := &http.Server{
		Handler:           api.NewRouter(service, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("server.start", "addr", listener.Addr().String(), "decoder", service.LibraryType())
		serverErrCh <- srv.Serve(listener)
	}()

	select {
	case err := <-serverErrCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("server.shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server.stop")
	return nil
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Proof Comments\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
