package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/a3tai/proof-comments/internal/pdf/security"
	"github.com/a3tai/proof-comments/internal/pdf/wrapper"
	"github.com/a3tai/proof-comments/internal/proof"
	"github.com/a3tai/proof-comments/internal/report"
)

// ServiceConfig configures a Service
type ServiceConfig struct {
	MaxFileSize int64
	// Directory is searched when a request names no files
	Directory string
	Library   wrapper.LibraryType
	Banner    string
	// RestrictPaths keeps every input and output path inside Directory
	RestrictPaths bool
	Logger        *slog.Logger
}

// Service handles proof extraction by orchestrating the PDF components
type Service struct {
	maxFileSize   int64
	directory     string
	banner        string
	library       wrapper.PDFLibrary
	validator     *Validator
	search        *Search
	assembler     *proof.Assembler
	pathValidator *security.PathValidator
	logger        *slog.Logger
}

// NewService creates a new PDF service with all components. Extra options are
// passed to the assembler.
func NewService(cfg ServiceConfig, opts ...proof.Option) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Library == "" {
		cfg.Library = wrapper.LibraryAuto
	}
	if cfg.Banner == "" {
		cfg.Banner = proof.DefaultBanner
	}
	if cfg.Directory == "" {
		cfg.Directory = "."
	}

	factory := wrapper.NewPDFLibraryFactoryWithConfig(wrapper.FactoryConfig{
		PreferredLibrary: wrapper.LibraryLedongthuc,
		EnableFallback:   true,
		MaxFileSize:      cfg.MaxFileSize,
	})
	library, err := factory.Create(cfg.Library)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF library: %w", err)
	}

	var pathValidator *security.PathValidator
	if cfg.RestrictPaths {
		pathValidator, err = security.NewPathValidator(cfg.Directory)
		if err != nil {
			return nil, fmt.Errorf("failed to create path validator: %w", err)
		}
	}

	validator := NewValidator(cfg.MaxFileSize, library)
	assemblerOpts := append([]proof.Option{
		proof.WithBanner(cfg.Banner),
		proof.WithLogger(logger),
	}, opts...)

	return &Service{
		maxFileSize:   cfg.MaxFileSize,
		directory:     cfg.Directory,
		banner:        cfg.Banner,
		library:       library,
		validator:     validator,
		search:        NewSearch(validator),
		assembler:     proof.NewAssembler(NewDecoder(library), assemblerOpts...),
		pathValidator: pathValidator,
		logger:        logger,
	}, nil
}

// ExtractComments runs one extraction over files on disk and saves the
// workbook. Nothing is written when any file fails to decode.
func (s *Service) ExtractComments(ctx context.Context, req ExtractCommentsRequest) (*ExtractCommentsResult, error) {
	paths, err := s.selectFiles(req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("extract.selection",
		"selection", proof.SelectionSummary(len(paths)),
	)

	sources, err := s.loadSources(paths)
	if err != nil {
		return nil, err
	}

	output := req.OutputPath
	if output == "" {
		output = report.FileName
	}
	output, err = s.resolve(output)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	result, err := s.assembler.Run(ctx, proof.RunRequest{
		UploadDate: req.UploadDate,
		Files:      sources,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := report.SaveAs(output, result.Rows); err != nil {
		return nil, err
	}
	s.logger.Info("report.xlsx.ok",
		"run_id", result.RunID,
		"path", output,
		"rows", len(result.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}

	return &ExtractCommentsResult{
		RunID:       result.RunID,
		UploadDate:  result.UploadDate,
		Selection:   proof.SelectionSummary(len(sources)),
		Files:       names,
		OutputPath:  output,
		Rows:        len(result.Rows),
		Comments:    result.Comments,
		Duplicates:  result.Duplicates,
		Popups:      result.Popups,
		Annotations: result.Annotations,
		Pages:       result.Pages,
	}, nil
}

// ExtractUploads runs one extraction over uploaded files and returns the
// workbook bytes
func (s *Service) ExtractUploads(ctx context.Context, uploadDate string, files []proof.Source) (*proof.Result, []byte, error) {
	for _, src := range files {
		if err := s.validator.ValidateSource(src); err != nil {
			return nil, nil, err
		}
	}

	result, err := s.assembler.Run(ctx, proof.RunRequest{
		UploadDate: uploadDate,
		Files:      files,
	})
	if err != nil {
		return nil, nil, err
	}

	data, err := report.Bytes(result.Rows)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("report.xlsx.ok",
		"run_id", result.RunID,
		"rows", len(result.Rows),
		"bytes", len(data),
	)
	return result, data, nil
}

// SearchDirectory searches for PDF files, defaulting to the configured directory
func (s *Service) SearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.directory
	}
	if s.pathValidator != nil {
		if err := s.pathValidator.ValidatePath(req.Directory); err != nil {
			return nil, fmt.Errorf("security validation failed: %w", err)
		}
	}
	return s.search.SearchDirectory(req)
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// ValidateUpload checks an upload's name and size without reading it
func (s *Service) ValidateUpload(name string, size int64) error {
	return s.validator.ValidateUpload(name, size)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// Directory returns the configured directory
func (s *Service) Directory() string {
	return s.directory
}

// Banner returns the banner written on every row
func (s *Service) Banner() string {
	return s.banner
}

// LibraryType returns the configured decoder
func (s *Service) LibraryType() wrapper.LibraryType {
	return s.library.GetLibraryType()
}

// selectFiles returns the explicit paths in request order, or the directory
// search result
func (s *Service) selectFiles(req ExtractCommentsRequest) ([]string, error) {
	if len(req.Paths) == 0 {
		found, err := s.SearchDirectory(PDFSearchDirectoryRequest{
			Directory: req.Directory,
			Query:     req.Query,
		})
		if err != nil {
			return nil, err
		}
		paths := make([]string, len(found.Files))
		for i, f := range found.Files {
			paths[i] = f.Path
		}
		return paths, nil
	}

	paths := make([]string, 0, len(req.Paths))
	for _, p := range req.Paths {
		resolved, err := s.resolve(p)
		if err != nil {
			return nil, fmt.Errorf("security validation failed: %w", err)
		}

		info, err := os.Stat(resolved)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &ValidationError{Path: p, Reason: "file does not exist"}
			}
			return nil, fmt.Errorf("cannot access file: %w", err)
		}
		if err := s.validator.ValidateFileInfo(resolved, info); err != nil {
			return nil, err
		}
		paths = append(paths, resolved)
	}
	return paths, nil
}

func (s *Service) loadSources(paths []string) ([]proof.Source, error) {
	sources := make([]proof.Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		sources = append(sources, proof.Source{Name: filepath.Base(p), Data: data})
	}
	return sources, nil
}

// resolve applies the directory restriction when one is configured
func (s *Service) resolve(path string) (string, error) {
	if s.pathValidator == nil {
		if path == "" {
			return "", fmt.Errorf("path cannot be empty")
		}
		return path, nil
	}
	return s.pathValidator.ResolvePath(path)
}
