package pdf

import (
	"fmt"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path" yaml:"path"`
	Name         string `json:"name" yaml:"name"`
	Size         int64  `json:"size" yaml:"size"`
	ModifiedTime string `json:"modified_time" yaml:"modified_time"`
}

// Request Types

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// ExtractCommentsRequest selects the proofs of one extraction run. Explicit
// Paths win; otherwise every PDF in Directory matching Query is used.
type ExtractCommentsRequest struct {
	Paths      []string `json:"paths,omitempty"`
	Directory  string   `json:"directory,omitempty"`
	Query      string   `json:"query,omitempty"`
	UploadDate string   `json:"upload_date,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
}

// Response Types

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid" yaml:"valid"`
	Path    string `json:"path" yaml:"path"`
	Pages   int    `json:"pages,omitempty" yaml:"pages,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files" yaml:"files"`
	TotalCount  int        `json:"total_count" yaml:"total_count"`
	Directory   string     `json:"directory" yaml:"directory"`
	SearchQuery string     `json:"search_query,omitempty" yaml:"search_query,omitempty"`
}

// ExtractCommentsResult summarizes a finished extraction run
type ExtractCommentsResult struct {
	RunID       string   `json:"run_id" yaml:"run_id"`
	UploadDate  string   `json:"upload_date" yaml:"upload_date"`
	Selection   string   `json:"selection" yaml:"selection"`
	Files       []string `json:"files" yaml:"files"`
	OutputPath  string   `json:"output_path" yaml:"output_path"`
	Rows        int      `json:"rows" yaml:"rows"`
	Comments    int      `json:"comments" yaml:"comments"`
	Duplicates  int      `json:"duplicates" yaml:"duplicates"`
	Popups      int      `json:"popups" yaml:"popups"`
	Annotations int      `json:"annotations" yaml:"annotations"`
	Pages       int      `json:"pages" yaml:"pages"`
}

// ServerInfo describes the running service, its tools and the files it can see
type ServerInfo struct {
	ServerName        string     `yaml:"server_name"`
	Version           string     `yaml:"version"`
	Decoder           string     `yaml:"decoder"`
	Banner            string     `yaml:"banner"`
	DefaultDirectory  string     `yaml:"default_directory"`
	MaxFileSize       int64      `yaml:"max_file_size"`
	AvailableTools    []ToolInfo `yaml:"available_tools"`
	DirectoryContents []FileInfo `yaml:"directory_contents"`
	Selection         string     `yaml:"selection"`
	UsageGuidance     string     `yaml:"usage_guidance,omitempty"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Parameters  string `yaml:"parameters"`
}

// ValidationError reports an input file rejected before decoding
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}
