package pdf

import (
	"fmt"
	"time"

	"github.com/a3tai/proof-comments/internal/descriptions"
	"github.com/a3tai/proof-comments/internal/proof"
)

const (
	serverInfoFileLimit = 100
	serverInfoTimeout   = 5 * time.Second
)

// ServerInfo returns server settings, the tool list, the proofs in the default
// directory and usage guidance
func (s *Service) ServerInfo(serverName, version string) *ServerInfo {
	// A slow or huge directory must not block the tool call
	resultChan := make(chan []FileInfo, 1)
	go func() {
		files, err := s.search.FindPDFsInDirectoryLimited(s.directory, serverInfoFileLimit)
		if err != nil {
			files = nil
		}
		resultChan <- files
	}()

	directoryContents := []FileInfo{}
	select {
	case files := <-resultChan:
		if files != nil {
			directoryContents = files
		}
	case <-time.After(serverInfoTimeout):
	}

	tools := make([]ToolInfo, 0, len(descriptions.ToolDescriptions))
	for _, name := range descriptions.GetAllToolNames() {
		tools = append(tools, ToolInfo{
			Name:        name,
			Description: firstLine(descriptions.GetToolDescription(name)),
			Parameters:  descriptions.ToolParameters[name],
		})
	}

	return &ServerInfo{
		ServerName:        serverName,
		Version:           version,
		Decoder:           string(s.LibraryType()),
		Banner:            s.banner,
		DefaultDirectory:  s.directory,
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    tools,
		DirectoryContents: directoryContents,
		Selection:         proof.SelectionSummary(len(directoryContents)),
		UsageGuidance:     s.usageGuidance(),
	}
}

func (s *Service) usageGuidance() string {
	return `Proof comment extraction guide:

1. DISCOVER: use 'pdf_search_directory' to list proofs (sorted by path).
2. CHECK: use 'proof_parse_filename' to see how a file will be labelled, and
   'pdf_validate_file' on files that may be damaged.
3. EXTRACT: use 'proof_extract_comments' with explicit paths, or with a
   directory and query. One unreadable file aborts the run and no workbook is
   written.

NOTES:
- Upload dates use DD.MM.YYYY and default to today
- Repeated comments (same page, proof and remarks) are written once
- Files up to ` + fmt.Sprintf("%d", s.maxFileSize/(1024*1024)) + `MB are accepted`
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
