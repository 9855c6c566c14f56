package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/a3tai/proof-comments/internal/pdf/wrapper"
	"github.com/a3tai/proof-comments/internal/proof"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
	library     wrapper.PDFLibrary
}

// NewValidator creates a new PDF validator with the specified constraints.
// A nil library limits validation to file checks.
func NewValidator(maxFileSize int64, library wrapper.PDFLibrary) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		library:     library,
	}
}

// ValidateFile checks the file and tries to open it with the configured decoder
func (v *Validator) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	result := &PDFValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	pages, err := v.validatePDFFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	result.Pages = pages
	return result, nil
}

// validatePDFFile validates the file on disk and returns its page count
func (v *Validator) validatePDFFile(filePath string) (int, error) {
	if filePath == "" {
		return 0, &ValidationError{Path: filePath, Reason: "path cannot be empty"}
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return 0, &ValidationError{Path: filePath, Reason: "file does not exist"}
	}
	if err != nil {
		return 0, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return 0, err
	}

	if v.library == nil {
		return 0, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("cannot read file: %w", err)
	}

	doc, err := v.library.Open(data)
	if err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	defer doc.Close()

	return doc.GetPageCount()
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return &ValidationError{Path: filePath, Reason: "path is a directory, not a file"}
	}
	if !isPDFName(filePath) {
		return &ValidationError{Path: filePath, Reason: "file is not a PDF"}
	}
	return v.checkSize(filePath, fileInfo.Size())
}

// ValidateSource checks an uploaded file before it is decoded
func (v *Validator) ValidateSource(src proof.Source) error {
	return v.ValidateUpload(src.Name, int64(len(src.Data)))
}

// ValidateUpload checks an upload by name and declared size before it is read
func (v *Validator) ValidateUpload(name string, size int64) error {
	if !isPDFName(name) {
		return &ValidationError{Path: name, Reason: "file is not a PDF"}
	}
	return v.checkSize(name, size)
}

func (v *Validator) checkSize(name string, size int64) error {
	if size == 0 {
		return &ValidationError{Path: name, Reason: "file is empty"}
	}
	if v.maxFileSize > 0 && size > v.maxFileSize {
		return &ValidationError{
			Path:   name,
			Reason: fmt.Sprintf("file too large: %d bytes (max: %d bytes)", size, v.maxFileSize),
		}
	}
	return nil
}

// isPDFName checks if a file has a PDF extension
func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
