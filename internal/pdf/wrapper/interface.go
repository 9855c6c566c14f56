package wrapper

import (
	"fmt"
)

// PDFLibrary defines the unified interface for opening PDFs across different libraries
type PDFLibrary interface {
	// Open parses an in-memory PDF
	Open(data []byte) (PDFDocument, error)

	// Library identification
	GetLibraryType() LibraryType
	GetVersion() string
}

// PDFDocument represents an opened PDF document
type PDFDocument interface {
	GetPageCount() (int, error)
	// ExtractAnnotations returns the annotations of a 1-based page in the
	// order they appear in the page's /Annots array
	ExtractAnnotations(pageNum int) ([]AnnotationElement, error)
	Close() error
}

// LibraryType represents the underlying PDF library being used
type LibraryType string

const (
	LibraryPDFCPU     LibraryType = "pdfcpu"
	LibraryLedongthuc LibraryType = "ledongthuc"
	LibraryAuto       LibraryType = "auto" // ledongthuc first, pdfcpu when it cannot open the file
)

// AnnotationElement represents a page annotation
type AnnotationElement struct {
	Page     int    `json:"page"`
	Subtype  string `json:"subtype"`            // /Subtype without the leading slash
	Title    string `json:"title,omitempty"`    // /T, the author
	Contents string `json:"contents,omitempty"` // /Contents
}

// Error types for wrapper operations
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// Common error variables
var (
	ErrDocumentClosed = &WrapperError{Op: "document", Err: fmt.Errorf("document is closed")}
	ErrInvalidPage    = &WrapperError{Op: "page", Err: fmt.Errorf("invalid page number")}
	ErrEmptyDocument  = &WrapperError{Op: "open", Err: fmt.Errorf("document is empty")}
)

// recoverPanic converts a panic raised inside a PDF library into a WrapperError.
// Both libraries panic on some malformed object graphs.
func recoverPanic(lib LibraryType, op string, err *error) {
	if r := recover(); r != nil {
		*err = &WrapperError{Library: lib, Op: op, Err: fmt.Errorf("malformed PDF: %v", r)}
	}
}

func checkPage(lib LibraryType, pageNum, pageCount int) error {
	if pageNum < 1 || pageNum > pageCount {
		return &WrapperError{
			Library: lib,
			Op:      "extract_annotations",
			Err:     fmt.Errorf("%w %d (document has %d pages)", ErrInvalidPage.Err, pageNum, pageCount),
		}
	}
	return nil
}

func checkSize(lib LibraryType, size, maxSize int64) error {
	if maxSize > 0 && size > maxSize {
		return &WrapperError{
			Library: lib,
			Op:      "open",
			Err:     fmt.Errorf("document too large: %d bytes (max: %d bytes)", size, maxSize),
		}
	}
	return nil
}
