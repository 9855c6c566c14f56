package wrapper

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// LedongthucLibrary implements PDFLibrary interface using ledongthuc/pdf
type LedongthucLibrary struct {
	config FactoryConfig
}

// NewLedongthucLibrary creates a new ledongthuc library wrapper
func NewLedongthucLibrary(config FactoryConfig) *LedongthucLibrary {
	return &LedongthucLibrary{config: config}
}

// Open parses an in-memory PDF
func (l *LedongthucLibrary) Open(data []byte) (doc PDFDocument, err error) {
	defer recoverPanic(LibraryLedongthuc, "open", &err)

	if len(data) == 0 {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "open", Err: ErrEmptyDocument.Err}
	}
	if err := checkSize(LibraryLedongthuc, int64(len(data)), l.config.MaxFileSize); err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "open",
			Err:     fmt.Errorf("failed to open PDF: %w", err),
		}
	}

	return &LedongthucDocument{
		reader:    reader,
		pageCount: reader.NumPage(),
	}, nil
}

// GetLibraryType returns the library type
func (l *LedongthucLibrary) GetLibraryType() LibraryType {
	return LibraryLedongthuc
}

// GetVersion returns the ledongthuc/pdf version
func (l *LedongthucLibrary) GetVersion() string {
	return "ledongthuc/pdf-v0.0.0-20250511090121"
}

// LedongthucDocument implements PDFDocument interface using ledongthuc/pdf
type LedongthucDocument struct {
	reader    *pdf.Reader
	pageCount int
	closed    bool
}

// GetPageCount returns the number of pages in the document
func (d *LedongthucDocument) GetPageCount() (int, error) {
	if d.closed {
		return 0, &WrapperError{Library: LibraryLedongthuc, Op: "get_page_count", Err: ErrDocumentClosed.Err}
	}
	return d.pageCount, nil
}

// ExtractAnnotations extracts annotations from a specific page
func (d *LedongthucDocument) ExtractAnnotations(pageNum int) (annots []AnnotationElement, err error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "extract_annotations", Err: ErrDocumentClosed.Err}
	}
	if err := checkPage(LibraryLedongthuc, pageNum, d.pageCount); err != nil {
		return nil, err
	}

	defer recoverPanic(LibraryLedongthuc, "extract_annotations", &err)

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "extract_annotations",
			Err:     fmt.Errorf("page %d not found in page tree", pageNum),
		}
	}

	// Indirect references are resolved by Key/Index
	list := page.V.Key("Annots")
	annots = make([]AnnotationElement, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		annot := list.Index(i)
		if annot.Kind() != pdf.Dict {
			continue
		}
		annots = append(annots, AnnotationElement{
			Page:     pageNum,
			Subtype:  annot.Key("Subtype").Name(),
			Title:    annot.Key("T").Text(),
			Contents: annot.Key("Contents").Text(),
		})
	}

	return annots, nil
}

// Close closes the document
func (d *LedongthucDocument) Close() error {
	d.closed = true
	return nil
}
