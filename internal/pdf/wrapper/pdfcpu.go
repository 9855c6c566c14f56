package wrapper

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFCPULibrary implements PDFLibrary interface using pdfcpu
type PDFCPULibrary struct {
	config FactoryConfig
}

// NewPDFCPULibrary creates a new pdfcpu library wrapper
func NewPDFCPULibrary(config FactoryConfig) *PDFCPULibrary {
	return &PDFCPULibrary{config: config}
}

// Open parses an in-memory PDF
func (p *PDFCPULibrary) Open(data []byte) (doc PDFDocument, err error) {
	defer recoverPanic(LibraryPDFCPU, "open", &err)

	if len(data) == 0 {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "open", Err: ErrEmptyDocument.Err}
	}
	if err := checkSize(LibraryPDFCPU, int64(len(data)), p.config.MaxFileSize); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open",
			Err:     fmt.Errorf("failed to read PDF context: %w", err),
		}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open",
			Err:     fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	return &PDFCPUDocument{ctx: ctx}, nil
}

// GetLibraryType returns the library type
func (p *PDFCPULibrary) GetLibraryType() LibraryType {
	return LibraryPDFCPU
}

// GetVersion returns the pdfcpu version
func (p *PDFCPULibrary) GetVersion() string {
	return "pdfcpu-" + model.VersionStr
}

// PDFCPUDocument implements PDFDocument interface using pdfcpu
type PDFCPUDocument struct {
	ctx    *model.Context
	closed bool
}

// GetPageCount returns the number of pages in the document
func (d *PDFCPUDocument) GetPageCount() (int, error) {
	if d.closed {
		return 0, &WrapperError{Library: LibraryPDFCPU, Op: "get_page_count", Err: ErrDocumentClosed.Err}
	}
	return d.ctx.PageCount, nil
}

// ExtractAnnotations extracts annotations from a specific page
func (d *PDFCPUDocument) ExtractAnnotations(pageNum int) (annots []AnnotationElement, err error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "extract_annotations", Err: ErrDocumentClosed.Err}
	}
	if err := checkPage(LibraryPDFCPU, pageNum, d.ctx.PageCount); err != nil {
		return nil, err
	}

	defer recoverPanic(LibraryPDFCPU, "extract_annotations", &err)

	pageDict, _, _, err := d.ctx.PageDict(pageNum, false)
	if err != nil {
		return nil, d.pageError(pageNum, err)
	}
	if pageDict == nil {
		return nil, d.pageError(pageNum, fmt.Errorf("page not found in page tree"))
	}

	obj, found := pageDict.Find("Annots")
	if !found || obj == nil {
		return []AnnotationElement{}, nil
	}

	list, err := d.ctx.DereferenceArray(obj)
	if err != nil {
		return nil, d.pageError(pageNum, fmt.Errorf("invalid /Annots: %w", err))
	}

	annots = make([]AnnotationElement, 0, len(list))
	for _, item := range list {
		dict, err := d.ctx.DereferenceDict(item)
		if err != nil {
			return nil, d.pageError(pageNum, fmt.Errorf("invalid annotation: %w", err))
		}
		if dict == nil {
			continue
		}

		annot := AnnotationElement{Page: pageNum}
		if subtype := dict.NameEntry("Subtype"); subtype != nil {
			annot.Subtype = *subtype
		}
		if annot.Title, err = d.textEntry(dict, "T"); err != nil {
			return nil, d.pageError(pageNum, err)
		}
		if annot.Contents, err = d.textEntry(dict, "Contents"); err != nil {
			return nil, d.pageError(pageNum, err)
		}
		annots = append(annots, annot)
	}

	return annots, nil
}

// textEntry decodes a PDF text string entry; a missing entry yields ""
func (d *PDFCPUDocument) textEntry(dict types.Dict, key string) (string, error) {
	obj, found := dict.Find(key)
	if !found || obj == nil {
		return "", nil
	}

	obj, err := d.ctx.Dereference(obj)
	if err != nil {
		return "", fmt.Errorf("invalid /%s: %w", key, err)
	}

	switch o := obj.(type) {
	case types.StringLiteral:
		return types.StringLiteralToString(o)
	case types.HexLiteral:
		return types.HexLiteralToString(o)
	default:
		return "", nil
	}
}

func (d *PDFCPUDocument) pageError(pageNum int, err error) error {
	return &WrapperError{
		Library: LibraryPDFCPU,
		Op:      "extract_annotations",
		Err:     fmt.Errorf("page %d: %w", pageNum, err),
	}
}

// Close closes the document
func (d *PDFCPUDocument) Close() error {
	d.closed = true
	return nil
}
