package pdf

import (
	"context"

	"github.com/a3tai/proof-comments/internal/pdf/wrapper"
	"github.com/a3tai/proof-comments/internal/proof"
)

// Decoder exposes a wrapper.PDFLibrary as a proof.Decoder
type Decoder struct {
	library wrapper.PDFLibrary
}

// NewDecoder creates a decoder backed by the given library
func NewDecoder(library wrapper.PDFLibrary) *Decoder {
	return &Decoder{library: library}
}

// Decode opens the source and reads its page count
func (d *Decoder) Decode(ctx context.Context, src proof.Source) (proof.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := d.library.Open(src.Data)
	if err != nil {
		return nil, err
	}

	pages, err := doc.GetPageCount()
	if err != nil {
		_ = doc.Close()
		return nil, err
	}

	return &document{doc: doc, pages: pages}, nil
}

// Library returns the underlying library
func (d *Decoder) Library() wrapper.PDFLibrary {
	return d.library
}

type document struct {
	doc   wrapper.PDFDocument
	pages int
}

func (d *document) PageCount() int {
	return d.pages
}

func (d *document) Annotations(ctx context.Context, page int) ([]proof.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	elements, err := d.doc.ExtractAnnotations(page)
	if err != nil {
		return nil, err
	}

	annots := make([]proof.Annotation, len(elements))
	for i, el := range elements {
		annots[i] = proof.Annotation{
			Subtype:  el.Subtype,
			Title:    el.Title,
			Contents: el.Contents,
		}
	}
	return annots, nil
}

func (d *document) Close() error {
	return d.doc.Close()
}
