package proof

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocument serves annotations from memory; pages[0] is page 1
type fakeDocument struct {
	pages   [][]Annotation
	pageErr map[int]error
	closed  *int
}

func (d *fakeDocument) PageCount() int { return len(d.pages) }

func (d *fakeDocument) Annotations(_ context.Context, page int) ([]Annotation, error) {
	if err := d.pageErr[page]; err != nil {
		return nil, err
	}
	return d.pages[page-1], nil
}

func (d *fakeDocument) Close() error {
	if d.closed != nil {
		*d.closed++
	}
	return nil
}

type fakeDecoder struct {
	docs    map[string]*fakeDocument
	decoded []string
}

func (f *fakeDecoder) Decode(_ context.Context, src Source) (Document, error) {
	f.decoded = append(f.decoded, src.Name)
	doc, ok := f.docs[src.Name]
	if !ok {
		return nil, errors.New("malformed PDF")
	}
	return doc, nil
}

func sources(names ...string) []Source {
	out := make([]Source, 0, len(names))
	for _, n := range names {
		out = append(out, Source{Name: n, Data: []byte("%PDF-1.4")})
	}
	return out
}

func text(contents, author string) Annotation {
	return Annotation{Subtype: "Text", Title: author, Contents: contents}
}

func TestAssembler_TwoFilesEndToEnd(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK3_24_ProductA_PR2.pdf": {pages: [][]Annotation{{
			text("Wrong price", "Alice"),
			text("GD: image swapped", "Bob"),
		}}},
		"WK3_24_ProductB_CPR_B_QC.pdf": {pages: [][]Annotation{{
			text("Fix alignment", ""),
			text("Typo\r\nin copy", "Carol"),
		}}},
	}}

	a := NewAssembler(dec)
	result, err := a.Run(context.Background(), RunRequest{
		UploadDate: "05.03.2024",
		Files:      sources("WK3_24_ProductA_PR2.pdf", "WK3_24_ProductB_CPR_B_QC.pdf"),
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 6)

	assert.Equal(t, Record{
		Date: "05.03.2024", Banner: "Walmart", Week: "Week-3", Page: "ProductA", Proof: "Proof 2",
		Zone: ZoneAll, QC: "Alice", Errors: 1, ErrorCategory: ErrorPricePoint, Remarks: "Wrong price",
	}, result.Rows[0])
	assert.Equal(t, "image swapped", result.Rows[1].Revision)
	assert.Empty(t, result.Rows[1].Remarks)
	assert.Equal(t, ErrorImageUsage, result.Rows[1].ErrorCategory)
	assert.True(t, result.Rows[2].IsBlank())

	assert.Equal(t, "ProductB_CPR_B_QC", result.Rows[3].Page)
	assert.Equal(t, ProofCPR, result.Rows[3].Proof)
	assert.Equal(t, ZoneBilingual, result.Rows[3].Zone)
	assert.Equal(t, Unknown, result.Rows[3].QC)
	assert.Equal(t, ErrorOverallLayout, result.Rows[3].ErrorCategory)
	assert.Equal(t, "Typo in copy", result.Rows[4].Remarks)
	assert.True(t, result.Rows[5].IsBlank())

	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 4, result.Annotations)
	assert.Equal(t, 4, result.Comments)
	assert.Zero(t, result.Duplicates)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"WK3_24_ProductA_PR2.pdf", "WK3_24_ProductB_CPR_B_QC.pdf"}, dec.decoded)
}

func TestAssembler_DropsDuplicates(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK1_24_Deli_PR1.pdf": {pages: [][]Annotation{
			{text("Wrong price", "Alice"), text("Wrong\nprice", "Bob")},
			{text("Wrong price", "Carol"), text("Other", "Dan")},
		}},
		"WK2_24_Deli_PR1.pdf": {pages: [][]Annotation{
			{text("Wrong price", "Eve")},
		}},
		"WK1_24_Deli_PR2.pdf": {pages: [][]Annotation{
			{text("Wrong price", "Frank")},
		}},
	}}

	result, err := NewAssembler(dec).Run(context.Background(), RunRequest{
		UploadDate: "01.01.2024",
		Files:      sources("WK1_24_Deli_PR1.pdf", "WK2_24_Deli_PR1.pdf", "WK1_24_Deli_PR2.pdf"),
	})
	require.NoError(t, err)

	var authors []string
	for _, row := range result.Rows {
		if !row.IsBlank() {
			authors = append(authors, row.QC)
		}
	}
	// Page, proof and remarks identify a comment. The first occurrence wins.
	assert.Equal(t, []string{"Alice", "Dan", "Frank"}, authors)
	assert.Equal(t, 3, result.Duplicates)
	assert.Len(t, result.Rows, 6)
}

func TestAssembler_RevisionNotesShareEmptyRemarks(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK2_24_Meat.pdf": {pages: [][]Annotation{{
			text("GD: first fix", "Alice"),
			text("GD: second fix", "Alice"),
		}}},
	}}

	result, err := NewAssembler(dec).Run(context.Background(), RunRequest{
		UploadDate: "01.01.2024",
		Files:      sources("WK2_24_Meat.pdf"),
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "first fix", result.Rows[0].Revision)
	assert.Equal(t, 1, result.Duplicates)
}

func TestAssembler_SkipsPopups(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK2_24_Meat.pdf": {pages: [][]Annotation{{
			{Subtype: SubtypePopup, Contents: "Never seen before"},
			text("Keep me", "Alice"),
			{Subtype: SubtypePopup},
		}}},
	}}

	result, err := NewAssembler(dec).Run(context.Background(), RunRequest{
		UploadDate: "01.01.2024",
		Files:      sources("WK2_24_Meat.pdf"),
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Keep me", result.Rows[0].Remarks)
	assert.Equal(t, 2, result.Popups)
	assert.Equal(t, 1, result.Annotations)
}

func TestAssembler_FileWithoutAnnotations(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK2_24_Empty.pdf": {pages: [][]Annotation{{}, nil}},
	}}

	result, err := NewAssembler(dec).Run(context.Background(), RunRequest{
		UploadDate: "01.01.2024",
		Files:      sources("WK2_24_Empty.pdf"),
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.True(t, result.Rows[0].IsBlank())
	assert.Equal(t, 2, result.Pages)
}

func TestAssembler_NoFiles(t *testing.T) {
	dec := &fakeDecoder{}
	result, err := NewAssembler(dec).Run(context.Background(), RunRequest{})
	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Nil(t, result)
	assert.Empty(t, dec.decoded)
}

func TestAssembler_DecodeFailureAbortsRun(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK1_24_Good.pdf":  {pages: [][]Annotation{{text("fine", "Alice")}}},
		"WK1_24_Later.pdf": {pages: [][]Annotation{{text("fine", "Alice")}}},
	}}

	result, err := NewAssembler(dec).Run(context.Background(), RunRequest{
		Files: sources("WK1_24_Good.pdf", "WK1_24_Broken.pdf", "WK1_24_Later.pdf"),
	})
	require.Error(t, err)
	assert.Nil(t, result)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "WK1_24_Broken.pdf", decodeErr.File)
	assert.Zero(t, decodeErr.Page)
	assert.Contains(t, err.Error(), "malformed PDF")
	assert.Equal(t, []string{"WK1_24_Good.pdf", "WK1_24_Broken.pdf"}, dec.decoded)
}

func TestAssembler_PageFailureAbortsRun(t *testing.T) {
	closed := 0
	pageErr := errors.New("bad annots array")
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK1_24_Good.pdf": {
			pages:   [][]Annotation{{text("fine", "Alice")}, {text("never", "Bob")}},
			pageErr: map[int]error{2: pageErr},
			closed:  &closed,
		},
	}}

	_, err := NewAssembler(dec).Run(context.Background(), RunRequest{Files: sources("WK1_24_Good.pdf")})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 2, decodeErr.Page)
	assert.ErrorIs(t, err, pageErr)
	assert.Equal(t, 1, closed)
}

func TestAssembler_DefaultsUploadDate(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK1_24_A.pdf": {pages: [][]Annotation{{text("x", "Alice")}}},
	}}
	clock := func() time.Time { return time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC) }

	result, err := NewAssembler(dec, WithClock(clock), WithBanner("Sams")).Run(
		context.Background(), RunRequest{Files: sources("WK1_24_A.pdf")},
	)
	require.NoError(t, err)
	assert.Equal(t, "09.03.2024", result.UploadDate)
	assert.Equal(t, "09.03.2024", result.Rows[0].Date)
	assert.Equal(t, "Sams", result.Rows[0].Banner)
}

func TestAssembler_RunsAreIsolated(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK1_24_A.pdf": {pages: [][]Annotation{{text("x", "Alice")}}},
	}}
	a := NewAssembler(dec)
	req := RunRequest{UploadDate: "01.01.2024", Files: sources("WK1_24_A.pdf")}

	first, err := a.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := a.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestAssembler_CancelledContext(t *testing.T) {
	dec := &fakeDecoder{docs: map[string]*fakeDocument{
		"WK1_24_A.pdf": {pages: [][]Annotation{{text("x", "Alice")}}},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAssembler(dec).Run(ctx, RunRequest{Files: sources("WK1_24_A.pdf")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dec.decoded)
}
