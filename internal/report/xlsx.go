// Package report renders comment rows as an XLSX workbook.
package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/proof-comments/internal/proof"
)

const (
	// FileName is the default name of the generated workbook
	FileName = "comments.xlsx"
	// SheetName is the single worksheet holding the rows
	SheetName = "Comments"
	// ContentType is the MIME type of the generated workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultSheet = "Sheet1"
)

// Column widths in character units, keyed by column range
var columnWidths = []struct {
	from, to string
	width    float64
}{
	{"A", "A", 12}, // Date
	{"B", "C", 10}, // Banner, Week
	{"D", "D", 28}, // Page
	{"E", "F", 12}, // Proof, zone
	{"G", "I", 16}, // assembler and reviewers
	{"J", "J", 40}, // revision
	{"K", "K", 14}, // error count
	{"L", "L", 22}, // category
	{"M", "M", 60}, // remarks
}

// Write renders rows under the header row and writes the workbook to w
func Write(w io.Writer, rows []proof.Record) error {
	f, err := build(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// Bytes renders rows and returns the workbook bytes
func Bytes(rows []proof.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAs renders rows and saves the workbook at path
func SaveAs(path string, rows []proof.Record) error {
	f, err := build(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx save %s: %w", path, err)
	}
	return nil
}

func build(rows []proof.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet(defaultSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	header := make([]any, len(proof.Columns))
	for i, name := range proof.Columns {
		header[i] = name
	}
	if err := setRow(f, 1, header); err != nil {
		f.Close()
		return nil, err
	}

	for i, rec := range rows {
		if rec.IsBlank() {
			// separator rows stay empty
			continue
		}
		if err := setRow(f, i+2, rec.Values()); err != nil {
			f.Close()
			return nil, err
		}
	}

	for _, c := range columnWidths {
		if err := f.SetColWidth(SheetName, c.from, c.to, c.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("xlsx column width %s:%s: %w", c.from, c.to, err)
		}
	}

	return f, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("xlsx row %d: %w", row, err)
	}
	return nil
}
