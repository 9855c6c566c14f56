package proof

import (
	"fmt"
	"time"
)

const (
	// DefaultBanner is the banner name written on every comment row
	DefaultBanner = "Walmart"

	// DateLayout is the DD.MM.YYYY upload date format
	DateLayout = "02.01.2006"
)

// Columns is the fixed column order of the comments worksheet
var Columns = []string{
	"Date",
	"Banner",
	"Week",
	"Page",
	"Proof",
	"BI_ENG_All",
	"PageAssembler",
	"QC",
	"SJC_QC",
	"Correction_Revision",
	"NO_OF_ERRORS",
	"ERROR_CATEGORY",
	"REMARKS",
}

// Record is one row of the comments report. PageAssembler and SJCQC are left
// empty for manual entry downstream.
type Record struct {
	Date          string `json:"date" yaml:"date"`
	Banner        string `json:"banner" yaml:"banner"`
	Week          string `json:"week" yaml:"week"`
	Page          string `json:"page" yaml:"page"`
	Proof         string `json:"proof" yaml:"proof"`
	Zone          string `json:"bi_eng_all" yaml:"bi_eng_all"`
	PageAssembler string `json:"page_assembler" yaml:"page_assembler"`
	QC            string `json:"qc" yaml:"qc"`
	SJCQC         string `json:"sjc_qc" yaml:"sjc_qc"`
	Revision      string `json:"correction_revision" yaml:"correction_revision"`
	Errors        int    `json:"no_of_errors" yaml:"no_of_errors"`
	ErrorCategory string `json:"error_category" yaml:"error_category"`
	Remarks       string `json:"remarks" yaml:"remarks"`
}

// NewRecord builds a comment row from per-run, per-file and per-annotation data
func NewRecord(uploadDate, banner string, meta Metadata, author string, c Classification) Record {
	if author == "" {
		author = Unknown
	}
	return Record{
		Date:          uploadDate,
		Banner:        banner,
		Week:          meta.Week,
		Page:          meta.Page,
		Proof:         meta.Proof,
		Zone:          meta.Zone,
		QC:            author,
		Revision:      c.Revision,
		Errors:        1,
		ErrorCategory: c.ErrorType,
		Remarks:       c.Remarks,
	}
}

// BlankRecord returns the separator row appended after each file
func BlankRecord() Record {
	return Record{}
}

// IsBlank reports whether r is a separator row
func (r Record) IsBlank() bool {
	return r == Record{}
}

// Values returns the row cells in Columns order. The error count of a
// separator row is rendered as an empty cell.
func (r Record) Values() []any {
	var errors any = ""
	if r.Errors > 0 {
		errors = r.Errors
	}
	return []any{
		r.Date,
		r.Banner,
		r.Week,
		r.Page,
		r.Proof,
		r.Zone,
		r.PageAssembler,
		r.QC,
		r.SJCQC,
		r.Revision,
		errors,
		r.ErrorCategory,
		r.Remarks,
	}
}

// FormatDate renders t as DD.MM.YYYY
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateDate checks that s is a DD.MM.YYYY date
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("upload date %q must use DD.MM.YYYY: %w", s, err)
	}
	return nil
}

// SelectionSummary describes how many files were chosen
func SelectionSummary(count int) string {
	if count > 0 {
		return fmt.Sprintf("%d file(s) chosen", count)
	}
	return "No files chosen"
}
