package proof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator()

	assert.True(t, d.CheckAndRecord("ProductA", "Proof 2", "Wrong price"))
	assert.False(t, d.CheckAndRecord("ProductA", "Proof 2", "Wrong price"))
	assert.True(t, d.CheckAndRecord("ProductA", "Proof 3", "Wrong price"))
	assert.True(t, d.CheckAndRecord("ProductB", "Proof 2", "Wrong price"))
	assert.Equal(t, 3, d.Len())
}

func TestDeduplicator_NoSeparatorCollisions(t *testing.T) {
	d := NewDeduplicator()

	// These triples join to the same underscore-separated string
	assert.True(t, d.CheckAndRecord("A_B", "C", "D"))
	assert.True(t, d.CheckAndRecord("A", "B_C", "D"))
	assert.True(t, d.CheckAndRecord("A", "B", "C_D"))
	assert.Equal(t, 3, d.Len())
}

func TestDeduplicator_Independent(t *testing.T) {
	first := NewDeduplicator()
	second := NewDeduplicator()

	require.True(t, first.CheckAndRecord("P", "CPR", "x"))
	assert.True(t, second.CheckAndRecord("P", "CPR", "x"))
}

func TestRecord_Values(t *testing.T) {
	meta := Metadata{Week: "Week-3", Page: "ProductA", Proof: "Proof 2", Zone: ZoneEnglish}
	rec := NewRecord("05.03.2024", DefaultBanner, meta, "", Classification{
		ErrorType: ErrorPricePoint,
		Remarks:   "Wrong price",
	})

	assert.Equal(t, []any{
		"05.03.2024", "Walmart", "Week-3", "ProductA", "Proof 2", ZoneEnglish,
		"", Unknown, "", "", 1, ErrorPricePoint, "Wrong price",
	}, rec.Values())
	assert.False(t, rec.IsBlank())
	assert.Len(t, rec.Values(), len(Columns))
}

func TestBlankRecord(t *testing.T) {
	blank := BlankRecord()
	assert.True(t, blank.IsBlank())

	values := blank.Values()
	require.Len(t, values, len(Columns))
	for i, v := range values {
		assert.Equal(t, "", v, "column %s", Columns[i])
	}
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{
		"Date", "Banner", "Week", "Page", "Proof", "BI_ENG_All", "PageAssembler", "QC",
		"SJC_QC", "Correction_Revision", "NO_OF_ERRORS", "ERROR_CATEGORY", "REMARKS",
	}, Columns)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "07.01.2024", FormatDate(time.Date(2024, time.January, 7, 15, 4, 0, 0, time.UTC)))
	assert.NoError(t, ValidateDate("31.12.2024"))
	assert.Error(t, ValidateDate("2024-12-31"))
	assert.Error(t, ValidateDate("32.01.2024"))
}

func TestSelectionSummary(t *testing.T) {
	assert.Equal(t, "No files chosen", SelectionSummary(0))
	assert.Equal(t, "1 file(s) chosen", SelectionSummary(1))
	assert.Equal(t, "3 file(s) chosen", SelectionSummary(3))
}
