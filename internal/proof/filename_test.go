package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Metadata
	}{
		{
			name:     "proof digit suffix",
			filename: "WK3_24_ProductA_PR2.pdf",
			want:     Metadata{Week: "Week-3", Page: "ProductA", Proof: "Proof 2", Zone: ZoneAll},
		},
		{
			name:     "cpr wins over proof digit",
			filename: "WK5_24_Thing_PR1_CPR.pdf",
			want:     Metadata{Week: "Week-5", Page: "Thing_PR1", Proof: ProofCPR, Zone: ZoneAll},
		},
		{
			name:     "cpr suffix stripped from page",
			filename: "WK5_24_Thing_CPR.pdf",
			want:     Metadata{Week: "Week-5", Page: "Thing", Proof: ProofCPR, Zone: ZoneAll},
		},
		{
			name:     "press by default",
			filename: "WK12_24_Cover_CF.pdf",
			want:     Metadata{Week: "Week-12", Page: "Cover", Proof: ProofPress, Zone: ZoneAll},
		},
		{
			name:     "proof with cf marker",
			filename: "WK8_24_Dairy_PR3_CF.pdf",
			want:     Metadata{Week: "Week-8", Page: "Dairy", Proof: "Proof 3", Zone: ZoneAll},
		},
		{
			name:     "pi marker with space",
			filename: "WK7_24_Grocery_PI 2.pdf",
			want:     Metadata{Week: "Week-7", Page: "Grocery", Proof: ProofPress, Zone: ZoneAll},
		},
		{
			name:     "page is trimmed",
			filename: "WK1_24_Deli .pdf",
			want:     Metadata{Week: "Week-1", Page: "Deli", Proof: ProofPress, Zone: ZoneAll},
		},
		{
			name:     "no extension",
			filename: "WK4_24_Bakery",
			want:     Metadata{Week: "Week-4", Page: "Bakery", Proof: ProofPress, Zone: ZoneAll},
		},
		{
			name:     "unrecognised name",
			filename: "random.pdf",
			want:     Metadata{Week: Unknown, Page: Unknown, Proof: ProofPress, Zone: ZoneAll},
		},
		{
			name:     "week found without page prefix",
			filename: "proof_WK9_draft.pdf",
			want:     Metadata{Week: "Week-9", Page: Unknown, Proof: ProofPress, Zone: ZoneAll},
		},
		{
			name:     "directory is ignored",
			filename: "/tmp/uploads/WK3_24_ProductA_PR2.pdf",
			want:     Metadata{Week: "Week-3", Page: "ProductA", Proof: "Proof 2", Zone: ZoneAll},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilename(tt.filename))
		})
	}
}

func TestParseFilename_Zones(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{filename: "WK1_24_Flyer_B_QC.pdf", want: ZoneBilingual},
		{filename: "WK1_24_Flyer_B_ON.pdf", want: ZoneBilingual},
		{filename: "WK1_24_Flyer_B_MTL_RADDAR.pdf", want: ZoneBilingual},
		// B_NB also contains the English token NB
		{filename: "WK1_24_Flyer_B_NB.pdf", want: ZoneBilingual},
		{filename: "WK1_24_Flyer_AB.pdf", want: ZoneEnglish},
		{filename: "WK1_24_Flyer_E_WEST.pdf", want: ZoneEnglish},
		{filename: "WK1_24_Flyer_E_VAN_RADDAR.pdf", want: ZoneEnglish},
		{filename: "WK1_24_Flyer.pdf", want: ZoneAll},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilename(tt.filename).Zone)
		})
	}
}

func TestParseFilename_Total(t *testing.T) {
	inputs := []string{"", ".", "WK", "WK_24_", "WK1_24_", "WK1_24_.pdf", "\n", "_PR", "_CPR"}
	for _, in := range inputs {
		meta := ParseFilename(in)
		assert.NotEmpty(t, meta.Week, "input %q", in)
		assert.NotEmpty(t, meta.Proof, "input %q", in)
		assert.NotEmpty(t, meta.Zone, "input %q", in)
	}
}
