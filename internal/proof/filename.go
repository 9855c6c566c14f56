package proof

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// Unknown is used for any filename field that cannot be derived
	Unknown = "Unknown"

	ProofCPR   = "CPR"
	ProofPress = "Press"

	ZoneAll       = "All Zones"
	ZoneBilingual = "Bil Zones"
	ZoneEnglish   = "Eng Zones"
)

// Metadata holds the fields derived from a proof file name
type Metadata struct {
	Week  string `json:"week" yaml:"week"`
	Page  string `json:"page" yaml:"page"`
	Proof string `json:"proof" yaml:"proof"`
	Zone  string `json:"zone" yaml:"zone"`
}

var (
	weekPattern = regexp.MustCompile(`WK(\d+)`)

	// pagePattern captures the page identifier between the week prefix and an
	// optional proof/revision suffix or the extension.
	pagePattern = regexp.MustCompile(`^WK\d+_24_(.+?)(?:(_CPR|_PI\s*\d*|_CF|_PR\s*\d*|_PR[1-4](_CF)?|\.pdf))?$`)

	// pageSuffixPattern strips one trailing suffix token left in the capture
	pageSuffixPattern = regexp.MustCompile(`(?:_CPR|_PI\s*\d*|_CF|_PR\s*\d*|_PR[1-4](?:_CF)?)$`)

	proofDigitPattern = regexp.MustCompile(`_PR(\d)`)
)

// proofRule maps a filename predicate to a proof stage label. Rules are
// evaluated in order and the first match wins.
type proofRule struct {
	name  string
	match func(filename string) (string, bool)
}

var proofRules = []proofRule{
	{
		name: "cpr",
		match: func(filename string) (string, bool) {
			return ProofCPR, strings.Contains(filename, "_CPR")
		},
	},
	{
		name: "proof-digit",
		match: func(filename string) (string, bool) {
			m := proofDigitPattern.FindStringSubmatch(filename)
			if m == nil {
				return "", false
			}
			return "Proof " + m[1], true
		},
	},
}

// zoneRule assigns a zone classification when the filename contains any token
type zoneRule struct {
	zone   string
	tokens []string
}

// zoneRules are checked in order; bilingual tokens take precedence over English ones
var zoneRules = []zoneRule{
	{zone: ZoneBilingual, tokens: []string{"B_ON", "B_NB", "B_QC", "_B_MTL_RADDAR"}},
	{zone: ZoneEnglish, tokens: []string{
		"E_ON", "NB", "NS", "PE", "NL", "MB", "SK", "AB", "BC",
		"E_NAT", "E_ATL", "E_WEST", "_E_VAN_RADDAR",
	}},
}

// ParseFilename derives week, page, proof stage and zone from a proof file
// name. Only the base name is considered. It never fails: fields that cannot
// be derived fall back to their defaults.
func ParseFilename(name string) Metadata {
	filename := filepath.Base(name)

	return Metadata{
		Week:  parseWeek(filename),
		Page:  parsePage(filename),
		Proof: parseProof(filename),
		Zone:  parseZone(filename),
	}
}

func parseWeek(filename string) string {
	m := weekPattern.FindStringSubmatch(filename)
	if m == nil {
		return Unknown
	}
	return "Week-" + m[1]
}

func parsePage(filename string) string {
	m := pagePattern.FindStringSubmatch(filename)
	if m == nil {
		return Unknown
	}
	page := pageSuffixPattern.ReplaceAllString(m[1], "")
	return strings.TrimSpace(page)
}

func parseProof(filename string) string {
	for _, rule := range proofRules {
		if label, ok := rule.match(filename); ok {
			return label
		}
	}
	return ProofPress
}

func parseZone(filename string) string {
	for _, rule := range zoneRules {
		for _, token := range rule.tokens {
			if strings.Contains(filename, token) {
				return rule.zone
			}
		}
	}
	return ZoneAll
}
