package proof

import (
	"strings"
)

const (
	ErrorPricePoint         = "Price_Point"
	ErrorOverallLayout      = "Overall_Layout"
	ErrorImageUsage         = "Image_Usage"
	ErrorProductDescription = "Product_Description"

	// NoContent replaces missing annotation contents
	NoContent = "No content"

	// RevisionPrefix marks a comment as a graphic designer revision note
	RevisionPrefix = "GD:"

	// SubtypePopup is the annotation subtype of popup/reply containers
	SubtypePopup = "Popup"
)

// Classification is the result of classifying one annotation's text
type Classification struct {
	ErrorType string `json:"error_type" yaml:"error_type"`
	Revision  string `json:"revision,omitempty" yaml:"revision,omitempty"`
	Remarks   string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

// errorRule maps a lowercase keyword to an error category
type errorRule struct {
	keyword  string
	category string
}

// errorRules are matched in order against the lowercased content
var errorRules = []errorRule{
	{keyword: "price", category: ErrorPricePoint},
	{keyword: "alignment", category: ErrorOverallLayout},
	{keyword: "image", category: ErrorImageUsage},
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Normalize collapses every line break sequence into a single space and trims
// surrounding whitespace.
func Normalize(content string) string {
	return strings.TrimSpace(lineBreaks.Replace(content))
}

// Classify normalizes annotation contents and derives the error category and
// either a revision note or a remarks note.
func Classify(contents string) Classification {
	if contents == "" {
		contents = NoContent
	}
	content := Normalize(contents)

	result := Classification{ErrorType: errorType(content)}
	if rest, ok := strings.CutPrefix(content, RevisionPrefix); ok {
		result.Revision = strings.TrimSpace(rest)
	} else {
		result.Remarks = content
	}
	return result
}

func errorType(content string) string {
	lower := strings.ToLower(content)
	for _, rule := range errorRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.category
		}
	}
	return ErrorProductDescription
}

// IsPopup reports whether an annotation subtype is a popup container
func IsPopup(subtype string) bool {
	return subtype == SubtypePopup
}
