package answer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// annotation matches bracketed notes such as "[informal]" in side text.
var annotation = regexp.MustCompile(`\[[^\]]*\]`)

// Normalize prepares text for comparison: bracketed annotations are removed,
// case is folded, surrounding space is trimmed and diacritics are stripped.
func Normalize(s string) string {
	s = annotation.ReplaceAllString(s, "")
	s = cases.Fold().String(s)
	s = strings.TrimSpace(s)

	// Transformers keep state, so each call builds its own chain.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return stripped
}

// Distance returns the Levenshtein distance between a and b in runes, with
// unit costs for insertion, deletion and substitution.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}
