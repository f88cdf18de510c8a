package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeText lowercases and strips combining marks so accented and plain
// spellings compare equal.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// matchKeywords returns the keywords found in the title, in list order and
// original spelling. Empty keywords never match.
func matchKeywords(title string, keywords []string) []string {
	normTitle := normalizeText(title)
	var matched []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(normTitle, normalizeText(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
