package contrib

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Initials derives the matching key for a personal name: the first
// letter of every given-name token, uppercased, followed by the first
// letter of every surname token that starts uppercase. Tokens split on
// whitespace, hyphens, and periods.
func Initials(given, surname string) string {
	var b strings.Builder
	for _, tok := range nameTokens(given) {
		r := []rune(tok)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	for _, tok := range nameTokens(surname) {
		r := []rune(tok)[0]
		if unicode.IsUpper(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nameTokens splits a name on whitespace, hyphens, and periods,
// dropping empty tokens.
func nameTokens(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '.'
	})
}

var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldASCII strips diacritics and case-folds a string for the
// string-similarity email fallback.
func foldASCII(s string) string {
	folded, _, err := transform.String(diacriticsFold, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
