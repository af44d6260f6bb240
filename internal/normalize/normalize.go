// Package normalize provides text normalization for search and display.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the caseless form of s used for case-insensitive matching.
// Input is composed to NFC before and after folding so "é" and "é"
// fold identically.
//
// Fold(a) contains Fold(b) whenever a contains b ignoring case, which is
// what substring search relies on.
func Fold(s string) string {
	// Casers carry state and are not safe to share between goroutines.
	folded := cases.Fold().String(norm.NFC.String(s))
	return norm.NFC.String(folded)
}

// Text trims surrounding whitespace and removes null bytes, which break
// SQLite text comparisons and JSON encoding.
func Text(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s))
}

// Name normalizes a short label such as a category or tag name:
// Text plus internal whitespace runs collapsed to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}

// Slug converts a name into a lowercase, hyphen-separated form.
// Diacritics are stripped; letters from non-Latin scripts are kept.
//
//	"Science Fiction" -> "science-fiction"
//	"Café Culture"    -> "cafe-culture"
//	"Sci-Fi/Fantasy"  -> "sci-fi-fantasy"
func Slug(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingDash := false
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
