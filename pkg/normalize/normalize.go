// Package normalize derives matching keys from user-entered text. Net part
// lines are keyed by title so "Plăcuțe frână" and "placute  FRANA" resolve to
// the same purchase-cost history.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TitleKey lowercases a title, strips diacritics and collapses whitespace.
func TitleKey(s string) string {
	// The chain is built per call; chained transformers carry state and
	// are not safe to share across goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}
