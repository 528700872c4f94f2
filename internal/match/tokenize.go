// Package match implements the approximate string comparison used by the
// duplicate resolver: tokenization, fuzzy Jaccard similarity with
// per-token edit-distance tolerance, and normalized substring matching.
package match

import (
	"strings"
	"unicode"

	"cellar-registry/internal/textnorm"
)

// Tokenize turns a raw name into its comparison tokens: strip leading
// articles, strip accents, lowercase, replace everything that is not a
// letter or digit with whitespace, split, drop empties. Downstream
// treats the result as a set; order carries no meaning. Empty,
// whitespace-only and punctuation-only input yields an empty set.
func Tokenize(s string) []string {
	s = textnorm.StripArticles(s)
	s = textnorm.NormalizeAccents(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}
