// Package textnorm strips the linguistic noise out of entity names so that
// comparison is orthographic, not cosmetic: diacritics, multilingual
// leading articles, stray apostrophe artifacts.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// artifactCutter removes apostrophe/backtick/acute characters that
// transliteration can leave behind ("Ch'ateau" style residue).
var artifactCutter = strings.NewReplacer("'", "", "’", "", "ʼ", "", "`", "", "´", "")

// NormalizeAccents removes diacritics ("Château" -> "Chateau"). The
// Unicode decomposition path is primary; if the transform fails (malformed
// input), a plain ASCII transliteration table takes over. Both paths strip
// leftover apostrophe-like artifacts. Idempotent.
func NormalizeAccents(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = asciiFold(s)
	}
	return artifactCutter.Replace(out)
}

// asciiFold is the fallback transliteration for inputs the transform chain
// rejects. It only covers the Latin accented letters that actually occur
// in wine names; unknown runes pass through unchanged.
func asciiFold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := asciiFoldTable[r]; ok {
			b.WriteString(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var asciiFoldTable = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a",
	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Ä': "A", 'Å': "A",
	'ç': "c", 'Ç': "C",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I",
	'ñ': "n", 'Ñ': "N",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ö': "O",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'Ù': "U", 'Ú': "U", 'Û': "U", 'Ü': "U",
	'ý': "y", 'ÿ': "y", 'Ý': "Y",
	'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
	'ß': "ss", 'ø': "o", 'Ø': "O",
}

// Clean runs the full normalization used for whole-string comparison:
// article stripping, accent removal, case folding, whitespace collapse.
func Clean(s string) string {
	return strings.ToLower(collapseWhitespace(NormalizeAccents(StripArticles(s))))
}
