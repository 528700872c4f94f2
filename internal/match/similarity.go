package match

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"cellar-registry/internal/constants"
	"cellar-registry/internal/textnorm"
)

// Similarity computes a fuzzy Jaccard index between two token sets in
// [0,1]. Each token of a is greedily paired with the first unpaired token
// of b that is equal or a fuzzy token match; the pair count is the
// intersection size, and score = intersection / (|a| + |b| - intersection).
// Either side empty scores 0.
//
// The greedy pairing is not an optimal bipartite matching: adversarial
// inputs can pair a token sub-optimally and shift the score slightly. That
// is an accepted approximation; the 0.55 threshold was tuned against it.
func Similarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	paired := make([]bool, len(b))
	intersection := 0
	for _, ta := range a {
		for j, tb := range b {
			if paired[j] {
				continue
			}
			if ta == tb || fuzzyTokenMatch(ta, tb) {
				paired[j] = true
				intersection++
				break
			}
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// fuzzyTokenMatch absorbs minor per-token typos: length difference at most
// 2, and Levenshtein distance within a threshold that scales with average
// token length (<=4 chars: 1 edit, <=8: 2, longer: capped at 2) so short
// unrelated words don't collapse into each other. The buckets compare
// against twice the bound so a fractional average (4/5 runes -> 4.5) lands
// in the looser bucket instead of being truncated into the stricter one.
func fuzzyTokenMatch(a, b string) bool {
	la := len([]rune(a))
	lb := len([]rune(b))
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if diff > constants.MaxTokenLenDiff {
		return false
	}
	maxEdit := constants.LongTokenMaxEdit
	switch sum := la + lb; {
	case sum <= 2*constants.ShortTokenLen:
		maxEdit = constants.ShortTokenMaxEdit
	case sum <= 2*constants.MediumTokenLen:
		maxEdit = constants.MediumTokenMaxEdit
	}
	return levenshtein.ComputeDistance(a, b) <= maxEdit
}

// Score tokenizes both names and returns their similarity.
func Score(a, b string) float64 {
	return Similarity(Tokenize(a), Tokenize(b))
}

// MeetsThreshold reports whether the similarity of two names reaches the
// given threshold.
func MeetsThreshold(a, b string, threshold float64) bool {
	return Score(a, b) >= threshold
}

// IsFuzzyMatch applies the default threshold: at least 55% effective token
// overlap.
func IsFuzzyMatch(a, b string) bool {
	return MeetsThreshold(a, b, constants.FuzzyMatchThreshold)
}

// IsSubstringMatch reports whether either normalized name contains the
// other as a contiguous substring. It catches pairs like "Margaux" inside
// "Château Margaux" that fuzzy Jaccard underrates when the token sets have
// very different sizes.
func IsSubstringMatch(a, b string) bool {
	na := textnorm.Clean(a)
	nb := textnorm.Clean(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// SameName reports normalized whole-string equality. The resolver uses it
// to keep exact-name rows out of the similar list.
func SameName(a, b string) bool {
	na := textnorm.Clean(a)
	return na != "" && na == textnorm.Clean(b)
}
