package dedup

import (
	"cellar-registry/internal/constants"
	"cellar-registry/internal/match"
)

// SearchTokens derives the coarse tokens the storage layer turns into OR'd
// LIKE predicates. This is the cheap half of the two-stage design: the
// filter over-selects, the scorer in this package then pays the expensive
// per-pair comparison only for the bounded candidate set. Comparing the
// input against every corpus row does not scale and must not come back.
//
// Tokens shorter than MinSearchTokenChars are dropped to keep the
// predicates selective; if nothing survives (very short names), all tokens
// are kept so the filter still returns something for the scorer to judge.
func SearchTokens(name string) []string {
	tokens := match.Tokenize(name)
	selective := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len([]rune(t)) >= constants.MinSearchTokenChars {
			selective = append(selective, t)
		}
	}
	if len(selective) == 0 {
		return tokens
	}
	return selective
}
