package index

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// fuzzyScore returns an opaque, monotone-with-match-quality similarity
// score in [0, 1]. It is Jaro-Winkler similarity with an exact-prefix
// bonus layered on top, so that a candidate beginning with the query
// text always outranks an arbitrary subsequence match of similar
// Jaro-Winkler score — the one hard requirement spec §4.D places on the
// scoring function.
func fuzzyScore(pattern, candidate string) float64 {
	if pattern == "" || candidate == "" {
		return 0
	}

	base, err := edlib.StringsSimilarity(pattern, candidate, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	score := float64(base)

	if strings.HasPrefix(strings.ToLower(candidate), strings.ToLower(pattern)) {
		score = score + (1-score)*0.5
	}
	if score > 1 {
		score = 1
	}
	return score
}

// fuzzyThreshold is the minimum score a candidate must clear to appear
// in a fuzzy tier or in fuzzy_search results at all.
const fuzzyThreshold = 0.35
