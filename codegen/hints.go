package codegen

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// closestMatch picks the candidate most likely meant by name: the best
// subsequence match first, then the nearest name by edit distance.
func closestMatch(name string, candidates []string) string {
	if len(candidates) == 0 || name == "" {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", len(name)/2+1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(name, c)
		if d < bestDistance || (d == bestDistance && best != "" && c < best) {
			best, bestDistance = c, d
		}
	}
	return best
}
