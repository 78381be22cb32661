// Package suggest finds "did you mean" candidates for a misspelled
// identifier, using fuzzy string matching over the names already
// declared in scope.
package suggest

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Nearest returns the candidate fuzzy-closest to target, or false if
// none of the candidates fuzzy match at all.
func Nearest(target string, candidates []string) (string, bool) {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}
