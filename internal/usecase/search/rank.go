package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/crmsearch/internal/domain/search/result"
)

// Relevance ladder of a title against the query.
const (
	relevanceNone = iota
	relevanceContains
	relevancePrefix
	relevanceExact
)

// Rank orders results by title relevance: exact, then prefix, then substring.
// The sort is stable and the input slice is left untouched.
func Rank(results []result.Result, query string) []result.Result {
	q := strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		res   result.Result
		score int
	}
	tmp := make([]scored, len(results))
	for i := range results {
		tmp[i] = scored{res: results[i], score: relevance(results[i].Title(), q)}
	}

	slices.SortStableFunc(tmp, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]result.Result, len(tmp))
	for i := range tmp {
		out[i] = tmp[i].res
	}
	return out
}

func relevance(title, q string) int {
	t := strings.ToLower(title)
	switch {
	case t == q:
		return relevanceExact
	case strings.HasPrefix(t, q):
		return relevancePrefix
	case strings.Contains(t, q):
		return relevanceContains
	default:
		return relevanceNone
	}
}
