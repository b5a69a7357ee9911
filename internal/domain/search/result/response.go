package result

import "github.com/kailas-cloud/crmsearch/internal/domain/search/category"

// Response is the categorized outcome of one federated search.
type Response struct {
	query      string
	results    []Result
	categories map[category.Category]int
}

// NewResponse creates a response. results must already be ranked.
func NewResponse(query string, results []Result, categories map[category.Category]int) Response {
	if results == nil {
		results = []Result{}
	}
	if categories == nil {
		categories = map[category.Category]int{}
	}
	return Response{query: query, results: results, categories: categories}
}

// Empty returns a response with no results and no category counts.
func Empty(query string) Response {
	return NewResponse(query, nil, nil)
}

// Query returns the original, unmodified input.
func (r *Response) Query() string { return r.query }

// Results returns the ranked results.
func (r *Response) Results() []Result { return r.results }

// TotalCount returns the number of returned results.
func (r *Response) TotalCount() int { return len(r.results) }

// Categories returns matched counts per dispatched category.
func (r *Response) Categories() map[category.Category]int { return r.categories }
