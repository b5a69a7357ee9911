package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/crmsearch/internal/domain"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/category"
)

// Search parameter limits.
const (
	// MinQueryLength is the shortest trimmed query that is dispatched.
	MinQueryLength = 2
	// MaxQueryLength is the maximum allowed raw query length in bytes.
	MaxQueryLength = 512
	DefaultLimit   = 5
	MaxLimit       = 25
)

// Limits bounds the per-source row cap.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits returns the built-in per-source limits.
func DefaultLimits() Limits {
	return Limits{Default: DefaultLimit, Max: MaxLimit}
}

// Request is a validated federated search query.
type Request struct {
	query      string
	normalized string
	categories category.Set
	limit      int
}

// New validates and normalizes search parameters.
// Empty categories select all. Limit <= 0 uses the default, values above max are clamped.
func New(query string, categories []string, limit int, limits Limits) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	set, err := category.Parse(categories)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if limits.Default <= 0 {
		limits.Default = DefaultLimit
	}
	if limits.Max <= 0 {
		limits.Max = MaxLimit
	}
	if limit <= 0 {
		limit = limits.Default
	}
	if limit > limits.Max {
		limit = limits.Max
	}

	return Request{
		query:      query,
		normalized: strings.ToLower(strings.TrimSpace(query)),
		categories: set,
		limit:      limit,
	}, nil
}

// Query returns the original, unmodified query text.
func (r *Request) Query() string { return r.query }

// Normalized returns the lower-cased, trimmed query sent to adapters.
func (r *Request) Normalized() string { return r.normalized }

// TooShort reports whether the query is below the dispatch threshold.
func (r *Request) TooShort() bool {
	return utf8.RuneCountInString(r.normalized) < MinQueryLength
}

// Categories returns the selected category set.
func (r *Request) Categories() category.Set { return r.categories }

// Limit returns the per-source row cap.
func (r *Request) Limit() int { return r.limit }

// Sources returns the selected adapter sources in fixed dispatch order.
func (r *Request) Sources() []category.Source {
	var out []category.Source
	for _, s := range category.Sources() {
		if r.categories.Has(s.Category) {
			out = append(out, s)
		}
	}
	return out
}
