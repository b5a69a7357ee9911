package search

import (
	"context"

	"github.com/kailas-cloud/crmsearch/internal/db"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/category"
)

// Adapter fetches raw rows of one search source.
type Adapter interface {
	Source() category.Source
	Search(ctx context.Context, principalID, query string, limit int) ([]db.Row, error)
}
