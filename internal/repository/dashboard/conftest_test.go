package dashboard

import (
	"context"
	"time"

	"github.com/kailas-cloud/crmsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	aggregateFn func(ctx context.Context, q *db.AggregateQuery) (float64, error)
	calls       []*db.AggregateQuery
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) (float64, error) {
	m.calls = append(m.calls, q)
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return 0, nil
}

func newTestFetcher(ms store, now time.Time) *Fetcher {
	f := New(ms)
	f.now = func() time.Time { return now }
	return f
}
