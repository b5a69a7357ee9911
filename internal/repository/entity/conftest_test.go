package entity

import (
	"context"

	"github.com/kailas-cloud/crmsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	matchFn func(ctx context.Context, q *db.MatchQuery) ([]db.Row, error)
	calls   []*db.MatchQuery
}

func (m *mockStore) Match(ctx context.Context, q *db.MatchQuery) ([]db.Row, error) {
	m.calls = append(m.calls, q)
	if m.matchFn != nil {
		return m.matchFn(ctx, q)
	}
	return nil, nil
}
