// Package entity implements the per-source entity query adapters.
package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/crmsearch/internal/db"
	"github.com/kailas-cloud/crmsearch/internal/domain"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/category"
)

// store is the consumer interface for entity matching (ISP).
type store interface {
	Match(ctx context.Context, q *db.MatchQuery) ([]db.Row, error)
}

// Metrics holds the optional adapter instrumentation. Nil vecs are skipped.
type Metrics struct {
	Requests *prometheus.CounterVec   // labels: source, status
	Duration *prometheus.HistogramVec // labels: source
}

// Adapter runs one Table definition against the data source.
type Adapter struct {
	table   Table
	store   store
	metrics Metrics
}

// New creates an adapter for a single table.
func New(table Table, s store, m Metrics) *Adapter {
	return &Adapter{table: table, store: s, metrics: m}
}

// NewAll creates adapters for every table in fixed dispatch order.
func NewAll(s store, m Metrics) []*Adapter {
	tables := Tables()
	out := make([]*Adapter, 0, len(tables))
	for _, table := range tables {
		out = append(out, New(table, s, m))
	}
	return out
}

// Source returns the search source the adapter serves.
func (a *Adapter) Source() category.Source { return a.table.Source }

// Search returns up to limit rows owned by principalID whose fields contain query.
// Rows are ordered most recently updated first.
func (a *Adapter) Search(ctx context.Context, principalID, query string, limit int) ([]db.Row, error) {
	if principalID == "" {
		return nil, fmt.Errorf("search %s: %w", a.table.Source, domain.ErrUnauthenticated)
	}

	q, err := db.NewMatch(a.table.Name).
		OwnedBy(principalID).
		Contains(query, a.table.Fields...).
		OrderBy("-updated_at", "id").
		Limit(limit).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", a.table.Source, err)
	}

	start := time.Now()
	rows, err := a.store.Match(ctx, q)
	a.observe(start, err)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", a.table.Name, err)
	}
	return rows, nil
}

func (a *Adapter) observe(start time.Time, err error) {
	source := a.table.Source.String()
	if a.metrics.Duration != nil {
		a.metrics.Duration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}
	if a.metrics.Requests != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		a.metrics.Requests.WithLabelValues(source, status).Inc()
	}
}
