package db

import (
	"context"
	"time"
)

// Cache is the key-value store facade used for dashboard tier caching.
type Cache interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// DataSource is the relational store facade combining all sub-interfaces.
type DataSource interface {
	Pinger
	RowSource
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Row is a single fetched record keyed by column name.
type Row map[string]any

// RowSource provides owner-scoped reads over entity tables.
type RowSource interface {
	Match(ctx context.Context, q *MatchQuery) ([]Row, error)
	Aggregate(ctx context.Context, q *AggregateQuery) (float64, error)
}
