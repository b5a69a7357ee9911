// Package postgres implements db.DataSource over PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/crmsearch/internal/db"
)

// Compile-time check: Store implements db.DataSource.
var _ db.DataSource = (*Store)(nil)

// Config holds connection parameters for a Postgres store.
type Config struct {
	DSN      string
	MaxConns int32
}

// Store implements db.DataSource via a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a pooled Postgres store. The pool connects lazily.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady retries Ping with exponential backoff until timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = timeout

	if err := backoff.Retry(func() error {
		return s.Ping(ctx)
	}, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("timeout waiting for database: %w", err)
	}
	return nil
}

// Match fetches owner-scoped rows whose fields contain the query term.
func (s *Store) Match(ctx context.Context, q *db.MatchQuery) ([]db.Row, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	stmt, args, err := db.MatchSQL(dialect{}, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpMatch, Err: err}
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}

	out := make([]db.Row, 0, len(maps))
	for _, m := range maps {
		row := make(db.Row, len(m))
		for k, v := range m {
			row[k] = convertValue(v)
		}
		out = append(out, row)
	}
	return out, nil
}

// Aggregate computes a count or sum over owner-scoped rows.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) (float64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	stmt, args, err := db.AggregateSQL(dialect{}, q)
	if err != nil {
		return 0, err
	}

	var v float64
	if err := s.pool.QueryRow(ctx, stmt, args...).Scan(&v); err != nil {
		return 0, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return v, nil
}

type dialect struct{}

func (dialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Dollar }

func (dialect) ContainsExpr(column string) string {
	return column + `::text ILIKE ? ESCAPE '\'`
}

func (dialect) Float(expr string) string { return "(" + expr + ")::float8" }

func (dialect) Time(t time.Time) any { return t.UTC() }
