// Package sqlite implements db.DataSource over a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/mattn/go-sqlite3"

	"github.com/kailas-cloud/crmsearch/internal/db"
)

// Compile-time check: Store implements db.DataSource.
var _ db.DataSource = (*Store)(nil)

// timeLayout matches CURRENT_TIMESTAMP so text comparison orders correctly.
const timeLayout = "2006-01-02 15:04:05"

// driverName is go-sqlite3 with the Unicode case folding functions registered.
const driverName = "sqlite3_crm"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// Built-in LOWER() folds ASCII only.
			return conn.RegisterFunc("crm_lower", strings.ToLower, true)
		},
	})
}

// Store implements db.DataSource via database/sql and go-sqlite3.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	conn, err := sql.Open(driverName, dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() {
	_ = s.conn.Close()
}

// WaitForReady retries Ping with exponential backoff until timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = timeout

	if err := backoff.Retry(func() error {
		return s.Ping(ctx)
	}, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("timeout waiting for database: %w", err)
	}
	return nil
}

// Exec runs a statement that returns no rows, used for seeding local databases.
func (s *Store) Exec(ctx context.Context, stmt string, args ...any) error {
	if _, err := s.conn.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
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

	rows, err := s.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpMatch, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}

	var out []db.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		row := make(db.Row, len(cols))
		for i, c := range cols {
			row[c] = convertValue(vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
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
	if err := s.conn.QueryRowContext(ctx, stmt, args...).Scan(&v); err != nil {
		return 0, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return v, nil
}

func convertValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

type dialect struct{}

func (dialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }

// ContainsExpr folds NULL to ” since crm_lower only accepts text.
func (dialect) ContainsExpr(column string) string {
	return "crm_lower(COALESCE(CAST(" + column + ` AS TEXT), '')) LIKE crm_lower(?) ESCAPE '\'`
}

func (dialect) Float(expr string) string { return "CAST(" + expr + " AS REAL)" }

func (dialect) Time(t time.Time) any { return t.UTC().Format(timeLayout) }
