package db

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Dialect renders the driver-specific parts of a SQL statement.
type Dialect interface {
	// PlaceholderFormat rewrites "?" bind markers into the driver's form.
	PlaceholderFormat() sq.PlaceholderFormat
	// ContainsExpr returns a case-insensitive LIKE over column with a single "?" bind.
	ContainsExpr(column string) string
	// Float casts a numeric expression to a float result.
	Float(expr string) string
	// Time converts a time bind value to the driver representation.
	Time(t time.Time) any
}

// LikePattern escapes LIKE wildcards in term and wraps it for substring matching.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// MatchSQL renders a validated MatchQuery into a statement and bind args.
func MatchSQL(d Dialect, q *MatchQuery) (string, []any, error) {
	columns := q.Columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	pattern := LikePattern(q.Term)
	anyField := make(sq.Or, 0, len(q.Fields))
	for _, f := range q.Fields {
		anyField = append(anyField, sq.Expr(d.ContainsExpr(f), pattern))
	}

	order := make([]string, 0, len(q.OrderBy))
	for _, o := range q.OrderBy {
		col, desc := orderColumn(o)
		if desc {
			col += " DESC"
		}
		order = append(order, col)
	}

	stmt, args, err := sq.Select(columns...).
		From(q.Table).
		Where(sq.Eq{q.OwnerColumn: q.Owner}).
		Where(anyField).
		OrderBy(order...).
		Limit(uint64(q.Limit)).
		PlaceholderFormat(d.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return stmt, args, nil
}

// AggregateSQL renders a validated AggregateQuery into a statement and bind args.
func AggregateSQL(d Dialect, q *AggregateQuery) (string, []any, error) {
	expr := "COUNT(*)"
	if q.Func == AggSum {
		expr = "COALESCE(SUM(" + q.Column + "), 0)"
	}

	b := sq.Select(d.Float(expr)).
		From(q.Table).
		Where(sq.Eq{q.OwnerColumn: q.Owner})
	if !q.Since.IsZero() {
		b = b.Where(sq.GtOrEq{q.SinceColumn: d.Time(q.Since)})
	}
	for _, c := range q.Conditions {
		if c.Op == OpNotEq {
			b = b.Where(sq.NotEq{c.Column: c.Value})
		} else {
			b = b.Where(sq.Eq{c.Column: c.Value})
		}
	}

	stmt, args, err := b.PlaceholderFormat(d.PlaceholderFormat()).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return stmt, args, nil
}
