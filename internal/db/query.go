package db

import (
	"fmt"
	"time"
)

// DefaultOwnerColumn is the tenant column every entity table carries.
const DefaultOwnerColumn = "user_id"

// AggregateFunc selects the aggregate computed by an AggregateQuery.
type AggregateFunc string

const (
	// AggCount counts matching rows.
	AggCount AggregateFunc = "COUNT"
	// AggSum sums a numeric column over matching rows.
	AggSum AggregateFunc = "SUM"
)

// CompareOp is an equality operator for filter conditions.
type CompareOp string

const (
	// OpEq matches equal values.
	OpEq CompareOp = "="
	// OpNotEq matches different values.
	OpNotEq CompareOp = "<>"
)

// Condition is a single column filter.
type Condition struct {
	Column string
	Op     CompareOp
	Value  any
}

// MatchQuery fetches owner-scoped rows whose fields contain a term.
type MatchQuery struct {
	Table       string
	Columns     []string
	OwnerColumn string
	Owner       string
	Term        string
	Fields      []string
	OrderBy     []string // columns; a "-" prefix sorts descending
	Limit       int
}

// AggregateQuery computes a count or sum over owner-scoped rows.
type AggregateQuery struct {
	Table       string
	Func        AggregateFunc
	Column      string
	OwnerColumn string
	Owner       string
	SinceColumn string
	Since       time.Time
	Conditions  []Condition
}

// Validate checks that the match query is well-formed.
func (q *MatchQuery) Validate() error {
	if err := validateScope(q.Table, q.OwnerColumn, q.Owner); err != nil {
		return err
	}
	if q.Term == "" {
		return fmt.Errorf("%w: match term is required", ErrInvalidQuery)
	}
	if len(q.Fields) == 0 {
		return fmt.Errorf("%w: at least one match field is required", ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}
	for _, c := range q.Columns {
		if !IsValidIdentifier(c) {
			return fmt.Errorf("%w: invalid column %q", ErrInvalidQuery, c)
		}
	}
	for _, f := range q.Fields {
		if !IsValidIdentifier(f) {
			return fmt.Errorf("%w: invalid match field %q", ErrInvalidQuery, f)
		}
	}
	for _, o := range q.OrderBy {
		col, _ := orderColumn(o)
		if !IsValidIdentifier(col) {
			return fmt.Errorf("%w: invalid order column %q", ErrInvalidQuery, o)
		}
	}
	return nil
}

// Validate checks that the aggregate query is well-formed.
func (q *AggregateQuery) Validate() error {
	if err := validateScope(q.Table, q.OwnerColumn, q.Owner); err != nil {
		return err
	}
	switch q.Func {
	case AggCount:
	case AggSum:
		if !IsValidIdentifier(q.Column) {
			return fmt.Errorf("%w: sum requires a valid column", ErrInvalidQuery)
		}
	default:
		return fmt.Errorf("%w: unknown aggregate %q", ErrInvalidQuery, q.Func)
	}
	if !q.Since.IsZero() && !IsValidIdentifier(q.SinceColumn) {
		return fmt.Errorf("%w: invalid since column %q", ErrInvalidQuery, q.SinceColumn)
	}
	for _, c := range q.Conditions {
		if !IsValidIdentifier(c.Column) {
			return fmt.Errorf("%w: invalid condition column %q", ErrInvalidQuery, c.Column)
		}
		if c.Op != OpEq && c.Op != OpNotEq {
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, c.Op)
		}
	}
	return nil
}

func validateScope(table, ownerColumn, owner string) error {
	if !IsValidIdentifier(table) {
		return fmt.Errorf("%w: invalid table %q", ErrInvalidQuery, table)
	}
	if !IsValidIdentifier(ownerColumn) {
		return fmt.Errorf("%w: invalid owner column %q", ErrInvalidQuery, ownerColumn)
	}
	if owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidQuery)
	}
	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z_][a-zA-Z0-9_]*.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isAlpha && r != '_' && (i == 0 || !isDigit) {
			return false
		}
	}
	return true
}

func orderColumn(o string) (string, bool) {
	if len(o) > 0 && o[0] == '-' {
		return o[1:], true
	}
	return o, false
}
