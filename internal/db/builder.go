package db

import "time"

// MatchBuilder is a fluent builder for MatchQuery.
type MatchBuilder struct {
	q MatchQuery
}

// NewMatch starts building a match query over table.
func NewMatch(table string) *MatchBuilder {
	return &MatchBuilder{q: MatchQuery{Table: table, OwnerColumn: DefaultOwnerColumn}}
}

// Select sets the returned columns. Empty selects all.
func (b *MatchBuilder) Select(columns ...string) *MatchBuilder {
	b.q.Columns = append(b.q.Columns, columns...)
	return b
}

// OwnedBy scopes rows to the given owner.
func (b *MatchBuilder) OwnedBy(owner string) *MatchBuilder {
	b.q.Owner = owner
	return b
}

// OwnerColumn overrides the tenant column.
func (b *MatchBuilder) OwnerColumn(col string) *MatchBuilder {
	b.q.OwnerColumn = col
	return b
}

// Contains matches rows where any field contains term, case-insensitively.
func (b *MatchBuilder) Contains(term string, fields ...string) *MatchBuilder {
	b.q.Term = term
	b.q.Fields = append(b.q.Fields, fields...)
	return b
}

// OrderBy adds sort columns; prefix with "-" for descending.
func (b *MatchBuilder) OrderBy(columns ...string) *MatchBuilder {
	b.q.OrderBy = append(b.q.OrderBy, columns...)
	return b
}

// Limit caps the number of returned rows.
func (b *MatchBuilder) Limit(n int) *MatchBuilder {
	b.q.Limit = n
	return b
}

// Build validates and returns the query.
func (b *MatchBuilder) Build() (*MatchQuery, error) {
	if err := b.q.Validate(); err != nil {
		return nil, err
	}
	q := b.q
	q.Columns = append([]string(nil), b.q.Columns...)
	q.Fields = append([]string(nil), b.q.Fields...)
	q.OrderBy = append([]string(nil), b.q.OrderBy...)
	return &q, nil
}

// AggregateBuilder is a fluent builder for AggregateQuery.
type AggregateBuilder struct {
	q AggregateQuery
}

// NewCount starts building a row count over table.
func NewCount(table string) *AggregateBuilder {
	return &AggregateBuilder{q: AggregateQuery{Table: table, Func: AggCount, OwnerColumn: DefaultOwnerColumn}}
}

// NewSum starts building a sum of column over table.
func NewSum(table, column string) *AggregateBuilder {
	return &AggregateBuilder{q: AggregateQuery{
		Table: table, Func: AggSum, Column: column, OwnerColumn: DefaultOwnerColumn,
	}}
}

// OwnedBy scopes rows to the given owner.
func (b *AggregateBuilder) OwnedBy(owner string) *AggregateBuilder {
	b.q.Owner = owner
	return b
}

// Since keeps rows whose column is at or after t.
func (b *AggregateBuilder) Since(column string, t time.Time) *AggregateBuilder {
	b.q.SinceColumn = column
	b.q.Since = t
	return b
}

// Where adds an equality condition.
func (b *AggregateBuilder) Where(column string, value any) *AggregateBuilder {
	b.q.Conditions = append(b.q.Conditions, Condition{Column: column, Op: OpEq, Value: value})
	return b
}

// WhereNot adds an inequality condition.
func (b *AggregateBuilder) WhereNot(column string, value any) *AggregateBuilder {
	b.q.Conditions = append(b.q.Conditions, Condition{Column: column, Op: OpNotEq, Value: value})
	return b
}

// Build validates and returns the query.
func (b *AggregateBuilder) Build() (*AggregateQuery, error) {
	if err := b.q.Validate(); err != nil {
		return nil, err
	}
	q := b.q
	q.Conditions = append([]Condition(nil), b.q.Conditions...)
	return &q, nil
}

// MustBuild calls Build and panics on error.
func (b *AggregateBuilder) MustBuild() *AggregateQuery {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}
