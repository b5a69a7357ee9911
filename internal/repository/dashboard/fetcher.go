// Package dashboard computes dashboard tier payloads from the data source.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/crmsearch/internal/db"
	"github.com/kailas-cloud/crmsearch/internal/domain"
	domdash "github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
)

// Opportunity stages that close a deal.
const (
	StageWon  = "closed_won"
	StageLost = "closed_lost"
)

// store is the consumer interface for tier aggregates (ISP).
type store interface {
	Aggregate(ctx context.Context, q *db.AggregateQuery) (float64, error)
}

type aggregate struct {
	field string
	query func(owner string, since time.Time) *db.AggregateQuery
}

// Fetcher computes tier payloads. Aggregates within a tier run sequentially.
type Fetcher struct {
	store store
	now   func() time.Time
}

// New creates a tier fetcher.
func New(s store) *Fetcher {
	return &Fetcher{store: s, now: time.Now}
}

// Fetch computes the payload of one tier. Any aggregate failure fails the tier.
func (f *Fetcher) Fetch(
	ctx context.Context, tier domdash.Tier, principalID string, tr domdash.TimeRange,
) (domdash.Payload, error) {
	if principalID == "" {
		return nil, fmt.Errorf("fetch %s: %w", tier, domain.ErrUnauthenticated)
	}
	now := f.now().UTC()
	var (
		since time.Time
		aggs  []aggregate
	)
	switch tier {
	case domdash.Realtime:
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		aggs = realtimeAggregates
	case domdash.Hourly:
		since = now.Add(-tr.Duration())
		aggs = hourlyAggregates
	case domdash.Daily:
		since = now.Add(-tr.Duration())
		aggs = dailyAggregates
	default:
		return nil, fmt.Errorf("unknown tier %q", tier)
	}

	p := make(domdash.Payload, len(tier.Fields()))
	for _, a := range aggs {
		v, err := f.store.Aggregate(ctx, a.query(principalID, since))
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", tier, a.field, err)
		}
		p[a.field] = v
	}

	if tier == domdash.Daily {
		leads, err := f.store.Aggregate(ctx, leadsSince(principalID, since))
		if err != nil {
			return nil, fmt.Errorf("%s leads: %w", tier, err)
		}
		p[domdash.FieldConversionRate] = ConversionRate(p[domdash.FieldWonDeals], leads)
	}
	return p, nil
}

// ConversionRate returns won/leads as a percentage rounded to two decimals, 0 without leads.
func ConversionRate(won, leads float64) float64 {
	if leads <= 0 {
		return 0
	}
	return math.Round(won/leads*100*100) / 100
}

func leadsSince(owner string, since time.Time) *db.AggregateQuery {
	return db.NewCount("leads").OwnedBy(owner).Since("created_at", since).MustBuild()
}

var realtimeAggregates = []aggregate{
	{domdash.FieldNewLeadsToday, leadsSince},
	{domdash.FieldActivitiesToday, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewCount("activities").OwnedBy(owner).Since("created_at", since).MustBuild()
	}},
	{domdash.FieldOpenTasks, func(owner string, _ time.Time) *db.AggregateQuery {
		return db.NewCount("activities").OwnedBy(owner).
			Where("type", "task").Where("completed", false).MustBuild()
	}},
}

var hourlyAggregates = []aggregate{
	{domdash.FieldTotalLeads, leadsSince},
	{domdash.FieldTotalContacts, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewCount("contacts").OwnedBy(owner).Since("created_at", since).MustBuild()
	}},
	{domdash.FieldOpenOpportunities, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewCount("opportunities").OwnedBy(owner).Since("created_at", since).
			WhereNot("stage", StageWon).WhereNot("stage", StageLost).MustBuild()
	}},
	{domdash.FieldPipelineValue, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewSum("opportunities", "value").OwnedBy(owner).Since("created_at", since).
			WhereNot("stage", StageWon).WhereNot("stage", StageLost).MustBuild()
	}},
	{domdash.FieldActiveCampaigns, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewCount("email_campaigns").OwnedBy(owner).Since("created_at", since).
			Where("status", "active").MustBuild()
	}},
}

var dailyAggregates = []aggregate{
	{domdash.FieldWonDeals, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewCount("opportunities").OwnedBy(owner).Since("updated_at", since).
			Where("stage", StageWon).MustBuild()
	}},
	{domdash.FieldWonRevenue, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewSum("opportunities", "value").OwnedBy(owner).Since("updated_at", since).
			Where("stage", StageWon).MustBuild()
	}},
	{domdash.FieldEmailsSent, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewSum("email_campaigns", "sent_count").OwnedBy(owner).Since("created_at", since).MustBuild()
	}},
	{domdash.FieldFormSubmissions, func(owner string, since time.Time) *db.AggregateQuery {
		return db.NewSum("forms", "submissions").OwnedBy(owner).Since("created_at", since).MustBuild()
	}},
}
