package dashboard

import (
	"context"

	domdash "github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
)

// Cache stores tier payloads under derived keys.
type Cache interface {
	Key(tier domdash.Tier, principalID string, tr domdash.TimeRange) string
	Get(ctx context.Context, tier domdash.Tier, key string) (domdash.Payload, bool)
	Set(ctx context.Context, tier domdash.Tier, key string, p domdash.Payload) error
}

// Fetcher computes a tier payload from the data source.
type Fetcher interface {
	Fetch(ctx context.Context, tier domdash.Tier, principalID string, tr domdash.TimeRange) (domdash.Payload, error)
}

// Runner schedules fire-and-forget work.
type Runner interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context) error)
}
