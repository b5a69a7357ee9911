package dashboard

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/crmsearch/internal/domain"
	domdash "github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
	"github.com/kailas-cloud/crmsearch/internal/logger"
)

// Service serves the tiered dashboard summary.
type Service struct {
	cache       Cache
	fetcher     Fetcher
	runner      Runner
	fetchErrors *prometheus.CounterVec
	now         func() time.Time
}

// Option configures the dashboard service.
type Option func(*Service)

// WithFetchErrorCounter counts tier fetch failures by tier.
func WithFetchErrorCounter(c *prometheus.CounterVec) Option {
	return func(s *Service) { s.fetchErrors = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a dashboard service.
func New(cache Cache, fetcher Fetcher, runner Runner, opts ...Option) *Service {
	s := &Service{cache: cache, fetcher: fetcher, runner: runner, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary returns the merged payload of the requested tiers.
// Only a full cache hit is served from cache; any miss refetches every requested tier.
func (s *Service) Summary(ctx context.Context, principalID string, opts domdash.Options) (domdash.Summary, error) {
	start := s.now()
	if principalID == "" {
		return domdash.Summary{}, domain.ErrUnauthenticated
	}
	tiers := opts.Tiers
	if len(tiers) == 0 {
		tiers = domdash.Tiers()
	}
	tr := opts.TimeRange
	if !tr.IsValid() {
		tr = domdash.DefaultTimeRange
	}

	keys := make([]string, len(tiers))
	for i, tier := range tiers {
		keys[i] = s.cache.Key(tier, principalID, tr)
	}

	cached, hits := s.lookup(ctx, tiers, keys)

	var (
		payloads []domdash.Payload
		source   domdash.Source
	)
	if hits == len(tiers) {
		payloads, source = cached, domdash.SourceCache
	} else {
		var fresh []bool
		payloads, fresh = s.fetch(ctx, tiers, principalID, tr)
		source = domdash.SourceDatabase
		s.populate(ctx, tiers, keys, payloads, fresh)
	}

	now := s.now()
	return domdash.Summary{
		Data:         domdash.Merge(payloads...),
		Source:       source,
		ResponseTime: now.Sub(start),
		Timestamp:    now,
	}, nil
}

func (s *Service) lookup(ctx context.Context, tiers []domdash.Tier, keys []string) ([]domdash.Payload, int) {
	payloads := make([]domdash.Payload, len(tiers))
	found := make([]bool, len(tiers))

	var g errgroup.Group
	for i, tier := range tiers {
		g.Go(func() error {
			payloads[i], found[i] = s.cache.Get(ctx, tier, keys[i])
			return nil
		})
	}
	_ = g.Wait()

	hits := 0
	for _, ok := range found {
		if ok {
			hits++
		}
	}
	return payloads, hits
}

// fetch computes every tier concurrently. Failed tiers get the empty default and fresh=false.
func (s *Service) fetch(
	ctx context.Context, tiers []domdash.Tier, principalID string, tr domdash.TimeRange,
) ([]domdash.Payload, []bool) {
	payloads := make([]domdash.Payload, len(tiers))
	fresh := make([]bool, len(tiers))

	var g errgroup.Group
	for i, tier := range tiers {
		g.Go(func() error {
			p, err := s.fetcher.Fetch(ctx, tier, principalID, tr)
			if err != nil {
				logger.FromContext(ctx).Warn("Dashboard tier fetch failed",
					zap.String("tier", string(tier)), zap.Error(err))
				if s.fetchErrors != nil {
					s.fetchErrors.WithLabelValues(string(tier)).Inc()
				}
				payloads[i] = domdash.DefaultPayload(tier)
				return nil
			}
			payloads[i], fresh[i] = p, true
			return nil
		})
	}
	_ = g.Wait()
	return payloads, fresh
}

func (s *Service) populate(
	ctx context.Context, tiers []domdash.Tier, keys []string, payloads []domdash.Payload, fresh []bool,
) {
	for i, tier := range tiers {
		if !fresh[i] {
			continue
		}
		key, p := keys[i], payloads[i]
		s.runner.Go(ctx, "cache-write:"+string(tier), func(ctx context.Context) error {
			return s.cache.Set(ctx, tier, key, p)
		})
	}
}
