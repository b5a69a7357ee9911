package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/crmsearch/internal/background"
	dbRedis "github.com/kailas-cloud/crmsearch/internal/db/redis"
	"github.com/kailas-cloud/crmsearch/internal/domain"
	domdash "github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
	"github.com/kailas-cloud/crmsearch/internal/repository/tiercache"
)

// --- Mocks ---

type mockCache struct {
	mu      sync.Mutex
	entries map[string]domdash.Payload
	sets    map[domdash.Tier]int
	setErr  error
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]domdash.Payload{}, sets: map[domdash.Tier]int{}}
}

func (m *mockCache) Key(tier domdash.Tier, principalID string, tr domdash.TimeRange) string {
	return string(tier) + ":" + principalID + ":" + string(tr)
}

func (m *mockCache) Get(_ context.Context, _ domdash.Tier, key string) (domdash.Payload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.entries[key]
	return p, ok
}

func (m *mockCache) Set(_ context.Context, tier domdash.Tier, key string, p domdash.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[tier]++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = p
	return nil
}

func (m *mockCache) setCount(tier domdash.Tier) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets[tier]
}

type mockFetcher struct {
	mu     sync.Mutex
	errs   map[domdash.Tier]error
	calls  map[domdash.Tier]int
	values map[domdash.Tier]float64
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		errs:   map[domdash.Tier]error{},
		calls:  map[domdash.Tier]int{},
		values: map[domdash.Tier]float64{domdash.Realtime: 1, domdash.Hourly: 2, domdash.Daily: 3},
	}
}

func (m *mockFetcher) Fetch(
	_ context.Context, tier domdash.Tier, _ string, _ domdash.TimeRange,
) (domdash.Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[tier]++
	if err := m.errs[tier]; err != nil {
		return nil, err
	}
	p := domdash.Payload{}
	for _, f := range tier.Fields() {
		p[f] = m.values[tier]
	}
	return p, nil
}

func (m *mockFetcher) callCount(tier domdash.Tier) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[tier]
}

type fixture struct {
	svc     *Service
	cache   *mockCache
	fetcher *mockFetcher
	runner  *background.Runner
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		cache:   newMockCache(),
		fetcher: newMockFetcher(),
		runner:  background.New(time.Second, zap.NewNop(), nil),
	}
	f.svc = New(f.cache, f.fetcher, f.runner, opts...)
	return f
}

func allTiers() domdash.Options {
	return domdash.Options{Tiers: domdash.Tiers(), TimeRange: domdash.Range30d}
}

func (f *fixture) seed(tier domdash.Tier, principalID string, tr domdash.TimeRange, v float64) {
	p := domdash.Payload{}
	for _, field := range tier.Fields() {
		p[field] = v
	}
	f.cache.entries[f.cache.Key(tier, principalID, tr)] = p
}

// --- Tests ---

func TestSummary_ColdThenWarm(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Summary(ctx, "u1", allTiers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Source != domdash.SourceDatabase {
		t.Errorf("cold source = %s, want database", first.Source)
	}
	f.runner.Wait()

	second, err := f.svc.Summary(ctx, "u1", allTiers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Source != domdash.SourceCache {
		t.Errorf("warm source = %s, want cache", second.Source)
	}
	if len(first.Data) != len(second.Data) {
		t.Fatalf("payload size differs: %d vs %d", len(first.Data), len(second.Data))
	}
	for k, v := range first.Data {
		if second.Data[k] != v {
			t.Errorf("field %s: cold %v, warm %v", k, v, second.Data[k])
		}
	}
	for _, tier := range domdash.Tiers() {
		if f.fetcher.callCount(tier) != 1 {
			t.Errorf("%s fetched %d times, want 1", tier, f.fetcher.callCount(tier))
		}
	}
}

func TestSummary_PartialHitRefetchesAll(t *testing.T) {
	f := newFixture()
	f.seed(domdash.Realtime, "u1", domdash.Range30d, 9)
	f.seed(domdash.Hourly, "u1", domdash.Range30d, 9)

	s, err := f.svc.Summary(context.Background(), "u1", allTiers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Source != domdash.SourceDatabase {
		t.Errorf("source = %s, want database", s.Source)
	}
	for _, tier := range domdash.Tiers() {
		if f.fetcher.callCount(tier) != 1 {
			t.Errorf("%s fetched %d times, want 1 (all tiers refetched)", tier, f.fetcher.callCount(tier))
		}
	}
	if s.Data[domdash.FieldOpenTasks] != 1 {
		t.Errorf("realtime value = %v, want fresh 1", s.Data[domdash.FieldOpenTasks])
	}
	f.runner.Wait()
}

func TestSummary_FullHitServesCache(t *testing.T) {
	f := newFixture()
	for _, tier := range domdash.Tiers() {
		f.seed(tier, "u1", domdash.Range7d, 5)
	}

	s, err := f.svc.Summary(context.Background(), "u1", domdash.Options{TimeRange: domdash.Range7d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Source != domdash.SourceCache {
		t.Errorf("source = %s, want cache", s.Source)
	}
	if len(s.Data) != 13 {
		t.Errorf("merged fields = %d, want 13", len(s.Data))
	}
	for _, tier := range domdash.Tiers() {
		if f.fetcher.callCount(tier) != 0 {
			t.Errorf("%s must not be fetched on full hit", tier)
		}
	}
}

func TestSummary_TierFailureDefaultsAndSkipsWriteback(t *testing.T) {
	fetchErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_fetch_errors"}, []string{"tier"})
	f := newFixture(WithFetchErrorCounter(fetchErrors))
	f.fetcher.errs[domdash.Hourly] = errors.New("statement timeout")

	s, err := f.svc.Summary(context.Background(), "u1", allTiers())
	if err != nil {
		t.Fatalf("tier failure must not fail the summary: %v", err)
	}
	f.runner.Wait()

	for _, field := range domdash.Hourly.Fields() {
		if v, ok := s.Data[field]; !ok || v != 0 {
			t.Errorf("hourly field %s = %v (present=%v), want 0", field, v, ok)
		}
	}
	if s.Data[domdash.FieldWonDeals] != 3 {
		t.Errorf("daily data lost: %v", s.Data[domdash.FieldWonDeals])
	}
	if f.cache.setCount(domdash.Hourly) != 0 {
		t.Error("failed tier must not be written back")
	}
	if f.cache.setCount(domdash.Realtime) != 1 || f.cache.setCount(domdash.Daily) != 1 {
		t.Error("fresh tiers must be written back once")
	}
	if got := testutil.ToFloat64(fetchErrors.WithLabelValues("hourly")); got != 1 {
		t.Errorf("fetch error counter = %v, want 1", got)
	}
}

func TestSummary_CacheWriteFailureInvisible(t *testing.T) {
	f := newFixture()
	f.cache.setErr = errors.New("readonly replica")

	s, err := f.svc.Summary(context.Background(), "u1", allTiers())
	f.runner.Wait()
	if err != nil {
		t.Fatalf("write failure must not surface: %v", err)
	}
	if s.Source != domdash.SourceDatabase {
		t.Errorf("source = %s", s.Source)
	}
}

func TestSummary_IncludeSingleTier(t *testing.T) {
	f := newFixture()

	s, err := f.svc.Summary(context.Background(), "u1",
		domdash.Options{Tiers: []domdash.Tier{domdash.Daily}, TimeRange: domdash.Range90d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.runner.Wait()

	if len(s.Data) != len(domdash.Daily.Fields()) {
		t.Errorf("fields = %d, want daily only", len(s.Data))
	}
	if f.fetcher.callCount(domdash.Realtime) != 0 || f.fetcher.callCount(domdash.Hourly) != 0 {
		t.Error("unrequested tiers must not be fetched")
	}
	if _, ok := f.cache.entries["daily:u1:90d"]; !ok {
		t.Error("expected daily entry keyed by time range")
	}
}

func TestSummary_PrincipalsIsolated(t *testing.T) {
	f := newFixture()
	for _, tier := range domdash.Tiers() {
		f.seed(tier, "u1", domdash.Range30d, 5)
	}

	s, err := f.svc.Summary(context.Background(), "u2", allTiers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.runner.Wait()
	if s.Source != domdash.SourceDatabase {
		t.Errorf("another principal's cache must not be served, source = %s", s.Source)
	}
}

func TestSummary_MissingPrincipal(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Summary(context.Background(), "", allTiers()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSummary_Timing(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 10 * time.Millisecond)
	}
	f := newFixture(WithClock(clock))

	s, err := f.svc.Summary(context.Background(), "u1", allTiers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.runner.Wait()
	if s.ResponseTime != 10*time.Millisecond {
		t.Errorf("response time = %v, want 10ms", s.ResponseTime)
	}
	if !s.Timestamp.Equal(base.Add(20 * time.Millisecond)) {
		t.Errorf("timestamp = %v", s.Timestamp)
	}
}

func TestSummary_UnreachableCacheServesDatabase(t *testing.T) {
	store, err := dbRedis.NewStore(dbRedis.Config{Addrs: []string{"127.0.0.1:1"}},
		dbRedis.WithDialer(func(dbRedis.Config) (rueidis.Client, error) {
			return nil, errors.New("dial tcp 127.0.0.1:1: connection refused")
		}))
	if err != nil {
		t.Fatalf("cache construction must not fail: %v", err)
	}
	defer store.Close()

	cache := tiercache.New(store, tiercache.Config{
		KeyPrefix: "crm:",
		Breaker:   tiercache.BreakerConfig{MaxRequests: 1, Timeout: time.Minute, FailureThreshold: 2},
	}, nil, zap.NewNop())
	fetcher := newMockFetcher()
	runner := background.New(time.Second, zap.NewNop(), nil)
	svc := New(cache, fetcher, runner)

	for range 2 {
		s, err := svc.Summary(context.Background(), "u1", allTiers())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		runner.Wait()
		if s.Source != domdash.SourceDatabase {
			t.Errorf("source = %s, want database", s.Source)
		}
		if s.Data[domdash.FieldWonDeals] != float64(3) {
			t.Errorf("wonDeals = %v, want 3", s.Data[domdash.FieldWonDeals])
		}
	}
	for _, tier := range domdash.Tiers() {
		if fetcher.callCount(tier) != 2 {
			t.Errorf("%s fetched %d times, want 2", tier, fetcher.callCount(tier))
		}
	}
}
