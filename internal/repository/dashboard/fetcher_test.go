package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kailas-cloud/crmsearch/internal/db"
	"github.com/kailas-cloud/crmsearch/internal/db/sqlite"
	"github.com/kailas-cloud/crmsearch/internal/domain"
	domdash "github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
)

var testNow = time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)

func TestFetch_PayloadHasTierFields(t *testing.T) {
	for _, tier := range domdash.Tiers() {
		t.Run(string(tier), func(t *testing.T) {
			f := newTestFetcher(&mockStore{}, testNow)
			p, err := f.Fetch(context.Background(), tier, "u1", domdash.Range30d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(p) != len(tier.Fields()) {
				t.Errorf("payload has %d fields, want %d", len(p), len(tier.Fields()))
			}
			for _, field := range tier.Fields() {
				if _, ok := p[field]; !ok {
					t.Errorf("missing field %s", field)
				}
			}
		})
	}
}

func TestFetch_ScopesEveryQuery(t *testing.T) {
	ms := &mockStore{}
	f := newTestFetcher(ms, testNow)

	for _, tier := range domdash.Tiers() {
		if _, err := f.Fetch(context.Background(), tier, "u1", domdash.Range7d); err != nil {
			t.Fatalf("%s: %v", tier, err)
		}
	}
	for _, q := range ms.calls {
		if q.Owner != "u1" || q.OwnerColumn != db.DefaultOwnerColumn {
			t.Errorf("query on %s not owner scoped: %+v", q.Table, q)
		}
	}
}

func TestFetch_Windows(t *testing.T) {
	ms := &mockStore{}
	f := newTestFetcher(ms, testNow)

	if _, err := f.Fetch(context.Background(), domdash.Realtime, "u1", domdash.Range90d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	startOfDay := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	if !ms.calls[0].Since.Equal(startOfDay) {
		t.Errorf("realtime since = %v, want %v", ms.calls[0].Since, startOfDay)
	}

	ms.calls = nil
	if _, err := f.Fetch(context.Background(), domdash.Hourly, "u1", domdash.Range7d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := testNow.Add(-7 * 24 * time.Hour)
	if !ms.calls[0].Since.Equal(want) {
		t.Errorf("hourly since = %v, want %v", ms.calls[0].Since, want)
	}
}

func TestFetch_AggregateFailureFailsTier(t *testing.T) {
	boom := errors.New("statement timeout")
	ms := &mockStore{aggregateFn: func(_ context.Context, q *db.AggregateQuery) (float64, error) {
		if q.Table == "contacts" {
			return 0, boom
		}
		return 1, nil
	}}
	f := newTestFetcher(ms, testNow)

	if _, err := f.Fetch(context.Background(), domdash.Hourly, "u1", domdash.Range30d); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestFetch_MissingPrincipal(t *testing.T) {
	ms := &mockStore{}
	_, err := newTestFetcher(ms, testNow).Fetch(context.Background(), domdash.Daily, "", domdash.Range30d)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(ms.calls) != 0 {
		t.Errorf("store must not be called, got %d calls", len(ms.calls))
	}
}

func TestFetch_UnknownTier(t *testing.T) {
	if _, err := newTestFetcher(&mockStore{}, testNow).Fetch(
		context.Background(), domdash.Tier("weekly"), "u1", domdash.Range30d,
	); err == nil {
		t.Fatal("expected error")
	}
}

func TestConversionRate(t *testing.T) {
	tests := []struct {
		won, leads, want float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{10, 10, 100},
	}
	for _, tc := range tests {
		if got := ConversionRate(tc.won, tc.leads); got != tc.want {
			t.Errorf("ConversionRate(%v, %v) = %v, want %v", tc.won, tc.leads, got, tc.want)
		}
	}
}

func TestFetch_SQLite(t *testing.T) {
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "crm.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	now := time.Now().UTC()
	recent := now.Add(-time.Hour).Format("2006-01-02 15:04:05")
	old := now.Add(-60 * 24 * time.Hour).Format("2006-01-02 15:04:05")
	seed := []struct {
		stmt string
		args []any
	}{
		{"INSERT INTO leads (id, user_id, created_at) VALUES (?, ?, ?)", []any{"l1", "u1", recent}},
		{"INSERT INTO leads (id, user_id, created_at) VALUES (?, ?, ?)", []any{"l2", "u1", recent}},
		{"INSERT INTO leads (id, user_id, created_at) VALUES (?, ?, ?)", []any{"l3", "u1", recent}},
		{"INSERT INTO leads (id, user_id, created_at) VALUES (?, ?, ?)", []any{"l4", "u1", old}},
		{"INSERT INTO leads (id, user_id, created_at) VALUES (?, ?, ?)", []any{"l5", "u2", recent}},
		{"INSERT INTO opportunities (id, user_id, stage, value, updated_at) VALUES (?, ?, ?, ?, ?)",
			[]any{"o1", "u1", StageWon, 1200.0, recent}},
		{"INSERT INTO opportunities (id, user_id, stage, value, updated_at) VALUES (?, ?, ?, ?, ?)",
			[]any{"o2", "u2", StageWon, 9999.0, recent}},
		{"INSERT INTO email_campaigns (id, user_id, sent_count, created_at) VALUES (?, ?, ?, ?)",
			[]any{"c1", "u1", 250, recent}},
	}
	for _, sd := range seed {
		if err := s.Exec(context.Background(), sd.stmt, sd.args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	p, err := New(s).Fetch(context.Background(), domdash.Daily, "u1", domdash.Range30d)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if p[domdash.FieldWonDeals] != 1 || p[domdash.FieldWonRevenue] != 1200 {
		t.Errorf("won = %v / %v", p[domdash.FieldWonDeals], p[domdash.FieldWonRevenue])
	}
	if p[domdash.FieldConversionRate] != 33.33 {
		t.Errorf("conversionRate = %v, want 33.33", p[domdash.FieldConversionRate])
	}
	if p[domdash.FieldEmailsSent] != 250 {
		t.Errorf("emailsSent = %v, want 250", p[domdash.FieldEmailsSent])
	}
}
