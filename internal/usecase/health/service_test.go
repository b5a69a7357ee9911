package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{CheckService, CheckCache, CheckDatabase} {
		if !r.Checks[name] {
			t.Errorf("expected %s ok", name)
		}
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckDatabase] {
		t.Error("expected database failure")
	}
	if !r.Checks[CheckCache] {
		t.Error("expected cache ok")
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("timeout")}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckCache] {
		t.Error("expected cache failure")
	}
	if !r.Checks[CheckDatabase] {
		t.Error("expected database ok")
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(
		&mockPinger{err: errors.New("cache down")},
		&mockPinger{err: errors.New("db down")},
	)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if !r.Checks[CheckService] {
		t.Error("service check always passes")
	}
	if r.Checks[CheckCache] || r.Checks[CheckDatabase] {
		t.Error("expected both backing checks to fail")
	}
}
