package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/crmsearch/internal/domain"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/category"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("  ACME ", nil, 0, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "  ACME " {
		t.Errorf("Query() = %q, want original input", r.Query())
	}
	if r.Normalized() != "acme" {
		t.Errorf("Normalized() = %q", r.Normalized())
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
	if len(r.Categories()) != len(category.Ordered()) {
		t.Errorf("expected all categories, got %d", len(r.Categories()))
	}
}

func TestNew_LimitClamping(t *testing.T) {
	limits := Limits{Default: 5, Max: 25}
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"negative uses default", -3, 5},
		{"zero uses default", 0, 5},
		{"within range", 10, 10},
		{"at max", 25, 25},
		{"above max clamped", 1000, 25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New("acme", nil, tc.limit, limits)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Limit() != tc.want {
				t.Errorf("Limit() = %d, want %d", r.Limit(), tc.want)
			}
		})
	}
}

func TestNew_UnknownCategory(t *testing.T) {
	_, err := New("acme", []string{"leads", "invoices"}, 0, DefaultLimits())
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxQueryLength+1), nil, 0, DefaultLimits())
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestTooShort(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"a", true},
		{"  a  ", true},
		{"ab", false},
		{"é", true},
		{"éé", false},
	}
	for _, tc := range tests {
		r, err := New(tc.query, nil, 0, DefaultLimits())
		if err != nil {
			t.Fatalf("New(%q): %v", tc.query, err)
		}
		if r.TooShort() != tc.want {
			t.Errorf("TooShort(%q) = %v, want %v", tc.query, r.TooShort(), tc.want)
		}
	}
}

func TestSources_FilteredInDispatchOrder(t *testing.T) {
	r, err := New("acme", []string{"forms", "knowledge", "leads"}, 0, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.Sources()
	want := []category.Source{
		category.SourceLeads,
		category.SourceKnowledgeNodes,
		category.SourceKnowledgeMaps,
		category.SourceKnowledgeNotes,
		category.SourceForms,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("source[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
