package search

import (
	"testing"

	"github.com/kailas-cloud/crmsearch/internal/domain/search/category"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/result"
)

func titled(id, title string) result.Result {
	return result.New(id, title, "", "", category.SourceLeads, result.LeadMetadata{})
}

func ids(results []result.Result) []string {
	out := make([]string, len(results))
	for i := range results {
		out[i] = results[i].ID()
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRank_Ladder(t *testing.T) {
	in := []result.Result{
		titled("globex", "Globex"),
		titled("group", "The Acme Group"),
		titled("west", "Acme Corp West"),
		titled("corp", "ACME CORP"),
	}

	got := ids(Rank(in, "  acme corp "))
	want := []string{"corp", "west", "globex", "group"}
	if !equalIDs(got, want) {
		t.Errorf("Rank(acme corp) = %v, want %v", got, want)
	}

	got = ids(Rank(in, "acme"))
	want = []string{"west", "corp", "group", "globex"}
	if !equalIDs(got, want) {
		t.Errorf("Rank(acme) = %v, want %v", got, want)
	}
}

func TestRank_StableForEqualScores(t *testing.T) {
	in := []result.Result{titled("a", "x acme"), titled("b", "y acme"), titled("c", "z acme")}
	if got := ids(Rank(in, "acme")); !equalIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("equal ranks must keep input order, got %v", got)
	}
}

func TestRank_Idempotent(t *testing.T) {
	in := []result.Result{
		titled("1", "Acme West"), titled("2", "acme"), titled("3", "Big Acme"), titled("4", "Other"),
	}
	once := Rank(in, "acme")
	twice := Rank(once, "acme")
	if !equalIDs(ids(once), ids(twice)) {
		t.Errorf("rank not idempotent: %v vs %v", ids(once), ids(twice))
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []result.Result{titled("1", "zzz"), titled("2", "acme")}
	_ = Rank(in, "acme")
	if in[0].ID() != "1" || in[1].ID() != "2" {
		t.Error("input slice was reordered")
	}
}

func TestRank_Empty(t *testing.T) {
	if got := Rank(nil, "acme"); len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
}
