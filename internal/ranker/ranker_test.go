package ranker

import (
	"reflect"
	"testing"

	"gamekeep/internal/catalog"
	"gamekeep/internal/similarity"
)

func entry(id, name string, rank int) catalog.Entry {
	e := catalog.Entry{ID: id, Name: name, Rank: rank}
	e.Normalize()
	return e
}

func TestRankCatanScenario(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "2", Name: "Catan: Seafarers", Rank: 999},
		{ID: "1", Name: "Catan", Rank: 13},
	}
	for i := range entries {
		entries[i].Normalize()
	}

	got := Rank("catan", entries, 10, nil)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Entry.ID != "1" || got[0].MatchType != MatchExact {
		t.Errorf("first = %s/%s, want 1/exact", got[0].Entry.ID, got[0].MatchType)
	}
	if got[1].Entry.ID != "2" || got[1].MatchType != MatchStartsWith {
		t.Errorf("second = %s/%s, want 2/startsWith", got[1].Entry.ID, got[1].MatchType)
	}
}

func TestRankWhitespaceInsensitiveExact(t *testing.T) {
	entries := []catalog.Entry{entry("1", "Small World", 50)}
	for _, query := range []string{"small world", "smallworld"} {
		t.Run(query, func(t *testing.T) {
			got := Rank(query, entries, 10, nil)
			if len(got) != 1 {
				t.Fatalf("got %d candidates, want 1", len(got))
			}
			if got[0].MatchType != MatchExact {
				t.Errorf("matchType = %s, want exact", got[0].MatchType)
			}
		})
	}
}

func TestRankFuzzyMatch(t *testing.T) {
	entries := []catalog.Entry{entry("1", "Imperious", 200)}
	got := Rank("imperius", entries, 10, nil)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].MatchType != MatchFuzzy {
		t.Errorf("matchType = %s, want fuzzy", got[0].MatchType)
	}
	want := similarity.Score("imperius", "imperious")
	if got[0].Similarity != want {
		t.Errorf("similarity = %v, want %v", got[0].Similarity, want)
	}
}

func TestRankFuzzyRequiresMinQueryLength(t *testing.T) {
	entries := []catalog.Entry{entry("1", "Cat", 10)}
	if got := Rank("bat", entries, 10, nil); len(got) != 0 {
		t.Errorf("short query produced fuzzy matches: %+v", got)
	}
}

func TestRankFuzzyBelowThresholdExcluded(t *testing.T) {
	entries := []catalog.Entry{entry("1", "Gloomhaven", 1)}
	if got := Rank("catan", entries, 10, nil); len(got) != 0 {
		t.Errorf("dissimilar entry matched: %+v", got)
	}
}

type countingScorer struct {
	gateCalls  int
	scoreCalls int
}

func (c *countingScorer) PassesGate(a, b string) bool {
	c.gateCalls++
	return similarity.PassesGate(a, b)
}

func (c *countingScorer) Score(a, b string) float64 {
	c.scoreCalls++
	return similarity.Score(a, b)
}

func TestRankFuzzySkippedWhenStrongMatchesFillLimit(t *testing.T) {
	entries := []catalog.Entry{
		entry("1", "Azul", 30),
		entry("2", "Azul: Summer Pavilion", 300),
		entry("3", "Axul", 500),
	}
	scorer := &countingScorer{}
	got := Rank("azul", entries, 2, scorer)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if scorer.gateCalls != 0 || scorer.scoreCalls != 0 {
		t.Errorf("fuzzy scoring ran (%d gate, %d score calls) despite full limit",
			scorer.gateCalls, scorer.scoreCalls)
	}
}

func TestRankGateBlocksExpensiveScoring(t *testing.T) {
	entries := []catalog.Entry{entry("1", "Gloomhaven", 1)}
	scorer := &countingScorer{}
	Rank("wingspan", entries, 10, scorer)
	if scorer.gateCalls != 1 {
		t.Errorf("gateCalls = %d, want 1", scorer.gateCalls)
	}
	if scorer.scoreCalls != 0 {
		t.Errorf("scoreCalls = %d, want 0 when gate fails", scorer.scoreCalls)
	}
}

func TestRankTierMonotonicityAndRankOrder(t *testing.T) {
	entries := []catalog.Entry{
		entry("fuzzy", "Wingspam", 1),
		entry("contains", "Big Wingspan Box", 5),
		entry("prefix-late", "Wingspan: Oceania", 400),
		entry("prefix-early", "Wingspan: Europe", 90),
		entry("exact", "Wingspan", 20),
	}
	got := Rank("wingspan", entries, 10, nil)
	if len(got) != 5 {
		t.Fatalf("got %d candidates, want 5", len(got))
	}

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if cur.MatchType < prev.MatchType {
			t.Fatalf("tier regressed at %d: %s after %s", i, cur.MatchType, prev.MatchType)
		}
		if cur.MatchType == prev.MatchType && cur.Entry.Rank < prev.Entry.Rank {
			t.Fatalf("rank regressed within tier at %d", i)
		}
	}
	wantOrder := []string{"exact", "prefix-early", "prefix-late", "contains", "fuzzy"}
	for i, id := range wantOrder {
		if got[i].Entry.ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].Entry.ID, id)
		}
	}
}

func TestRankMissingRankSortsLast(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "unranked", Name: "Catan: Cities & Knights"},
		{ID: "ranked", Name: "Catan: Seafarers", Rank: 120},
	}
	for i := range entries {
		entries[i].Normalize()
	}
	got := Rank("catan", entries, 10, nil)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Entry.ID != "ranked" {
		t.Errorf("first = %s, want ranked entry before unranked", got[0].Entry.ID)
	}
}

func TestRankDeterministic(t *testing.T) {
	entries := []catalog.Entry{
		entry("1", "Root", 40),
		entry("2", "Root: The Riverfolk Expansion", 600),
		entry("3", "Roll for the Galaxy", 150),
		entry("4", "Robo Rally", 700),
	}
	first := Rank("root", entries, 10, nil)
	for i := 0; i < 5; i++ {
		again := Rank("root", entries, 10, nil)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestRankDeduplicatesMergedPages(t *testing.T) {
	e := entry("1", "Catan", 13)
	got := Rank("catan", []catalog.Entry{e, e, e}, 10, nil)
	if len(got) != 1 {
		t.Errorf("got %d candidates, want 1 after dedupe", len(got))
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	entries := []catalog.Entry{
		entry("1", "Catan", 13),
		entry("2", "Catan: Seafarers", 200),
		entry("3", "Catan: Cities & Knights", 300),
	}
	got := Rank("catan", entries, 2, nil)
	if len(got) != 2 {
		t.Errorf("got %d candidates, want 2", len(got))
	}
}

func TestRankEmptyQuery(t *testing.T) {
	if got := Rank("   ", []catalog.Entry{entry("1", "Catan", 13)}, 10, nil); got != nil {
		t.Errorf("blank query returned %+v, want nil", got)
	}
}

func TestMatchTypeString(t *testing.T) {
	cases := map[MatchType]string{
		MatchExact:      "exact",
		MatchStartsWith: "startsWith",
		MatchContains:   "contains",
		MatchFuzzy:      "fuzzy",
	}
	for mt, want := range cases {
		if got := mt.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mt, got, want)
		}
	}
}
