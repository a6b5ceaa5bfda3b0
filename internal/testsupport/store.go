package testsupport

import (
	"context"
	"testing"

	"gamekeep/internal/catalog"
	"gamekeep/internal/config"
)

// NewStore opens a catalog store rooted in the test config's data dir.
func NewStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("open catalog store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SeededStore opens a store preloaded with a small representative
// catalog covering the ranking tiers.
func SeededStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()
	store := NewStore(t, cfg)
	entries := []catalog.Entry{
		{ID: "13", Name: "Catan", YearPublished: 1995, Rank: 13, AverageRating: 7.1},
		{ID: "325", Name: "Catan: Seafarers", YearPublished: 1997, Rank: 999},
		{ID: "40692", Name: "Small World", YearPublished: 2009, Rank: 120, AverageRating: 7.2},
		{ID: "266192", Name: "Wingspan", YearPublished: 2019, Rank: 30, AverageRating: 8.0},
		{ID: "224783", Name: "Imperious", YearPublished: 2019, Rank: 4500},
		{ID: "9209", Name: "Ticket to Ride", YearPublished: 2004, Rank: 80, AverageRating: 7.4},
	}
	if _, err := store.ReplaceAll(context.Background(), entries); err != nil {
		t.Fatalf("seed catalog store: %v", err)
	}
	return store
}
