package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
)

type snapshotEntry struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	YearPublished int     `json:"yearPublished"`
	Rank          int     `json:"rank"`
	AverageRating float64 `json:"averageRating"`
	StrategyRank  int     `json:"strategyRank"`
	FamilyRank    int     `json:"familyRank"`
	PartyRank     int     `json:"partyRank"`
	Thumbnail     string  `json:"thumbnail"`
}

// ReadSnapshot parses a JSON catalog export into entries. Malformed
// records (missing id or name) are dropped and counted, not fatal.
func ReadSnapshot(path string) ([]Entry, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read snapshot: %w", err)
	}

	var raw []snapshotEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("parse snapshot: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		e := Entry{
			ID:            r.ID,
			Name:          r.Name,
			YearPublished: r.YearPublished,
			Rank:          r.Rank,
			AverageRating: r.AverageRating,
			StrategyRank:  r.StrategyRank,
			FamilyRank:    r.FamilyRank,
			PartyRank:     r.PartyRank,
			Thumbnail:     r.Thumbnail,
		}
		if !e.Valid() {
			skipped++
			continue
		}
		e.Normalize()
		entries = append(entries, e)
	}
	return entries, skipped, nil
}

// LoadSnapshot replaces the store contents from a JSON export. A file
// lock next to the database keeps concurrent invocations from
// interleaving the swap.
func (s *Store) LoadSnapshot(ctx context.Context, path string) (loaded, skipped int, err error) {
	lock := flock.New(s.path + ".load.lock")
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return 0, 0, fmt.Errorf("acquire load lock: %w", err)
	}
	if !locked {
		return 0, 0, fmt.Errorf("acquire load lock: already held")
	}
	defer func() { _ = lock.Unlock() }()

	entries, parseSkipped, err := ReadSnapshot(path)
	if err != nil {
		return 0, 0, err
	}
	insertSkipped, err := s.ReplaceAll(ctx, entries)
	if err != nil {
		return 0, 0, err
	}
	return len(entries) - insertSkipped, parseSkipped + insertSkipped, nil
}
