package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"gamekeep/internal/config"
	"gamekeep/internal/textutil"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS catalog_entries (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    name_normalized TEXT NOT NULL,
    name_stripped TEXT NOT NULL DEFAULT '',
    year_published INTEGER NOT NULL DEFAULT 0,
    rank INTEGER NOT NULL DEFAULT 999999,
    average_rating REAL NOT NULL DEFAULT 0,
    strategy_rank INTEGER NOT NULL DEFAULT 999999,
    family_rank INTEGER NOT NULL DEFAULT 999999,
    party_rank INTEGER NOT NULL DEFAULT 999999,
    thumbnail TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_catalog_name_normalized
    ON catalog_entries (name_normalized);
CREATE INDEX IF NOT EXISTS idx_catalog_name_stripped
    ON catalog_entries (name_stripped);
`

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.CatalogDBPath())
}

// OpenPath opens the catalog database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

const entryColumns = `id, name, name_normalized, year_published, rank,
    average_rating, strategy_rank, family_rank, party_rank, thumbnail`

// name_stripped is a write-only projection; reads reconstruct nothing
// from it, so it stays out of entryColumns.
const insertColumns = entryColumns + `, name_stripped`

// RangeQuery returns entries whose normalized name falls within
// [lower, upper], ordered by normalized name, capped at limit.
func (s *Store) RangeQuery(ctx context.Context, lower, upper string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
         FROM catalog_entries
         WHERE name_normalized >= ? AND name_normalized <= ?
         ORDER BY name_normalized
         LIMIT ?`,
		lower, upper, limit)
	if err != nil {
		return nil, fmt.Errorf("range query: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// RangeQueryStripped is RangeQuery over the whitespace-stripped name
// projection. It is how "smallworld" reaches "Small World": the
// normalized form sorts the space before any letter, so the plain
// prefix range can never contain it.
func (s *Store) RangeQueryStripped(ctx context.Context, lower, upper string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
         FROM catalog_entries
         WHERE name_stripped >= ? AND name_stripped <= ?
         ORDER BY name_stripped
         LIMIT ?`,
		lower, upper, limit)
	if err != nil {
		return nil, fmt.Errorf("stripped range query: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Scan reads up to limit entries with no index requirement. This is the
// degraded path used when the indexed query fails.
func (s *Store) Scan(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("bounded scan: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// GetByID fetches a single entry. A missing id returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries WHERE id = ?`, id)
	var e Entry
	err := row.Scan(&e.ID, &e.Name, &e.NameNormalized, &e.YearPublished,
		&e.Rank, &e.AverageRating, &e.StrategyRank, &e.FamilyRank,
		&e.PartyRank, &e.Thumbnail)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &e, nil
}

// Count returns the number of catalog entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM catalog_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the entire snapshot inside one transaction. Entries
// failing validation are skipped; the skipped count is returned.
func (s *Store) ReplaceAll(ctx context.Context, entries []Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries`); err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO catalog_entries (`+insertColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	skipped := 0
	for i := range entries {
		e := entries[i]
		if !e.Valid() {
			skipped++
			continue
		}
		e.Normalize()
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Name, e.NameNormalized, e.YearPublished, e.Rank,
			e.AverageRating, e.StrategyRank, e.FamilyRank, e.PartyRank,
			e.Thumbnail, textutil.StripWhitespace(e.NameNormalized)); err != nil {
			return skipped, fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return skipped, fmt.Errorf("commit replace: %w", err)
	}
	return skipped, nil
}

// Upsert inserts or updates a single entry, used when a manual addition
// or enrichment brings back a record the snapshot lacks.
func (s *Store) Upsert(ctx context.Context, e Entry) error {
	if !e.Valid() {
		return fmt.Errorf("upsert entry: missing id or name")
	}
	e.Normalize()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_entries (`+insertColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name,
             name_normalized = excluded.name_normalized,
             name_stripped = excluded.name_stripped,
             year_published = excluded.year_published,
             rank = excluded.rank,
             average_rating = excluded.average_rating,
             strategy_rank = excluded.strategy_rank,
             family_rank = excluded.family_rank,
             party_rank = excluded.party_rank,
             thumbnail = excluded.thumbnail`,
		e.ID, e.Name, e.NameNormalized, e.YearPublished, e.Rank,
		e.AverageRating, e.StrategyRank, e.FamilyRank, e.PartyRank,
		e.Thumbnail, textutil.StripWhitespace(e.NameNormalized))
	if err != nil {
		return fmt.Errorf("upsert entry %s: %w", e.ID, err)
	}
	return nil
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.NameNormalized,
			&e.YearPublished, &e.Rank, &e.AverageRating, &e.StrategyRank,
			&e.FamilyRank, &e.PartyRank, &e.Thumbnail); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if !e.Valid() {
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
