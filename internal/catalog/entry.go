package catalog

import "gamekeep/internal/textutil"

// MissingRank marks an entry without a popularity rank. Unranked entries
// sort after every ranked one.
const MissingRank = 999999

// Entry is one canonical game record. The pipeline only reads entries;
// writes happen through snapshot loading.
type Entry struct {
	ID             string
	Name           string
	NameNormalized string
	YearPublished  int
	Rank           int
	AverageRating  float64
	StrategyRank   int
	FamilyRank     int
	PartyRank      int
	Thumbnail      string
}

// Normalize fills derived fields and repairs absent ranks.
func (e *Entry) Normalize() {
	e.NameNormalized = textutil.NormalizeName(e.Name)
	if e.Rank <= 0 {
		e.Rank = MissingRank
	}
	if e.StrategyRank <= 0 {
		e.StrategyRank = MissingRank
	}
	if e.FamilyRank <= 0 {
		e.FamilyRank = MissingRank
	}
	if e.PartyRank <= 0 {
		e.PartyRank = MissingRank
	}
}

// Valid reports whether the entry carries the fields matching requires.
// Rows failing this check are skipped, never fatal.
func (e *Entry) Valid() bool {
	return e.ID != "" && e.Name != ""
}
