package ranker

import (
	"sort"
	"strings"
	"unicode/utf8"

	"gamekeep/internal/catalog"
	"gamekeep/internal/similarity"
	"gamekeep/internal/textutil"
)

// MatchType classifies how an entry matched the query. Lower values are
// stronger matches and form the primary sort key.
type MatchType int

const (
	MatchExact MatchType = iota
	MatchStartsWith
	MatchContains
	MatchFuzzy
)

func (t MatchType) String() string {
	switch t {
	case MatchExact:
		return "exact"
	case MatchStartsWith:
		return "startsWith"
	case MatchContains:
		return "contains"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// MatchCandidate is one scored pairing of the query to a catalog entry.
type MatchCandidate struct {
	Entry      catalog.Entry
	Similarity float64
	MatchType  MatchType
}

// Scorer computes edit-distance similarity. The indirection lets tests
// observe how often the expensive path actually runs.
type Scorer interface {
	Score(a, b string) float64
	PassesGate(a, b string) bool
}

type editScorer struct{}

func (editScorer) Score(a, b string) float64 { return similarity.Score(a, b) }

func (editScorer) PassesGate(a, b string) bool { return similarity.PassesGate(a, b) }

// DefaultScorer returns the Levenshtein-backed scorer.
func DefaultScorer() Scorer { return editScorer{} }

const (
	scoreExact       = 1.0
	scoreExactLoose  = 0.98
	scorePrefix      = 1.0
	scorePrefixLoose = 0.98
	scoreContains    = 1.0
	scoreContainsWS  = 0.95
	scoreReverse     = 0.95

	fuzzyThreshold   = 0.75
	fuzzyMinQueryLen = 4
)

// Rank classifies entries against the query and returns the ordered
// candidate list, truncated to limit. Entries are deduplicated by id so
// merged result pages rank each game once. Fuzzy matches are only
// considered while fewer than limit stronger matches exist.
func Rank(query string, entries []catalog.Entry, limit int, scorer Scorer) []MatchCandidate {
	if limit <= 0 {
		return nil
	}
	if scorer == nil {
		scorer = DefaultScorer()
	}

	nq := textutil.NormalizeName(query)
	if nq == "" {
		return nil
	}
	nqStripped := textutil.StripWhitespace(nq)
	queryLen := utf8.RuneCountInString(nq)

	seen := make(map[string]struct{}, len(entries))
	ranked := make([]MatchCandidate, 0, len(entries))
	var fuzzyPool []fuzzyEntry

	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}

		en := e.NameNormalized
		if en == "" {
			en = textutil.NormalizeName(e.Name)
		}
		if en == "" {
			continue
		}
		enStripped := textutil.StripWhitespace(en)

		if mc, ok := classify(e, en, enStripped, nq, nqStripped, queryLen); ok {
			ranked = append(ranked, mc)
			continue
		}
		fuzzyPool = append(fuzzyPool, fuzzyEntry{entry: e, name: en})
	}

	if queryLen >= fuzzyMinQueryLen && len(ranked) < limit {
		for _, fe := range fuzzyPool {
			if !scorer.PassesGate(nq, fe.name) {
				continue
			}
			score := scorer.Score(nq, fe.name)
			if score < fuzzyThreshold {
				continue
			}
			ranked = append(ranked, MatchCandidate{
				Entry:      fe.entry,
				Similarity: score,
				MatchType:  MatchFuzzy,
			})
		}
	}

	sortCandidates(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

type fuzzyEntry struct {
	entry catalog.Entry
	name  string
}

func classify(e catalog.Entry, en, enStripped, nq, nqStripped string, queryLen int) (MatchCandidate, bool) {
	switch {
	case en == nq:
		return MatchCandidate{Entry: e, Similarity: scoreExact, MatchType: MatchExact}, true
	case enStripped == nqStripped:
		return MatchCandidate{Entry: e, Similarity: scoreExactLoose, MatchType: MatchExact}, true
	case strings.HasPrefix(en, nq):
		return MatchCandidate{Entry: e, Similarity: scorePrefix, MatchType: MatchStartsWith}, true
	case strings.HasPrefix(enStripped, nqStripped):
		return MatchCandidate{Entry: e, Similarity: scorePrefixLoose, MatchType: MatchStartsWith}, true
	case strings.Contains(en, nq):
		return MatchCandidate{Entry: e, Similarity: scoreContains, MatchType: MatchContains}, true
	case strings.Contains(enStripped, nqStripped):
		return MatchCandidate{Entry: e, Similarity: scoreContainsWS, MatchType: MatchContains}, true
	case queryLen >= fuzzyMinQueryLen && strings.Contains(nq, en):
		return MatchCandidate{Entry: e, Similarity: scoreReverse, MatchType: MatchContains}, true
	}
	return MatchCandidate{}, false
}

func sortCandidates(candidates []MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.MatchType != b.MatchType {
			return a.MatchType < b.MatchType
		}
		if ra, rb := rankKey(a.Entry), rankKey(b.Entry); ra != rb {
			return ra < rb
		}
		return a.Similarity > b.Similarity
	})
}

func rankKey(e catalog.Entry) int {
	if e.Rank <= 0 {
		return catalog.MissingRank
	}
	return e.Rank
}
