package resolve

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"gamekeep/internal/catalog"
	"gamekeep/internal/logging"
	"gamekeep/internal/services"
	"gamekeep/internal/textutil"
)

// CatalogStore is the slice of the catalog store the adapter consumes.
type CatalogStore interface {
	RangeQuery(ctx context.Context, lower, upper string, limit int) ([]catalog.Entry, error)
	RangeQueryStripped(ctx context.Context, lower, upper string, limit int) ([]catalog.Entry, error)
	Scan(ctx context.Context, limit int) ([]catalog.Entry, error)
	GetByID(ctx context.Context, id string) (*catalog.Entry, error)
}

const (
	pageSizeShort     = 50
	pageSizeMultiWord = 200
	pageSizeDefault   = 100

	shortQueryMaxLen = 4
	fullPrefixMaxLen = 30
	boundedScanLimit = 200
)

// Adapter executes the prefix-widening query strategy against the
// catalog store.
type Adapter struct {
	store  CatalogStore
	logger *slog.Logger
}

// NewAdapter creates a query adapter. A nil logger disables logging.
func NewAdapter(store CatalogStore, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		logger: logging.NewComponentLogger(logger, "catalog-adapter"),
	}
}

// Search runs the query strategy and returns the raw entry pool for
// ranking plus the literal term that was searched. Transport errors
// return an empty pool and the error; the caller decides candidate
// state. An indexed-query failure degrades to a bounded scan before
// giving up.
func (a *Adapter) Search(ctx context.Context, query string) ([]catalog.Entry, string, error) {
	nq := textutil.NormalizeName(query)
	if nq == "" {
		return nil, "", nil
	}

	prefix, pageSize := queryPlan(nq)

	entries, err := a.store.RangeQuery(ctx, prefix, prefix+textutil.PrefixUpperBound, pageSize)
	if err != nil {
		a.logger.Warn("indexed query failed, using bounded scan",
			logging.String("prefix", prefix), logging.Error(err))
		entries, err = a.store.Scan(ctx, boundedScanLimit)
		if err != nil {
			return nil, nq, services.Wrap(services.ErrTransient, "catalog-adapter", "search",
				"catalog query failed", err)
		}
		return entries, nq, nil
	}

	// A multi-word prefix can miss entries whose canonical name inserts
	// words; widen once to the first word before declaring no match.
	if len(entries) == 0 {
		if first := textutil.FirstWord(nq); first != "" && first != prefix {
			a.logger.Debug("empty multi-word result, retrying with first word",
				logging.String("prefix", prefix), logging.String("retry", first))
			entries, err = a.store.RangeQuery(ctx, first, first+textutil.PrefixUpperBound, pageSizeMultiWord)
			if err != nil {
				return nil, nq, services.Wrap(services.ErrTransient, "catalog-adapter", "search",
					"first-word retry failed", err)
			}
		}
	}

	// Still empty: probe the whitespace-stripped projection. "small
	// world" sorts before "smallworld", so the plain prefix range can
	// never deliver the entry for a query typed without the space.
	if len(entries) == 0 {
		if stripped := textutil.StripWhitespace(nq); stripped != "" {
			a.logger.Debug("empty indexed result, probing stripped names",
				logging.String("prefix", prefix), logging.String("stripped", stripped))
			entries, err = a.store.RangeQueryStripped(ctx, stripped, stripped+textutil.PrefixUpperBound, pageSize)
			if err != nil {
				return nil, nq, services.Wrap(services.ErrTransient, "catalog-adapter", "search",
					"stripped-name probe failed", err)
			}
		}
	}

	return entries, nq, nil
}

// GetByID fetches a single canonical entry for enrichment or manual
// selection.
func (a *Adapter) GetByID(ctx context.Context, id string) (*catalog.Entry, error) {
	entry, err := a.store.GetByID(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog-adapter", "get_by_id",
			"catalog lookup failed", err)
	}
	return entry, nil
}

// queryPlan picks the range prefix and page size. Multi-word queries up
// to 30 characters search on the full normalized text with a large
// page; everything else narrows to the first word. Short queries get a
// small page to bound fan-out of low-signal prefixes.
func queryPlan(nq string) (prefix string, pageSize int) {
	runeLen := utf8.RuneCountInString(nq)
	multiWord := textutil.WordCount(nq) > 1

	if multiWord && runeLen <= fullPrefixMaxLen {
		prefix = nq
	} else {
		prefix = textutil.FirstWord(nq)
	}

	switch {
	case runeLen <= shortQueryMaxLen:
		pageSize = pageSizeShort
	case multiWord:
		pageSize = pageSizeMultiWord
	default:
		pageSize = pageSizeDefault
	}
	return prefix, pageSize
}
