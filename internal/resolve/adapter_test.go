package resolve

import (
	"context"
	"errors"
	"testing"

	"gamekeep/internal/catalog"
	"gamekeep/internal/services"
	"gamekeep/internal/textutil"
)

type rangeCall struct {
	lower, upper string
	limit        int
}

type fakeStore struct {
	rangeCalls    []rangeCall
	strippedCalls []rangeCall
	scanCalls     int
	rangeFn       func(call rangeCall) ([]catalog.Entry, error)
	strippedFn    func(call rangeCall) ([]catalog.Entry, error)
	scanFn        func(limit int) ([]catalog.Entry, error)
	byID          map[string]*catalog.Entry
}

func (f *fakeStore) RangeQuery(_ context.Context, lower, upper string, limit int) ([]catalog.Entry, error) {
	call := rangeCall{lower: lower, upper: upper, limit: limit}
	f.rangeCalls = append(f.rangeCalls, call)
	if f.rangeFn == nil {
		return nil, nil
	}
	return f.rangeFn(call)
}

func (f *fakeStore) RangeQueryStripped(_ context.Context, lower, upper string, limit int) ([]catalog.Entry, error) {
	call := rangeCall{lower: lower, upper: upper, limit: limit}
	f.strippedCalls = append(f.strippedCalls, call)
	if f.strippedFn == nil {
		return nil, nil
	}
	return f.strippedFn(call)
}

func (f *fakeStore) Scan(_ context.Context, limit int) ([]catalog.Entry, error) {
	f.scanCalls++
	if f.scanFn == nil {
		return nil, nil
	}
	return f.scanFn(limit)
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*catalog.Entry, error) {
	if f.byID == nil {
		return nil, nil
	}
	return f.byID[id], nil
}

func TestSearchShortQueryUsesSmallPage(t *testing.T) {
	store := &fakeStore{}
	adapter := NewAdapter(store, nil)

	_, term, err := adapter.Search(context.Background(), "Uno")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if term != "uno" {
		t.Errorf("term = %q, want uno", term)
	}
	if len(store.rangeCalls) != 1 {
		t.Fatalf("rangeCalls = %d, want 1", len(store.rangeCalls))
	}
	call := store.rangeCalls[0]
	if call.lower != "uno" || call.upper != "uno"+textutil.PrefixUpperBound {
		t.Errorf("bounds = [%q, %q]", call.lower, call.upper)
	}
	if call.limit != pageSizeShort {
		t.Errorf("limit = %d, want %d", call.limit, pageSizeShort)
	}
}

func TestSearchMultiWordUsesFullPrefixAndLargePage(t *testing.T) {
	store := &fakeStore{
		rangeFn: func(rangeCall) ([]catalog.Entry, error) {
			return []catalog.Entry{{ID: "1", Name: "Small World"}}, nil
		},
	}
	adapter := NewAdapter(store, nil)

	_, _, err := adapter.Search(context.Background(), "Small World")
	if err != nil {
		t.Fatal(err)
	}
	call := store.rangeCalls[0]
	if call.lower != "small world" {
		t.Errorf("prefix = %q, want full query", call.lower)
	}
	if call.limit != pageSizeMultiWord {
		t.Errorf("limit = %d, want %d", call.limit, pageSizeMultiWord)
	}
}

func TestSearchLongMultiWordNarrowsToFirstWord(t *testing.T) {
	store := &fakeStore{}
	adapter := NewAdapter(store, nil)

	query := "an exceedingly long board game title well past thirty characters"
	_, _, err := adapter.Search(context.Background(), query)
	if err != nil {
		t.Fatal(err)
	}
	if store.rangeCalls[0].lower != "an" {
		t.Errorf("prefix = %q, want first word", store.rangeCalls[0].lower)
	}
}

func TestSearchSingleLongWordUsesDefaultPage(t *testing.T) {
	store := &fakeStore{}
	adapter := NewAdapter(store, nil)

	_, _, err := adapter.Search(context.Background(), "Gloomhaven")
	if err != nil {
		t.Fatal(err)
	}
	if store.rangeCalls[0].limit != pageSizeDefault {
		t.Errorf("limit = %d, want %d", store.rangeCalls[0].limit, pageSizeDefault)
	}
}

func TestSearchEmptyMultiWordRetriesWithFirstWord(t *testing.T) {
	store := &fakeStore{
		rangeFn: func(call rangeCall) ([]catalog.Entry, error) {
			if call.lower == "ticket" {
				return []catalog.Entry{{ID: "1", Name: "Ticket to Ride"}}, nil
			}
			return nil, nil
		},
	}
	adapter := NewAdapter(store, nil)

	entries, _, err := adapter.Search(context.Background(), "ticket ride")
	if err != nil {
		t.Fatal(err)
	}
	if len(store.rangeCalls) != 2 {
		t.Fatalf("rangeCalls = %d, want 2 (primary + first-word retry)", len(store.rangeCalls))
	}
	if store.rangeCalls[1].lower != "ticket" {
		t.Errorf("retry prefix = %q, want ticket", store.rangeCalls[1].lower)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestSearchNoRetryForSingleWord(t *testing.T) {
	store := &fakeStore{}
	adapter := NewAdapter(store, nil)

	_, _, err := adapter.Search(context.Background(), "gloomhaven")
	if err != nil {
		t.Fatal(err)
	}
	if len(store.rangeCalls) != 1 {
		t.Errorf("rangeCalls = %d, want 1", len(store.rangeCalls))
	}
}

func TestSearchEmptyResultProbesStrippedNames(t *testing.T) {
	store := &fakeStore{
		strippedFn: func(call rangeCall) ([]catalog.Entry, error) {
			if call.lower == "smallworld" {
				return []catalog.Entry{{ID: "40692", Name: "Small World"}}, nil
			}
			return nil, nil
		},
	}
	adapter := NewAdapter(store, nil)

	entries, term, err := adapter.Search(context.Background(), "smallworld")
	if err != nil {
		t.Fatal(err)
	}
	if term != "smallworld" {
		t.Errorf("term = %q, want smallworld", term)
	}
	if len(store.rangeCalls) != 1 {
		t.Errorf("rangeCalls = %d, want 1 (no first-word retry for single word)", len(store.rangeCalls))
	}
	if len(store.strippedCalls) != 1 {
		t.Fatalf("strippedCalls = %d, want 1", len(store.strippedCalls))
	}
	call := store.strippedCalls[0]
	if call.lower != "smallworld" || call.upper != "smallworld"+textutil.PrefixUpperBound {
		t.Errorf("stripped bounds = [%q, %q]", call.lower, call.upper)
	}
	if len(entries) != 1 || entries[0].ID != "40692" {
		t.Errorf("entries = %+v, want the stripped-name hit", entries)
	}
}

func TestSearchStrippedProbeFollowsFirstWordRetry(t *testing.T) {
	store := &fakeStore{
		strippedFn: func(call rangeCall) ([]catalog.Entry, error) {
			if call.lower == "smallworld" {
				return []catalog.Entry{{ID: "1", Name: "Smallworld"}}, nil
			}
			return nil, nil
		},
	}
	adapter := NewAdapter(store, nil)

	entries, _, err := adapter.Search(context.Background(), "small world")
	if err != nil {
		t.Fatal(err)
	}
	// Full prefix, then first-word retry, then the stripped probe.
	if len(store.rangeCalls) != 2 {
		t.Errorf("rangeCalls = %d, want 2", len(store.rangeCalls))
	}
	if len(store.strippedCalls) != 1 || store.strippedCalls[0].lower != "smallworld" {
		t.Fatalf("strippedCalls = %+v, want one probe for smallworld", store.strippedCalls)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestSearchSkipsStrippedProbeWhenIndexedResultNonEmpty(t *testing.T) {
	store := &fakeStore{
		rangeFn: func(rangeCall) ([]catalog.Entry, error) {
			return []catalog.Entry{{ID: "13", Name: "Catan"}}, nil
		},
	}
	adapter := NewAdapter(store, nil)

	if _, _, err := adapter.Search(context.Background(), "catan"); err != nil {
		t.Fatal(err)
	}
	if len(store.strippedCalls) != 0 {
		t.Errorf("strippedCalls = %d, want 0", len(store.strippedCalls))
	}
}

func TestSearchIndexedErrorFallsBackToScan(t *testing.T) {
	store := &fakeStore{
		rangeFn: func(rangeCall) ([]catalog.Entry, error) {
			return nil, errors.New("no such index")
		},
		scanFn: func(limit int) ([]catalog.Entry, error) {
			if limit != boundedScanLimit {
				t.Errorf("scan limit = %d, want %d", limit, boundedScanLimit)
			}
			return []catalog.Entry{{ID: "1", Name: "Catan"}}, nil
		},
	}
	adapter := NewAdapter(store, nil)

	entries, term, err := adapter.Search(context.Background(), "catan")
	if err != nil {
		t.Fatalf("Search() error: %v, want fallback success", err)
	}
	if store.scanCalls != 1 {
		t.Errorf("scanCalls = %d, want 1", store.scanCalls)
	}
	if term != "catan" || len(entries) != 1 {
		t.Errorf("term=%q entries=%d", term, len(entries))
	}
}

func TestSearchTotalFailureSurfacesTransientError(t *testing.T) {
	store := &fakeStore{
		rangeFn: func(rangeCall) ([]catalog.Entry, error) {
			return nil, errors.New("store unreachable")
		},
		scanFn: func(int) ([]catalog.Entry, error) {
			return nil, errors.New("store unreachable")
		},
	}
	adapter := NewAdapter(store, nil)

	entries, _, err := adapter.Search(context.Background(), "catan")
	if err == nil {
		t.Fatal("expected error when both paths fail")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Errorf("error %v not classified transient", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want empty on failure", len(entries))
	}
}

func TestSearchBlankQuery(t *testing.T) {
	store := &fakeStore{}
	adapter := NewAdapter(store, nil)

	entries, term, err := adapter.Search(context.Background(), "   ")
	if err != nil || entries != nil || term != "" {
		t.Errorf("blank query = (%v, %q, %v), want empty no-op", entries, term, err)
	}
	if len(store.rangeCalls) != 0 {
		t.Errorf("rangeCalls = %d, want 0", len(store.rangeCalls))
	}
}
