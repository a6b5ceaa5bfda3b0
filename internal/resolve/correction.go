package resolve

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gamekeep/internal/catalog"
	"gamekeep/internal/logging"
	"gamekeep/internal/ranker"
)

var titleCaser = cases.Title(language.English)

// Suggest runs a one-shot query for the correction flow, bypassing the
// stagger queue but not the per-query timeout. It returns up to the
// suggestion limit of ranked candidates.
func (m *Manager) Suggest(ctx context.Context, query string) ([]ranker.MatchCandidate, error) {
	res := m.lookup(ctx, query, m.suggestionLimit)
	if res.err != nil {
		return nil, res.err
	}
	return res.matches, nil
}

// Correct re-resolves an existing candidate with a user-supplied query.
// The candidate re-enters loading and lands in matched, no_match, or
// error using the same outcome mapping as queued jobs, but runs
// synchronously.
func (m *Manager) Correct(ctx context.Context, sessionKey, candidateID, query string) (Candidate, error) {
	if !m.applyUpdate(sessionKey, candidateID, func(c *Candidate) {
		c.Status = StatusLoading
		c.ErrorMessage = ""
	}) {
		return Candidate{}, fmt.Errorf("correct candidate: session superseded or candidate unknown")
	}

	res := m.lookup(ctx, query, m.resultLimit)
	m.applyOutcome(ctx, sessionKey, candidateID, query, res)

	c, ok := m.Candidate(candidateID)
	if !ok {
		return Candidate{}, fmt.Errorf("correct candidate: candidate vanished")
	}
	return c, nil
}

// ApplySelection updates a candidate in place with the entry the user
// picked from the suggestion set. Display metadata from the recognizer
// is preserved; only identity fields change.
func (m *Manager) ApplySelection(sessionKey, candidateID string, entry catalog.Entry) (Candidate, error) {
	entry.Normalize()
	if !m.applyUpdate(sessionKey, candidateID, func(c *Candidate) {
		c.Status = StatusMatched
		c.Resolved = &entry
		c.ErrorMessage = ""
	}) {
		return Candidate{}, fmt.Errorf("apply selection: session superseded or candidate unknown")
	}
	m.logger.Info("correction applied",
		logging.String(logging.FieldCandidate, candidateID),
		logging.String("name", entry.Name))
	c, _ := m.Candidate(candidateID)
	return c, nil
}

// ManualAdd creates a candidate directly in matched state for a title
// the catalog does not carry. The name is display-cased.
func (m *Manager) ManualAdd(sessionKey, name string) (Candidate, error) {
	display := titleCaser.String(name)
	entry := catalog.Entry{
		ID:   "manual-" + uuid.NewString(),
		Name: display,
	}
	entry.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()
	if sessionKey == "" || sessionKey != m.active {
		return Candidate{}, fmt.Errorf("manual add: session superseded")
	}
	c := &Candidate{
		ID:         uuid.NewString(),
		SessionKey: sessionKey,
		RawTitle:   name,
		Status:     StatusMatched,
		Resolved:   &entry,
		UpdatedAt:  m.hooks.now(),
	}
	m.candidates[c.ID] = c
	m.order = append(m.order, c.ID)
	return *c, nil
}
