package resolve

import (
	"errors"
	"time"

	"gamekeep/internal/catalog"
	"gamekeep/internal/ranker"
	"gamekeep/internal/services"
)

// Status is one state in the candidate lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusMatched Status = "matched"
	StatusNoMatch Status = "no_match"
	StatusError   Status = "error"
)

// Candidate is one identification attempt. All mutation happens inside
// the session manager as a single atomic update; callers only ever see
// copies.
type Candidate struct {
	ID         string
	SessionKey string
	RawTitle   string
	Status     Status

	// Display metadata from the recognizer, preserved across
	// corrections because it is unrelated to identity.
	ConfidenceLabel string
	Notes           string

	Resolved     *catalog.Entry
	Suggestions  []ranker.MatchCandidate
	ErrorMessage string
	SearchedTerm string
	UpdatedAt    time.Time
}

// Terminal reports whether the pipeline is done with the candidate.
// no_match and error are not terminal: corrections may re-enter loading.
func (c *Candidate) Terminal() bool {
	return c.Status == StatusMatched
}

// NeedsAttention reports whether the candidate awaits user input.
func (c *Candidate) NeedsAttention() bool {
	return c.Status == StatusNoMatch || c.Status == StatusError
}

// FailureStatus maps a resolution error to the candidate status it
// produces. Not-found maps to no_match; everything else, timeouts
// included, maps to error so the user can still confirm manually.
func FailureStatus(err error) Status {
	switch {
	case err == nil:
		return StatusMatched
	case errors.Is(err, services.ErrNotFound):
		return StatusNoMatch
	default:
		return StatusError
	}
}
