package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"gamekeep/internal/bgg"
	"gamekeep/internal/catalog"
	"gamekeep/internal/config"
	"gamekeep/internal/logging"
	"gamekeep/internal/notifications"
	"gamekeep/internal/ranker"
	"gamekeep/internal/recognizer"
)

// Searcher is the adapter surface the manager drives.
type Searcher interface {
	Search(ctx context.Context, query string) ([]catalog.Entry, string, error)
	GetByID(ctx context.Context, id string) (*catalog.Entry, error)
}

// Enricher fetches optional display details for a matched entry.
type Enricher interface {
	GetThing(ctx context.Context, id string) (*bgg.Thing, error)
}

// Timings collects the delays that serialize resolution work.
type Timings struct {
	QueryTimeout  time.Duration
	InitialDelay  time.Duration
	StaggerStep   time.Duration
	InterJobPause time.Duration
}

// TimingsFromConfig converts resolver config values to durations.
func TimingsFromConfig(cfg *config.Config) Timings {
	return Timings{
		QueryTimeout:  time.Duration(cfg.Resolver.QueryTimeout) * time.Second,
		InitialDelay:  time.Duration(cfg.Resolver.InitialDelayMs) * time.Millisecond,
		StaggerStep:   time.Duration(cfg.Resolver.StaggerStepMs) * time.Millisecond,
		InterJobPause: time.Duration(cfg.Resolver.InterJobPauseMs) * time.Millisecond,
	}
}

type job struct {
	sessionKey  string
	candidateID string
	rawTitle    string
	readyAt     time.Time
}

type hooks struct {
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func defaultHooks() hooks {
	return hooks{
		now: time.Now,
		sleep: func(ctx context.Context, d time.Duration) {
			if d <= 0 {
				return
			}
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
			}
		},
	}
}

// ManagerOptions configures a session manager.
type ManagerOptions struct {
	Searcher        Searcher
	Enricher        Enricher
	Notifier        notifications.Service
	Logger          *slog.Logger
	Scorer          ranker.Scorer
	ResultLimit     int
	SuggestionLimit int
	Timings         Timings
}

// Manager serializes resolution jobs and owns all candidate state. A
// single worker processes jobs in FIFO order; new sessions supersede
// old ones through stamp-and-check rather than request cancellation.
type Manager struct {
	searcher        Searcher
	enricher        Enricher
	notifier        notifications.Service
	logger          *slog.Logger
	scorer          ranker.Scorer
	resultLimit     int
	suggestionLimit int
	timings         Timings
	hooks           hooks

	mu           sync.Mutex
	cond         *sync.Cond
	active       string
	candidates   map[string]*Candidate
	order        []string
	staggerIndex int
	pendingJobs  int

	jobs    chan job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewManager constructs a session manager. Searcher is required; the
// other collaborators default to inert implementations.
func NewManager(opts ManagerOptions) *Manager {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = ranker.DefaultScorer()
	}
	resultLimit := opts.ResultLimit
	if resultLimit <= 0 {
		resultLimit = 10
	}
	suggestionLimit := opts.SuggestionLimit
	if suggestionLimit <= 0 {
		suggestionLimit = 20
	}
	m := &Manager{
		searcher:        opts.Searcher,
		enricher:        opts.Enricher,
		notifier:        notifier,
		logger:          logging.NewComponentLogger(opts.Logger, "session-manager"),
		scorer:          scorer,
		resultLimit:     resultLimit,
		suggestionLimit: suggestionLimit,
		timings:         opts.Timings,
		hooks:           defaultHooks(),
		candidates:      make(map[string]*Candidate),
		jobs:            make(chan job, 256),
	}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Start launches the worker goroutine. Safe to call once.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	workerCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	go m.run(workerCtx)
}

// Stop halts the worker and waits for the in-flight job to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// BeginSession allocates a new session token and supersedes the prior
// one. Candidates from the old session are dropped; their pending jobs
// will be discarded by the stamp check when dequeued.
func (m *Manager) BeginSession() string {
	key := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = key
	m.candidates = make(map[string]*Candidate)
	m.order = nil
	m.staggerIndex = 0
	return key
}

// ActiveSession returns the current session token.
func (m *Manager) ActiveSession() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Accept registers one recognized title as an idle candidate.
func (m *Manager) Accept(sessionKey string, title recognizer.RecognizedTitle) (Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sessionKey == "" || sessionKey != m.active {
		return Candidate{}, fmt.Errorf("accept candidate: session superseded")
	}
	c := &Candidate{
		ID:              uuid.NewString(),
		SessionKey:      sessionKey,
		RawTitle:        title.Title,
		Status:          StatusIdle,
		ConfidenceLabel: title.ConfidenceLabel,
		Notes:           title.Notes,
		UpdatedAt:       m.hooks.now(),
	}
	m.candidates[c.ID] = c
	m.order = append(m.order, c.ID)
	return *c, nil
}

// EnqueueResolution appends a resolution job for the candidate. Jobs
// are staggered: an initial delay plus a growing per-item offset keeps
// the backing store under its rate limits.
func (m *Manager) EnqueueResolution(sessionKey, candidateID string) error {
	m.mu.Lock()
	if sessionKey == "" || sessionKey != m.active {
		m.mu.Unlock()
		return fmt.Errorf("enqueue resolution: session superseded")
	}
	c, ok := m.candidates[candidateID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("enqueue resolution: unknown candidate %s", candidateID)
	}
	delay := m.timings.InitialDelay + time.Duration(m.staggerIndex)*m.timings.StaggerStep
	m.staggerIndex++
	m.pendingJobs++
	j := job{
		sessionKey:  sessionKey,
		candidateID: candidateID,
		rawTitle:    c.RawTitle,
		readyAt:     m.hooks.now().Add(delay),
	}
	m.mu.Unlock()

	m.jobs <- j
	return nil
}

// Candidate returns a copy of one candidate.
func (m *Manager) Candidate(id string) (Candidate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return Candidate{}, false
	}
	return *c, true
}

// Candidates returns copies of all candidates in acceptance order.
func (m *Manager) Candidates() []Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Candidate, 0, len(m.order))
	for _, id := range m.order {
		if c, ok := m.candidates[id]; ok {
			out = append(out, *c)
		}
	}
	return out
}

// Wait blocks until every enqueued job has been processed or the
// context expires. Expiry broadcasts under the lock so the wait always
// wakes; nothing is left blocked on a future job's signal.
func (m *Manager) Wait(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		m.mu.Lock()
		m.cond.Broadcast()
		m.mu.Unlock()
	})
	defer stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	for m.pendingJobs > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.cond.Wait()
	}
	return nil
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			m.drainPending()
			return
		case j := <-m.jobs:
			m.waitUntil(ctx, j.readyAt)
			if ctx.Err() == nil {
				m.process(ctx, j)
				m.hooks.sleep(ctx, m.timings.InterJobPause)
			}
			m.finishJob()
		}
	}
}

func (m *Manager) waitUntil(ctx context.Context, readyAt time.Time) {
	if wait := readyAt.Sub(m.hooks.now()); wait > 0 {
		m.hooks.sleep(ctx, wait)
	}
}

func (m *Manager) finishJob() {
	m.mu.Lock()
	if m.pendingJobs > 0 {
		m.pendingJobs--
	}
	m.cond.Broadcast()
	m.mu.Unlock()
}

func (m *Manager) drainPending() {
	for {
		select {
		case <-m.jobs:
			m.finishJob()
		default:
			return
		}
	}
}

type lookupResult struct {
	matches []ranker.MatchCandidate
	term    string
	err     error
}

func (m *Manager) process(ctx context.Context, j job) {
	if !m.applyUpdate(j.sessionKey, j.candidateID, func(c *Candidate) {
		c.Status = StatusLoading
		c.ErrorMessage = ""
	}) {
		m.logger.Debug("discarding stale job",
			logging.String(logging.FieldSession, j.sessionKey),
			logging.String(logging.FieldCandidate, j.candidateID))
		return
	}

	res := m.lookup(ctx, j.rawTitle, m.resultLimit)
	m.applyOutcome(ctx, j.sessionKey, j.candidateID, j.rawTitle, res)
}

// lookup races the query plus ranking against the per-job timeout. The
// underlying call is not aborted on expiry; its late result lands in a
// buffered channel nobody reads.
func (m *Manager) lookup(ctx context.Context, rawTitle string, limit int) lookupResult {
	resCh := make(chan lookupResult, 1)
	go func() {
		entries, term, err := m.searcher.Search(ctx, rawTitle)
		if err != nil {
			resCh <- lookupResult{term: term, err: err}
			return
		}
		resCh <- lookupResult{
			matches: ranker.Rank(term, entries, limit, m.scorer),
			term:    term,
		}
	}()

	timeout := m.timings.QueryTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-resCh:
		return res
	case <-timer.C:
		return lookupResult{err: fmt.Errorf("catalog lookup timed out after %s", timeout)}
	case <-ctx.Done():
		return lookupResult{err: ctx.Err()}
	}
}

func (m *Manager) applyOutcome(ctx context.Context, sessionKey, candidateID, rawTitle string, res lookupResult) {
	switch {
	case res.err != nil:
		applied := m.applyUpdate(sessionKey, candidateID, func(c *Candidate) {
			c.Status = StatusError
			c.ErrorMessage = fmt.Sprintf("lookup failed (%v); the title can still be confirmed manually", res.err)
			c.SearchedTerm = res.term
		})
		if applied {
			m.logger.Warn("resolution failed",
				logging.String(logging.FieldCandidate, candidateID),
				logging.Error(res.err))
			_ = m.notifier.NotifyResolutionError(ctx, rawTitle, res.err)
		}

	case len(res.matches) == 0:
		applied := m.applyUpdate(sessionKey, candidateID, func(c *Candidate) {
			c.Status = StatusNoMatch
			c.SearchedTerm = res.term
			c.ErrorMessage = fmt.Sprintf("no catalog match for %q", res.term)
		})
		if applied {
			m.logger.Info("no match",
				logging.String(logging.FieldCandidate, candidateID),
				logging.String("term", res.term))
			_ = m.notifier.NotifyNoMatch(ctx, res.term)
		}

	default:
		entry := res.matches[0].Entry
		m.enrich(ctx, &entry)
		applied := m.applyUpdate(sessionKey, candidateID, func(c *Candidate) {
			c.Status = StatusMatched
			c.Resolved = &entry
			c.Suggestions = res.matches
			c.SearchedTerm = res.term
			c.ErrorMessage = ""
		})
		if applied {
			m.logger.Info("candidate matched",
				logging.String(logging.FieldCandidate, candidateID),
				logging.String("name", entry.Name),
				logging.Int("rank", entry.Rank))
			_ = m.notifier.NotifyResolutionMatched(ctx, rawTitle, entry.Name)
		}
	}
}

// enrich performs the optional secondary detail fetch. Failure only
// omits display fields, never the match.
func (m *Manager) enrich(ctx context.Context, entry *catalog.Entry) {
	if m.enricher == nil {
		return
	}
	timeout := m.timings.QueryTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	thing, err := m.enricher.GetThing(fetchCtx, entry.ID)
	if err != nil {
		m.logger.Debug("detail enrichment failed",
			logging.String("entry", entry.ID), logging.Error(err))
		return
	}
	if thing.Thumbnail != "" {
		entry.Thumbnail = thing.Thumbnail
	}
	if entry.YearPublished == 0 && thing.YearPublished != 0 {
		entry.YearPublished = thing.YearPublished
	}
	if entry.AverageRating == 0 && thing.AverageRating != 0 {
		entry.AverageRating = thing.AverageRating
	}
}

// applyUpdate mutates one candidate atomically iff the captured session
// token still matches the active one. Stale updates are no-ops.
func (m *Manager) applyUpdate(sessionKey, candidateID string, fn func(*Candidate)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sessionKey == "" || sessionKey != m.active {
		return false
	}
	c, ok := m.candidates[candidateID]
	if !ok || c.SessionKey != sessionKey {
		return false
	}
	fn(c)
	c.UpdatedAt = m.hooks.now()
	return true
}
