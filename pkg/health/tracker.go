package health

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
)

// Status describes the circuit state of one model.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

const (
	// DefaultMaxFailures is the consecutive-failure count that trips a
	// breaker open.
	DefaultMaxFailures = 3

	// DefaultFailureResetTime is how long a tripped breaker stays open
	// before reads see it half-open again.
	DefaultFailureResetTime = 5 * time.Minute
)

// State is a point-in-time view of one model's circuit.
type State struct {
	Status       Status    `json:"status"`
	FailureCount int       `json:"failure_count"`
	LastChecked  time.Time `json:"last_checked,omitempty"`
}

// Tracker keeps circuit state per model key. The zero failure history is
// healthy: a key that has never been recorded reads as StatusHealthy.
//
// Recovery from StatusDown is lazy. Once the reset window has elapsed since
// the last failure, the next read flips the key to StatusDegraded with a
// halved failure count, so a single fresh failure can re-trip it quickly.
type Tracker struct {
	mu          sync.Mutex
	states      map[catalog.Key]*State
	maxFailures int
	resetAfter  time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMaxFailures overrides the trip threshold.
func WithMaxFailures(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxFailures = n
		}
	}
}

// WithFailureResetTime overrides the cooldown window.
func WithFailureResetTime(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.resetAfter = d
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets the logger used for state-transition events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTracker builds a tracker with the default thresholds.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		states:      make(map[catalog.Key]*State),
		maxFailures: DefaultMaxFailures,
		resetAfter:  DefaultFailureResetTime,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordSuccess closes the circuit for key regardless of prior state.
func (t *Tracker) RecordSuccess(key catalog.Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.state(key)
	if s.Status != StatusHealthy {
		t.logger.Info("model recovered", "key", key.String(), "previous", string(s.Status))
	}
	s.Status = StatusHealthy
	s.FailureCount = 0
	s.LastChecked = t.now()
}

// RecordFailure counts one failure against key. Crossing the threshold trips
// the breaker open.
func (t *Tracker) RecordFailure(key catalog.Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.state(key)
	t.maybeRecover(key, s)
	s.FailureCount++
	s.LastChecked = t.now()
	switch {
	case s.FailureCount >= t.maxFailures:
		if s.Status != StatusDown {
			t.logger.Warn("model circuit opened", "key", key.String(), "failures", s.FailureCount)
		}
		s.Status = StatusDown
	default:
		s.Status = StatusDegraded
	}
}

// Status reports the current circuit state for key, applying lazy recovery
// first.
func (t *Tracker) Status(key catalog.Key) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.state(key)
	t.maybeRecover(key, s)
	return s.Status
}

// Snapshot returns a copy of every known circuit after applying lazy
// recovery, for the health endpoint and metrics sweeps.
func (t *Tracker) Snapshot() map[catalog.Key]State {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[catalog.Key]State, len(t.states))
	for k, s := range t.states {
		t.maybeRecover(k, s)
		out[k] = *s
	}
	return out
}

// state returns the entry for key, creating a healthy one if absent.
// Callers hold t.mu.
func (t *Tracker) state(key catalog.Key) *State {
	s, ok := t.states[key]
	if !ok {
		s = &State{Status: StatusHealthy}
		t.states[key] = s
	}
	return s
}

// maybeRecover half-opens a tripped circuit whose cooldown has elapsed.
// Callers hold t.mu.
func (t *Tracker) maybeRecover(key catalog.Key, s *State) {
	if s.Status != StatusDown {
		return
	}
	if t.now().Sub(s.LastChecked) < t.resetAfter {
		return
	}
	s.Status = StatusDegraded
	s.FailureCount = t.maxFailures / 2
	s.LastChecked = t.now()
	t.logger.Info("model circuit half-open", "key", key.String(), "failures", s.FailureCount)
}
