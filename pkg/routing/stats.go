package routing

import (
	"sync"
	"sync/atomic"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
)

// Stats holds lock-free routing counters. Per-key counts live in sync.Maps
// so hot keys never contend with each other.
type Stats struct {
	totalRequests  atomic.Int64
	totalSuccesses atomic.Int64
	totalFailures  atomic.Int64
	failovers      atomic.Int64
	unavailable    atomic.Int64
	exhausted      atomic.Int64
	firstTryWins   atomic.Int64

	successByKey sync.Map // catalog.Key -> *atomic.Int64
	failureByKey sync.Map // catalog.Key -> *atomic.Int64
}

// NewStats builds an empty Stats.
func NewStats() *Stats { return &Stats{} }

// RecordSuccess counts a served reply and which attempt won.
func (s *Stats) RecordSuccess(key catalog.Key, attempt int) {
	s.totalRequests.Add(1)
	s.totalSuccesses.Add(1)
	if attempt == 1 {
		s.firstTryWins.Add(1)
	}
	bump(&s.successByKey, key)
}

// RecordFailure counts one failed attempt against key.
func (s *Stats) RecordFailure(key catalog.Key) {
	s.totalFailures.Add(1)
	bump(&s.failureByKey, key)
}

// RecordFailover counts one cross-provider retry.
func (s *Stats) RecordFailover() { s.failovers.Add(1) }

// RecordUnavailable counts a request rejected with no candidates.
func (s *Stats) RecordUnavailable() {
	s.totalRequests.Add(1)
	s.unavailable.Add(1)
}

// RecordExhausted counts a request that burned its whole attempt budget.
func (s *Stats) RecordExhausted() {
	s.totalRequests.Add(1)
	s.exhausted.Add(1)
}

func bump(m *sync.Map, key catalog.Key) {
	v, _ := m.LoadOrStore(key, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	TotalRequests  int64                 `json:"total_requests"`
	TotalSuccesses int64                 `json:"total_successes"`
	TotalFailures  int64                 `json:"total_failures"`
	Failovers      int64                 `json:"failovers"`
	Unavailable    int64                 `json:"unavailable"`
	Exhausted      int64                 `json:"exhausted"`
	FirstTryWins   int64                 `json:"first_try_wins"`
	SuccessByKey   map[catalog.Key]int64 `json:"-"`
	FailureByKey   map[catalog.Key]int64 `json:"-"`
}

// Snapshot copies the counters. Individual values are each atomically read;
// the snapshot as a whole is not a single consistent cut, which is fine for
// reporting.
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		TotalRequests:  s.totalRequests.Load(),
		TotalSuccesses: s.totalSuccesses.Load(),
		TotalFailures:  s.totalFailures.Load(),
		Failovers:      s.failovers.Load(),
		Unavailable:    s.unavailable.Load(),
		Exhausted:      s.exhausted.Load(),
		FirstTryWins:   s.firstTryWins.Load(),
		SuccessByKey:   make(map[catalog.Key]int64),
		FailureByKey:   make(map[catalog.Key]int64),
	}
	s.successByKey.Range(func(k, v any) bool {
		snap.SuccessByKey[k.(catalog.Key)] = v.(*atomic.Int64).Load()
		return true
	})
	s.failureByKey.Range(func(k, v any) bool {
		snap.FailureByKey[k.(catalog.Key)] = v.(*atomic.Int64).Load()
		return true
	})
	return snap
}
