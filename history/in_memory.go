package history

import (
	"sync"
	"time"

	"github.com/quillon/agentdeck/core"
)

// Record is the stored trace of one workflow run.
type Record struct {
	RunID      string        `json:"run_id"`
	State      core.RunState `json:"state"`
	Steps      int           `json:"steps"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Events     []core.Event  `json:"events"`
}

// Store is a concurrency-safe in-memory run history bounded to the most
// recent runs. Returned records are copies, so callers can never mutate
// internal state.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
	limit   int
}

// DefaultLimit bounds the number of retained runs when no limit is given.
const DefaultLimit = 100

// NewStore constructs an empty store retaining up to limit runs; the oldest
// run is evicted first. A non-positive limit falls back to DefaultLimit.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{records: make(map[string]*Record), limit: limit}
}

// Begin registers a fresh run in the running state.
func (s *Store) Begin(runID string, steps int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[runID] = &Record{
		RunID:     runID,
		State:     core.RunRunning,
		Steps:     steps,
		StartedAt: time.Now().UTC(),
	}
	s.order = append(s.order, runID)

	for len(s.order) > s.limit {
		evicted := s.order[0]
		s.order = s.order[1:]
		delete(s.records, evicted)
	}
}

// Append records an event against its run and, for terminal events, settles
// the run's final state. Events for unknown (evicted) runs are ignored.
func (s *Store) Append(ev core.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[ev.RunID]
	if !ok {
		return
	}
	rec.Events = append(rec.Events, ev)

	switch ev.Type {
	case core.EventCompleted:
		rec.State = core.RunCompleted
	case core.EventFailed:
		rec.State = core.RunFailed
		rec.Error = ev.Error
	default:
		return
	}
	now := time.Now().UTC()
	rec.FinishedAt = &now
}

// Get returns a copy of the record for runID.
func (s *Store) Get(runID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[runID]
	if !ok {
		return Record{}, false
	}
	return cloneRecord(rec), true
}

// List returns copies of all retained records, most recent run first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if rec, ok := s.records[s.order[i]]; ok {
			out = append(out, cloneRecord(rec))
		}
	}
	return out
}

func cloneRecord(rec *Record) Record {
	out := *rec
	out.Events = make([]core.Event, len(rec.Events))
	copy(out.Events, rec.Events)
	if rec.FinishedAt != nil {
		finished := *rec.FinishedAt
		out.FinishedAt = &finished
	}
	return out
}
