package collect

import (
	"context"
	"fmt"
	"sync"

	"github.com/kdhansen/epidexus/core"
)

// InMemoryStore is a volatile RunStore implementation keeping runs and their
// sample series in process local maps. It is safe for concurrent access and
// best suited for tests and single-process experiments. Returned slices are
// copies, so callers cannot mutate internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]core.Run
	samples map[string][]core.SEIRSample
	order   []string
}

var _ core.RunStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory run store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		runs:    make(map[string]core.Run),
		samples: make(map[string][]core.SEIRSample),
	}
}

// SaveRun implements the core.RunStore interface.
func (s *InMemoryStore) SaveRun(_ context.Context, run core.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

// GetRun implements the core.RunStore interface.
func (s *InMemoryStore) GetRun(_ context.Context, id string) (core.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return core.Run{}, fmt.Errorf("run %q: %w", id, ErrRunNotFound)
	}
	return run, nil
}

// ListRuns implements the core.RunStore interface.
func (s *InMemoryStore) ListRuns(_ context.Context) ([]core.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Run, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.runs[id])
	}
	return out, nil
}

// AppendSample implements the core.RunStore interface. Samples for unknown
// runs are rejected.
func (s *InMemoryStore) AppendSample(_ context.Context, sample core.SEIRSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[sample.RunID]; !ok {
		return fmt.Errorf("run %q: %w", sample.RunID, ErrRunNotFound)
	}
	s.samples[sample.RunID] = append(s.samples[sample.RunID], sample)
	return nil
}

// Samples implements the core.RunStore interface.
func (s *InMemoryStore) Samples(_ context.Context, runID string) ([]core.SEIRSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.runs[runID]; !ok {
		return nil, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
	}
	series := s.samples[runID]
	out := make([]core.SEIRSample, len(series))
	copy(out, series)
	return out, nil
}
