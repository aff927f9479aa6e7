package results

import (
	"context"
	"sort"
	"sync"

	"github.com/kdhansen/epidexus/core"
)

// InMemoryStore is a trivial in-process ResultStore implementation useful
// for tests, examples and single-process experiments. It keeps all payloads
// in a nested map guarded by an RWMutex. Data is copied on save and
// retrieval so callers cannot mutate internal buffers.
//
// Layout: runID -> name -> raw bytes
type InMemoryStore struct {
	mu      sync.RWMutex
	results map[string]map[string][]byte
}

var _ core.ResultStore = (*InMemoryStore)(nil)

// NewInMemoryStore returns an empty in-memory result store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{results: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the result bytes for the given run and name.
func (s *InMemoryStore) Save(_ context.Context, runID, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[runID]; !ok {
		s.results[runID] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.results[runID][name] = cp
	return nil
}

// Get returns a copy of the stored result bytes or ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, runID, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.results[runID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := m[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the result names stored for the run, sorted. The slice is a
// snapshot and safe for caller mutation.
func (s *InMemoryStore) List(_ context.Context, runID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.results[runID]
	if !ok {
		return []string{}, nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the result if present or returns ErrNotFound.
func (s *InMemoryStore) Delete(_ context.Context, runID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.results[runID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[name]; !ok {
		return ErrNotFound
	}
	delete(m, name)
	return nil
}
