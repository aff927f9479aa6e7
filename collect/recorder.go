package collect

import (
	"context"
	"errors"
	"sync"

	"github.com/kdhansen/epidexus/core"
)

// Recorder consumes the daily census of a running simulation. The engine
// calls Record once per simulated day, in day order, from the goroutine
// driving the simulation.
type Recorder interface {
	Record(ctx context.Context, sample core.SEIRSample) error
}

// RecorderFunc adapts an ordinary function to the Recorder interface.
type RecorderFunc func(ctx context.Context, sample core.SEIRSample) error

// Record implements the Recorder interface.
func (f RecorderFunc) Record(ctx context.Context, sample core.SEIRSample) error {
	return f(ctx, sample)
}

// Series is an in-memory recorder that keeps every sample in arrival order.
// It is safe for concurrent use, so ensemble replicates may share one when
// only aggregate statistics matter.
type Series struct {
	mu      sync.Mutex
	samples []core.SEIRSample
}

// NewSeries returns an empty series.
func NewSeries() *Series {
	return &Series{}
}

// Record implements the Recorder interface.
func (s *Series) Record(_ context.Context, sample core.SEIRSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
	return nil
}

// Samples returns a copy of the collected samples in arrival order.
func (s *Series) Samples() []core.SEIRSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SEIRSample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Len returns the number of collected samples.
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// StoreRecorder appends every sample to a run store.
type StoreRecorder struct {
	store core.RunStore
}

// NewStoreRecorder returns a recorder backed by the given store.
func NewStoreRecorder(store core.RunStore) *StoreRecorder {
	return &StoreRecorder{store: store}
}

// Record implements the Recorder interface.
func (r *StoreRecorder) Record(ctx context.Context, sample core.SEIRSample) error {
	return r.store.AppendSample(ctx, sample)
}

// MultiRecorder fans a sample out to several recorders. Every recorder is
// attempted; the errors of failing ones are joined.
type MultiRecorder struct {
	recorders []Recorder
}

// NewMultiRecorder returns a recorder writing to all given recorders.
func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	return &MultiRecorder{recorders: recorders}
}

// Record implements the Recorder interface.
func (m *MultiRecorder) Record(ctx context.Context, sample core.SEIRSample) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Record(ctx, sample); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
