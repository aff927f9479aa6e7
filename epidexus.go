// Package epidexus provides a high-level façade over the simulation engine
// and its service abstractions (run stores, result stores, metrics and
// logging) enabling rapid construction of agent-based epidemic experiments.
// Most applications interact with this package by:
//  1. Creating an Epidexus via New() (optionally overriding default in-memory stores)
//  2. Building a model, directly or through the scenario package
//  3. Running it with RunModel and exporting the series with ExportCSV
//
// The façade delegates stepping to engine.Model while keeping record
// keeping and export ergonomics concise. All defaults are safe for local
// development and testing; production setups typically supply durable store
// implementations and a structured logger.
package epidexus

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/engine"
	"github.com/kdhansen/epidexus/logging"
	"github.com/kdhansen/epidexus/metrics"
	"github.com/kdhansen/epidexus/results"
)

// SeriesResultName is the result name under which ExportCSV stores a run's
// daily sample series.
const SeriesResultName = "series.csv"

// Options configures the Epidexus instance.
type Options struct {
	// RunStore persists run records and daily samples. Defaults to an
	// in-memory store.
	RunStore core.RunStore

	// ResultStore persists exported payloads. Defaults to an in-memory
	// store.
	ResultStore core.ResultStore

	// Metrics receives instrumentation, wired into every model built
	// through the façade. May be nil.
	Metrics *metrics.Metrics

	// Logger receives lifecycle traces. Defaults to logging.NoOpLogger.
	Logger logging.Logger
}

// Epidexus is the high-level façade aggregating the stores a simulation
// records into.
type Epidexus struct {
	runStore    core.RunStore
	resultStore core.ResultStore
	metrics     *metrics.Metrics
	logger      logging.Logger
}

// New creates a new Epidexus instance with optional overrides. Any unset
// store is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Epidexus {
	opts := Options{
		RunStore:    collect.NewInMemoryStore(),
		ResultStore: results.NewInMemoryStore(),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Epidexus{
		runStore:    opts.RunStore,
		resultStore: opts.ResultStore,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}
}

// RunStore returns the configured run store.
func (e *Epidexus) RunStore() core.RunStore { return e.runStore }

// ResultStore returns the configured result store.
func (e *Epidexus) ResultStore() core.ResultStore { return e.resultStore }

// NewModel builds a model wired into the façade's stores: daily samples are
// appended to the run store, and the façade's metrics and logger are passed
// through. Further engine options may be layered on top.
func (e *Epidexus) NewModel(start time.Time, optFns ...func(o *engine.Options)) *engine.Model {
	return engine.New(start, func(o *engine.Options) {
		o.Recorder = collect.NewStoreRecorder(e.runStore)
		o.Metrics = e.metrics
		o.Logger = e.logger
		for _, fn := range optFns {
			fn(o)
		}
	})
}

// RunModel executes the model for the given simulated interval, keeping its
// run record in the run store up to date. The record ends up completed or
// failed depending on the outcome.
func (e *Epidexus) RunModel(ctx context.Context, m *engine.Model, interval time.Duration) error {
	run := m.RunInfo()
	if err := e.runStore.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	e.metrics.RecordRunStarted(m.Scenario())

	began := time.Now()
	simErr := m.Run(ctx, interval)

	run.Status = core.RunStatusCompleted
	if simErr != nil {
		run.Status = core.RunStatusFailed
	}
	run.UpdatedAt = time.Now().UTC()
	if err := e.runStore.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	e.metrics.RecordRunCompleted(m.Scenario(), string(run.Status))
	e.logger.Info("Simulation run finished",
		"run_id", m.RunID(),
		"scenario", m.Scenario(),
		"status", string(run.Status),
		"ticks", m.Clock().Ticks(),
		"duration", time.Since(began),
	)
	return simErr
}

// ExportCSV renders the run's daily sample series as CSV and saves it to
// the result store under SeriesResultName.
func (e *Epidexus) ExportCSV(ctx context.Context, runID string) error {
	samples, err := e.runStore.Samples(ctx, runID)
	if err != nil {
		return fmt.Errorf("export run %q: %w", runID, err)
	}
	var buf bytes.Buffer
	if err := collect.EncodeCSV(&buf, samples); err != nil {
		return fmt.Errorf("export run %q: %w", runID, err)
	}
	if err := e.resultStore.Save(ctx, runID, SeriesResultName, buf.Bytes()); err != nil {
		return fmt.Errorf("export run %q: %w", runID, err)
	}
	return nil
}
