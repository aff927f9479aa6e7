package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/internal/util"
	"github.com/kdhansen/epidexus/logging"
	"github.com/kdhansen/epidexus/metrics"
	"github.com/kdhansen/epidexus/seir"
	"github.com/kdhansen/epidexus/world"
)

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// StepDuration is the fixed tick length. Defaults to
	// core.DefaultStepDuration.
	StepDuration time.Duration

	// Seed selects the random stream of the simulation. Seed 0 picks the
	// fixed default seed, so unseeded models are still reproducible.
	Seed int64

	// RNG overrides the random source entirely. When set, Seed is ignored.
	// Ensemble replicates use this together with core.DeriveSeed.
	RNG *rand.Rand

	// RunID identifies the run in stores and logs. Defaults to a fresh
	// UUID.
	RunID string

	// Scenario names the scenario that built the model, for run records
	// and metrics labels. Defaults to "custom".
	Scenario string

	// Recorder receives the daily SEIR census. May be nil to disable
	// collection.
	Recorder collect.Recorder

	// Metrics receives engine instrumentation. May be nil.
	Metrics *metrics.Metrics

	// Logger receives lifecycle and registration traces. Defaults to
	// logging.NoOpLogger.
	Logger logging.Logger
}

// Model owns one simulation: the clock, the random source, and the
// registered population. It advances time in fixed steps and activates
// every agent through the two-phase scheduler.
//
// A model is not safe for concurrent use. Run parallel replicates on
// separate models with derived seeds instead.
type Model struct {
	clock     *core.Clock
	rng       *rand.Rand
	scheduler *Scheduler

	runID    string
	scenario string
	seed     int64

	recorder collect.Recorder
	metrics  *metrics.Metrics
	logger   logging.Logger

	persons   []*world.Person
	locations []*world.Location
	nextID    int
}

// New returns a model starting at the given date.
func New(start time.Time, optFns ...func(o *Options)) *Model {
	opts := Options{
		StepDuration: core.DefaultStepDuration,
		Scenario:     "custom",
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.RNG == nil {
		opts.RNG = core.NewRand(opts.Seed)
	}
	if opts.RunID == "" {
		opts.RunID = util.NewID()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	m := &Model{
		clock:     core.NewClock(start, opts.StepDuration),
		rng:       opts.RNG,
		scheduler: NewScheduler(),
		runID:     opts.RunID,
		scenario:  opts.Scenario,
		seed:      opts.Seed,
		recorder:  opts.Recorder,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}

	m.logger.Info("Simulation model created",
		"run_id", m.runID,
		"scenario", m.scenario,
		"start", start,
		"step", m.clock.StepDuration(),
	)

	return m
}

// Clock returns the simulation time source shared by all agents.
func (m *Model) Clock() *core.Clock { return m.clock }

// RNG returns the random source shared by all locations of the model.
func (m *Model) RNG() *rand.Rand { return m.rng }

// Metrics returns the configured metrics sink, possibly nil.
func (m *Model) Metrics() *metrics.Metrics { return m.metrics }

// Logger returns the configured logger.
func (m *Model) Logger() logging.Logger { return m.logger }

// RunID returns the identifier of this run.
func (m *Model) RunID() string { return m.runID }

// Scenario returns the name of the scenario that built the model.
func (m *Model) Scenario() string { return m.scenario }

// NextID issues the next person identifier, starting at 1.
func (m *Model) NextID() int {
	m.nextID++
	return m.nextID
}

// RunInfo returns the persistent record describing this run. The status is
// set by the caller driving the run; RunInfo always reports it as running.
func (m *Model) RunInfo() core.Run {
	now := time.Now().UTC()
	return core.Run{
		ID:           m.runID,
		Scenario:     m.scenario,
		Seed:         m.seed,
		Start:        m.clock.Now().Add(-time.Duration(m.clock.Ticks()) * m.clock.StepDuration()),
		StepDuration: m.clock.StepDuration(),
		Status:       core.RunStatusRunning,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddPerson registers a person with the scheduler and the population.
func (m *Model) AddPerson(p *world.Person) {
	m.scheduler.Add(p)
	m.persons = append(m.persons, p)
	m.logger.Debug("Added person", "person", p.String())
}

// AddPersons registers several persons.
func (m *Model) AddPersons(persons []*world.Person) {
	for _, p := range persons {
		m.AddPerson(p)
	}
}

// AddLocation registers a location with the scheduler and the world.
func (m *Model) AddLocation(l *world.Location) {
	m.scheduler.Add(l)
	m.locations = append(m.locations, l)
	m.logger.Debug("Added location", "location", l.Name())
}

// AddLocations registers several locations.
func (m *Model) AddLocations(locations []*world.Location) {
	for _, l := range locations {
		m.AddLocation(l)
	}
}

// Persons returns the registered persons in registration order. The slice
// is shared; callers must not modify it.
func (m *Model) Persons() []*world.Person { return m.persons }

// Locations returns the registered locations in registration order. The
// slice is shared; callers must not modify it.
func (m *Model) Locations() []*world.Location { return m.locations }

// SEIRCounts takes a census of the population by compartment at the current
// simulation time.
func (m *Model) SEIRCounts() core.SEIRSample {
	sample := core.SEIRSample{RunID: m.runID, Day: m.clock.Now()}
	for _, p := range m.persons {
		switch p.State().Stage() {
		case seir.Susceptible:
			sample.Susceptible++
		case seir.Exposed:
			sample.Exposed++
		case seir.Infected:
			sample.Infected++
		case seir.Recovered:
			sample.Recovered++
		}
	}
	return sample
}

// Step advances the simulation by one tick: the clock moves forward, a
// daily census is taken when the calendar day changed, and then every agent
// is activated through the two scheduler phases. The census precedes the
// activation so it describes the population before anyone acts on the new
// day.
func (m *Model) Step(ctx context.Context) error {
	began := time.Now()
	last := m.clock.Now()
	now := m.clock.Advance()

	if !core.SameDay(last, now) {
		if err := m.sample(ctx); err != nil {
			return err
		}
	}

	m.scheduler.Tick()
	m.metrics.ObserveStepLatency(time.Since(began))
	return nil
}

// sample records one daily census.
func (m *Model) sample(ctx context.Context) error {
	s := m.SEIRCounts()
	m.metrics.SetPopulation(seir.Susceptible.String(), s.Susceptible)
	m.metrics.SetPopulation(seir.Exposed.String(), s.Exposed)
	m.metrics.SetPopulation(seir.Infected.String(), s.Infected)
	m.metrics.SetPopulation(seir.Recovered.String(), s.Recovered)
	m.logger.Debug("Daily SEIR census",
		"day", s.Day,
		"susceptible", s.Susceptible,
		"exposed", s.Exposed,
		"infected", s.Infected,
		"recovered", s.Recovered,
	)
	if m.recorder == nil {
		return nil
	}
	if err := m.recorder.Record(ctx, s); err != nil {
		return fmt.Errorf("record daily sample: %w", err)
	}
	return nil
}

// Run advances the simulation until the given simulated interval has
// elapsed. The context is checked between ticks.
func (m *Model) Run(ctx context.Context, interval time.Duration) error {
	return m.RunUntil(ctx, m.clock.Now().Add(interval))
}

// RunUntil advances the simulation until the clock reaches or passes the
// given instant. The context is checked between ticks.
func (m *Model) RunUntil(ctx context.Context, until time.Time) error {
	for m.clock.Now().Before(until) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RunTicks advances the simulation by exactly n ticks. The context is
// checked between ticks.
func (m *Model) RunTicks(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}
