package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/engine"
	"github.com/kdhansen/epidexus/logging"
	"github.com/kdhansen/epidexus/metrics"
	"github.com/kdhansen/epidexus/world"
	"github.com/kdhansen/epidexus/worldgen"
)

// OneLocationOptions configures the OneLocation scenario.
type OneLocationOptions struct {
	// StepDuration is the simulation tick. Defaults to one hour, which is
	// plenty of resolution for a population that never moves.
	StepDuration time.Duration

	// Seed selects the random stream. Seed 0 picks the fixed default.
	Seed int64

	// Recorder receives the daily census. May be nil.
	Recorder collect.Recorder

	// Metrics receives instrumentation. May be nil.
	Metrics *metrics.Metrics

	// Logger receives lifecycle traces. Defaults to logging.NoOpLogger.
	Logger logging.Logger
}

// OneLocation is the simplest scenario: one home, everybody in it all the
// time, emulating a well-mixed compartment SEIR model. The single control
// knob scales the infection rate, the way an external policy layer (a
// lockdown controller, an optimizer) would throttle transmission.
type OneLocation struct {
	model       *engine.Model
	people      []*world.Person
	home        *world.Location
	initialRate float64
	control     float64
}

// NewOneLocation builds the scenario: numPeople share one home, the first
// numInfected of them start out exposed, and the home transmits at the given
// hourly rate.
func NewOneLocation(numPeople, numInfected int, infectionRate float64, start time.Time, optFns ...func(o *OneLocationOptions)) (*OneLocation, error) {
	opts := OneLocationOptions{
		StepDuration: time.Hour,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := engine.New(start, func(o *engine.Options) {
		o.StepDuration = opts.StepDuration
		o.Seed = opts.Seed
		o.Scenario = "onelocation"
		o.Recorder = opts.Recorder
		o.Metrics = opts.Metrics
		o.Logger = opts.Logger
	})

	people, home, err := worldgen.CreateFamily(m, numPeople, func(o *worldgen.FamilyOptions) {
		o.Transmission = world.Rate(infectionRate)
	})
	if err != nil {
		return nil, fmt.Errorf("one location scenario: %w", err)
	}
	if numInfected > len(people) {
		numInfected = len(people)
	}
	for i := 0; i < numInfected; i++ {
		people[i].Infect()
	}

	return &OneLocation{
		model:       m,
		people:      people,
		home:        home,
		initialRate: infectionRate,
	}, nil
}

// Model returns the underlying simulation model.
func (s *OneLocation) Model() *engine.Model { return s.model }

// Home returns the single location of the scenario.
func (s *OneLocation) Home() *world.Location { return s.home }

// People returns the population in id order.
func (s *OneLocation) People() []*world.Person { return s.people }

// Control returns the current restriction.
func (s *OneLocation) Control() float64 { return s.control }

// SetControl scales the infection rate to initial*(1-u). It takes effect on
// the next tick's transmission draw.
func (s *OneLocation) SetControl(u float64) {
	s.control = u
	s.home.SetTransmission(world.Rate(s.initialRate * (1 - u)))
}

// Simulate advances the scenario by the given simulated interval.
func (s *OneLocation) Simulate(ctx context.Context, interval time.Duration) error {
	return s.model.Run(ctx, interval)
}
