package seir

import "time"

// Stage is one of the four epidemiological compartments.
type Stage int

const (
	Susceptible Stage = iota
	Exposed
	Infected
	Recovered
)

// String returns the capitalized compartment name.
func (s Stage) String() string {
	switch s {
	case Susceptible:
		return "Susceptible"
	case Exposed:
		return "Exposed"
	case Infected:
		return "Infected"
	case Recovered:
		return "Recovered"
	default:
		return "Unknown"
	}
}

// Default disease timeline, roughly calibrated to an influenza-like illness.
const (
	DefaultIncubation = 4 * 24 * time.Hour
	DefaultRecovering = 10 * 24 * time.Hour
)

// Options configures a new State.
type Options struct {
	// Incubation is the duration between exposure and becoming infectious.
	Incubation time.Duration
	// Recovering is the duration between becoming infectious and recovery.
	Recovering time.Duration
	// Stage is the initial compartment. Defaults to Susceptible.
	Stage Stage
	// InfectedAt is the exposure time backing a non-susceptible initial
	// stage; AdvanceTime measures the incubation and recovering periods
	// from it. Ignored while Stage is Susceptible.
	InfectedAt time.Time
}

// State tracks and updates the infection of one person.
//
// Stage transitions are monotonic and never skip a compartment within an
// observation: Infect performs S->E exactly once, and AdvanceTime performs
// the time-based E->I and I->R transitions. Everything else is a silent
// no-op, which callers must tolerate.
type State struct {
	stage      Stage
	infectedAt time.Time
	infected   bool
	incubation time.Duration
	recovering time.Duration
}

// New returns a susceptible state with the default timeline; options override
// the incubation and recovering durations, or place the state in a later
// compartment from the start.
func New(optFns ...func(o *Options)) *State {
	opts := Options{
		Incubation: DefaultIncubation,
		Recovering: DefaultRecovering,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &State{
		stage:      Susceptible,
		incubation: opts.Incubation,
		recovering: opts.Recovering,
	}
	if opts.Stage != Susceptible {
		s.stage = opts.Stage
		s.infectedAt = opts.InfectedAt
		s.infected = true
	}
	return s
}

// Stage returns the current compartment.
func (s *State) Stage() Stage { return s.stage }

// IsSusceptible reports whether the person can still be exposed.
func (s *State) IsSusceptible() bool { return s.stage == Susceptible }

// IsInfected reports whether the person is currently infectious.
func (s *State) IsInfected() bool { return s.stage == Infected }

// InfectedAt returns the exposure time; ok is false while the person is
// still susceptible.
func (s *State) InfectedAt() (time.Time, bool) { return s.infectedAt, s.infected }

// Incubation returns the configured incubation duration.
func (s *State) Incubation() time.Duration { return s.incubation }

// Recovering returns the configured recovering duration.
func (s *State) Recovering() time.Duration { return s.recovering }

// Infect transitions Susceptible -> Exposed and records the exposure time.
// It reports whether the transition happened; false means the person was
// already exposed or beyond, which is not an error.
func (s *State) Infect(at time.Time) bool {
	if s.stage != Susceptible {
		return false
	}
	s.stage = Exposed
	s.infectedAt = at
	s.infected = true
	return true
}

// AdvanceTime applies the time-based transitions E->I and I->R. Both
// comparisons are strict: a threshold that equals now does not fire yet,
// keeping behavior identical across step sizes.
//
// The call cascades to a fixpoint, so advancing at t1 and then t2 leaves the
// state exactly as a single advance at t2 would.
func (s *State) AdvanceTime(now time.Time) {
	if s.stage == Exposed && s.infectedAt.Add(s.incubation).Before(now) {
		s.stage = Infected
	}
	if s.stage == Infected && s.infectedAt.Add(s.incubation+s.recovering).Before(now) {
		s.stage = Recovered
	}
}

// String returns the compartment name.
func (s *State) String() string { return s.stage.String() }
