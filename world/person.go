package world

import (
	"fmt"
	"time"

	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/metrics"
	"github.com/kdhansen/epidexus/seir"
)

// Gender is the recorded gender of a person. It carries no simulation
// semantics but is kept for demographic reporting.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
)

// String implements the fmt.Stringer interface.
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "Unknown"
	}
}

// PersonOptions configures a new person.
type PersonOptions struct {
	// Age in whole years. Defaults to 0.
	Age int

	// Gender of the person. Defaults to GenderUnknown.
	Gender Gender

	// Stage is the initial infection compartment. Defaults to
	// Susceptible.
	Stage seir.Stage

	// InfectedAt is the exposure time backing a non-susceptible initial
	// stage. Defaults to the clock's current time, so a person starting
	// Exposed serves the full incubation period from construction.
	InfectedAt time.Time

	// Incubation overrides the default time from exposure to
	// infectiousness when positive.
	Incubation time.Duration

	// Recovering overrides the default time from infectiousness to
	// recovery when positive.
	Recovering time.Duration

	// Metrics receives stage transition and denied relocation counts.
	// May be nil.
	Metrics *metrics.Metrics
}

// Person is one simulated individual. It implements core.Agent: its
// evaluation phase advances the disease timeline, and its movement phase
// resolves the itinerary and relocates.
type Person struct {
	id        int
	age       int
	gender    Gender
	clock     *core.Clock
	home      *Location
	current   *Location
	itinerary *Itinerary
	state     *seir.State
	metrics   *metrics.Metrics
}

var _ core.Agent = (*Person)(nil)

// NewPerson returns a person placed at its home location. It fails with
// ErrHomeUnavailable when the home denies entry, because a person without a
// valid fallback location cannot take part in the simulation.
func NewPerson(id int, home *Location, clock *core.Clock, optFns ...func(o *PersonOptions)) (*Person, error) {
	opts := PersonOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	p := &Person{
		id:        id,
		age:       opts.Age,
		gender:    opts.Gender,
		clock:     clock,
		home:      home,
		itinerary: NewItinerary(),
		state: seir.New(func(o *seir.Options) {
			if opts.Incubation > 0 {
				o.Incubation = opts.Incubation
			}
			if opts.Recovering > 0 {
				o.Recovering = opts.Recovering
			}
			if opts.Stage != seir.Susceptible {
				o.Stage = opts.Stage
				o.InfectedAt = opts.InfectedAt
				if o.InfectedAt.IsZero() {
					o.InfectedAt = clock.Now()
				}
			}
		}),
		metrics: opts.Metrics,
	}

	if home == nil || !home.GoHere(p) {
		return nil, fmt.Errorf("person %d: %w", id, ErrHomeUnavailable)
	}
	p.current = home

	return p, nil
}

// ID returns the model-unique identifier of the person.
func (p *Person) ID() int {
	return p.id
}

// Age returns the age in whole years.
func (p *Person) Age() int {
	return p.age
}

// SetAge sets the age in whole years.
func (p *Person) SetAge(age int) {
	p.age = age
}

// Gender returns the recorded gender.
func (p *Person) Gender() Gender {
	return p.gender
}

// Home returns the fallback location of the person.
func (p *Person) Home() *Location {
	return p.home
}

// CurrentLocation returns the location the person is registered at.
func (p *Person) CurrentLocation() *Location {
	return p.current
}

// Itinerary returns the personal schedule. The itinerary is owned by the
// person; callers may add entries but must not share it between persons.
func (p *Person) Itinerary() *Itinerary {
	return p.itinerary
}

// State returns the infection state of the person.
func (p *Person) State() *seir.State {
	return p.state
}

// Infect exposes the person at the current simulation time. It reports
// whether the exposure took, which it only does for a susceptible person.
func (p *Person) Infect() bool {
	return p.state.Infect(p.clock.Now())
}

// Step advances the disease timeline to the current simulation time.
func (p *Person) Step() {
	before := p.state.Stage()
	p.state.AdvanceTime(p.clock.Now())
	after := p.state.Stage()
	if before == after {
		return
	}
	if before == seir.Exposed {
		p.metrics.RecordStageTransition(seir.Infected.String())
	}
	if after == seir.Recovered {
		p.metrics.RecordStageTransition(seir.Recovered.String())
	}
}

// Advance moves the person to where the itinerary says it should be, or
// home when no entry is active.
func (p *Person) Advance() {
	next := p.itinerary.Resolve(p.clock.Now())
	if next == nil {
		next = p.home
	}
	p.changeLocation(next)
}

// changeLocation registers the person at next before leaving the current
// location, so a denied entry leaves the person where it was.
func (p *Person) changeLocation(next *Location) {
	if next == p.current {
		return
	}
	if !next.GoHere(p) {
		p.metrics.RecordRelocationDenied()
		return
	}
	p.current.LeaveHere(p)
	p.current = next
}

// String implements the fmt.Stringer interface.
func (p *Person) String() string {
	return fmt.Sprintf("Person %d, age %d, %s, %s", p.id, p.age, p.gender, p.state)
}
