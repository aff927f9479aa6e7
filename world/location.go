package world

import (
	"fmt"
	"math/rand"

	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/metrics"
)

// AccessPolicy decides whether a person may enter a location. Policies are
// consulted on every entry attempt, including the initial placement of a
// person at its home.
type AccessPolicy interface {
	MayEnter(p *Person) bool
}

// AccessPolicyFunc adapts an ordinary function to the AccessPolicy
// interface.
type AccessPolicyFunc func(p *Person) bool

// MayEnter implements the AccessPolicy interface.
func (f AccessPolicyFunc) MayEnter(p *Person) bool {
	return f(p)
}

// AllowAll is the default access policy. It admits everybody.
var AllowAll AccessPolicy = AccessPolicyFunc(func(*Person) bool { return true })

// LocationOptions configures a location.
type LocationOptions struct {
	// Transmission is the infectiousness of the location. The default
	// transmits nothing.
	Transmission Transmission

	// AccessPolicy guards entry. The default admits everybody.
	AccessPolicy AccessPolicy

	// Metrics receives exposure counts. May be nil.
	Metrics *metrics.Metrics
}

// Location is a place where persons meet and the infection spreads. It
// implements core.Agent: its evaluation phase draws new exposures from the
// persons present, and its movement phase does nothing.
type Location struct {
	name         string
	clock        *core.Clock
	rng          *rand.Rand
	transmission Transmission
	policy       AccessPolicy
	metrics      *metrics.Metrics

	// personsHere keeps registration order so that random draws are
	// consumed deterministically for a fixed seed.
	personsHere []*Person
}

var _ core.Agent = (*Location)(nil)

// NewLocation returns a location bound to the simulation clock and random
// source.
func NewLocation(name string, clock *core.Clock, rng *rand.Rand, optFns ...func(o *LocationOptions)) *Location {
	opts := LocationOptions{
		Transmission: Probability(0),
		AccessPolicy: AllowAll,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.AccessPolicy == nil {
		opts.AccessPolicy = AllowAll
	}
	return &Location{
		name:         name,
		clock:        clock,
		rng:          rng,
		transmission: opts.Transmission,
		policy:       opts.AccessPolicy,
		metrics:      opts.Metrics,
	}
}

// Name returns the display name of the location.
func (l *Location) Name() string {
	return l.name
}

// Transmission returns the current transmission model.
func (l *Location) Transmission() Transmission {
	return l.transmission
}

// SetTransmission replaces the transmission model. Scenario code uses this
// to dial infectiousness up or down while a simulation is running.
func (l *Location) SetTransmission(t Transmission) {
	l.transmission = t
}

// SetAccessPolicy replaces the entry policy. A nil policy admits everybody.
func (l *Location) SetAccessPolicy(p AccessPolicy) {
	if p == nil {
		p = AllowAll
	}
	l.policy = p
}

// GoHere registers a person at the location. It returns false, and leaves
// the crowd unchanged, when the access policy denies entry.
func (l *Location) GoHere(p *Person) bool {
	if !l.policy.MayEnter(p) {
		return false
	}
	l.personsHere = append(l.personsHere, p)
	return true
}

// LeaveHere removes a person from the location. Unknown persons are
// ignored.
func (l *Location) LeaveHere(p *Person) {
	for i, q := range l.personsHere {
		if q == p {
			l.personsHere = append(l.personsHere[:i], l.personsHere[i+1:]...)
			return
		}
	}
}

// PersonsHere returns a copy of the persons currently registered at the
// location, in registration order.
func (l *Location) PersonsHere() []*Person {
	out := make([]*Person, len(l.personsHere))
	copy(out, l.personsHere)
	return out
}

// Occupancy returns the number of persons currently at the location.
func (l *Location) Occupancy() int {
	return len(l.personsHere)
}

// Step draws the exposures for this tick from the crowd present before
// anyone moves. Each susceptible person rolls once against the probability
// of escaping infection; a roll above it converts the person to exposed.
func (l *Location) Step() {
	n := len(l.personsHere)
	if n == 0 {
		return
	}
	infected := 0
	for _, p := range l.personsHere {
		if p.State().IsInfected() {
			infected++
		}
	}
	if infected == 0 {
		return
	}
	p0 := l.transmission.NoInfectionProbability(l.clock.StepDuration(), infected, n)
	for _, p := range l.personsHere {
		if !p.State().IsSusceptible() {
			continue
		}
		if l.rng.Float64() > p0 {
			if p.Infect() {
				l.metrics.RecordExposure(l.name)
			}
		}
	}
}

// Advance implements the core.Agent interface. Locations do not move.
func (l *Location) Advance() {}

// String implements the fmt.Stringer interface.
func (l *Location) String() string {
	return fmt.Sprintf("Location %s, %d persons here", l.name, len(l.personsHere))
}
