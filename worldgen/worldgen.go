package worldgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/kdhansen/epidexus/engine"
	"github.com/kdhansen/epidexus/world"
)

// ErrFamilySize is returned when a family factory is asked for a
// non-positive number of members.
var ErrFamilySize = errors.New("family must have at least one member")

// DefaultHomeTransmission is the infectiousness of a generated home when the
// caller does not override it: a modest per-tick household contact
// probability.
var DefaultHomeTransmission = world.Probability(0.05)

// FamilyOptions configures the family factories.
type FamilyOptions struct {
	// Transmission is the infectiousness of the generated home.
	Transmission world.Transmission
}

// CreateFamily creates a home and n people living in it.
//
// The home is named after the first person's model-unique id, all members
// are registered with the model, and both the members and the home are
// returned so schools or workplaces can claim people afterwards.
func CreateFamily(m *engine.Model, n int, optFns ...func(o *FamilyOptions)) ([]*world.Person, *world.Location, error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("create family of %d: %w", n, ErrFamilySize)
	}
	opts := FamilyOptions{Transmission: DefaultHomeTransmission}
	for _, fn := range optFns {
		fn(&opts)
	}

	primaryID := m.NextID()
	home := world.NewLocation(fmt.Sprintf("Home-%d", primaryID), m.Clock(), m.RNG(), func(o *world.LocationOptions) {
		o.Transmission = opts.Transmission
		o.Metrics = m.Metrics()
	})
	m.AddLocation(home)

	people := make([]*world.Person, 0, n)
	for i := 0; i < n; i++ {
		id := primaryID
		if i > 0 {
			id = m.NextID()
		}
		p, err := world.NewPerson(id, home, m.Clock(), func(o *world.PersonOptions) {
			o.Metrics = m.Metrics()
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create family member: %w", err)
		}
		m.AddPerson(p)
		people = append(people, p)
	}
	return people, home, nil
}

// FamilyDist describes the composition of a randomly drawn family as normal
// distributions over the number and age of adults and children.
type FamilyDist struct {
	NumAdultsMean float64
	NumAdultsSD   float64
	AgeAdultMean  float64
	AgeAdultSD    float64

	NumChildrenMean float64
	NumChildrenSD   float64
	AgeChildMean    float64
	AgeChildSD      float64
}

// CreateFamilyDist creates a home and a family drawn from the given
// distributions, using the model's random source so a seeded run generates
// the same world every time.
//
// At least one adult is always generated; drawn ages are rounded and clamped
// at zero.
func CreateFamilyDist(m *engine.Model, dist FamilyDist, optFns ...func(o *FamilyOptions)) ([]*world.Person, *world.Location, error) {
	opts := FamilyOptions{Transmission: DefaultHomeTransmission}
	for _, fn := range optFns {
		fn(&opts)
	}

	primaryID := m.NextID()
	home := world.NewLocation(fmt.Sprintf("Home-%d", primaryID), m.Clock(), m.RNG(), func(o *world.LocationOptions) {
		o.Transmission = opts.Transmission
		o.Metrics = m.Metrics()
	})
	m.AddLocation(home)

	numAdults := drawCount(m, dist.NumAdultsMean, dist.NumAdultsSD)
	if numAdults < 1 {
		numAdults = 1
	}
	numChildren := drawCount(m, dist.NumChildrenMean, dist.NumChildrenSD)

	var people []*world.Person
	addMember := func(id int, ageMean, ageSD float64) error {
		age := drawAge(m, ageMean, ageSD)
		p, err := world.NewPerson(id, home, m.Clock(), func(o *world.PersonOptions) {
			o.Age = age
			o.Metrics = m.Metrics()
		})
		if err != nil {
			return fmt.Errorf("create family member: %w", err)
		}
		m.AddPerson(p)
		people = append(people, p)
		return nil
	}

	if err := addMember(primaryID, dist.AgeAdultMean, dist.AgeAdultSD); err != nil {
		return nil, nil, err
	}
	for i := 1; i < numAdults; i++ {
		if err := addMember(m.NextID(), dist.AgeAdultMean, dist.AgeAdultSD); err != nil {
			return nil, nil, err
		}
	}
	for i := 0; i < numChildren; i++ {
		if err := addMember(m.NextID(), dist.AgeChildMean, dist.AgeChildSD); err != nil {
			return nil, nil, err
		}
	}
	return people, home, nil
}

// drawCount rounds one normal draw to a headcount, never below zero.
func drawCount(m *engine.Model, mean, sd float64) int {
	n := int(math.Round(m.RNG().NormFloat64()*sd + mean))
	if n < 0 {
		return 0
	}
	return n
}

// drawAge rounds one normal draw to an age in whole years, never below zero.
//
// TODO: ages should come from a non-negative distribution such as a gamma
// instead of clamping a normal at zero.
func drawAge(m *engine.Model, mean, sd float64) int {
	age := int(math.Round(m.RNG().NormFloat64()*sd + mean))
	if age < 0 {
		return 0
	}
	return age
}

// ClaimByAge hands the itinerary entry to up to maxCount people whose age
// lies in [minAge, maxAge], the way a school claims pupils or a workplace
// claims employees. It returns the people left unclaimed, so the remainder
// can be offered to further claimants.
func ClaimByAge(people []*world.Person, entry world.Entry, minAge, maxAge, maxCount int) []*world.Person {
	claimed := 0
	var unclaimed []*world.Person
	for _, p := range people {
		if claimed < maxCount && minAge <= p.Age() && p.Age() <= maxAge {
			p.Itinerary().AddEntry(entry)
			claimed++
			continue
		}
		unclaimed = append(unclaimed, p)
	}
	return unclaimed
}
