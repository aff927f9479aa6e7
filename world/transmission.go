package world

import (
	"fmt"
	"math"
	"time"
)

// TransmissionMode selects how the per-tick infection pressure at a
// location is parameterized.
type TransmissionMode int

const (
	// TransmissionRate treats the parameter as an hourly infection rate
	// per infected person in an otherwise susceptible crowd.
	TransmissionRate TransmissionMode = iota
	// TransmissionProbability treats the parameter as the probability of
	// catching the infection from a single infected person during one tick.
	TransmissionProbability
)

// String implements the fmt.Stringer interface.
func (m TransmissionMode) String() string {
	switch m {
	case TransmissionRate:
		return "rate"
	case TransmissionProbability:
		return "probability"
	default:
		return "unknown"
	}
}

// Transmission describes the infectiousness of a location. The zero value
// is a probability of zero, which never produces an exposure.
type Transmission struct {
	Mode  TransmissionMode
	Value float64
}

// Rate returns a transmission model driven by an hourly infection rate.
// The rate scales with the fraction of infected persons present, so a
// crowd diluted with many healthy visitors exerts less pressure per
// susceptible than a small infected household.
func Rate(perHour float64) Transmission {
	return Transmission{Mode: TransmissionRate, Value: perHour}
}

// Probability returns a transmission model driven by a fixed per-tick,
// per-contact infection probability.
func Probability(p float64) Transmission {
	return Transmission{Mode: TransmissionProbability, Value: p}
}

// NoInfectionProbability returns the probability that one susceptible
// person escapes infection during a tick of the given duration, with
// infected out of present persons at the location. A value of 1 means the
// tick is guaranteed harmless.
func (t Transmission) NoInfectionProbability(step time.Duration, infected, present int) float64 {
	if present == 0 || infected == 0 {
		return 1
	}
	switch t.Mode {
	case TransmissionProbability:
		return math.Pow(1-t.Value, float64(infected))
	default:
		perSecond := t.Value / 3600
		return math.Exp(-step.Seconds() * perSecond * float64(infected) / float64(present))
	}
}

// String implements the fmt.Stringer interface.
func (t Transmission) String() string {
	return fmt.Sprintf("%s %g", t.Mode, t.Value)
}
