package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/seir"
	"github.com/kdhansen/epidexus/world"
)

var testStart = time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestModelClockAdvancesByFixedStep(t *testing.T) {
	m := New(testStart, func(o *Options) {
		o.StepDuration = time.Hour
	})

	require.NoError(t, m.Step(context.Background()))
	require.NoError(t, m.Step(context.Background()))

	assert.Equal(t, testStart.Add(2*time.Hour), m.Clock().Now())
	assert.Equal(t, int64(2), m.Clock().Ticks())
}

func TestModelNextIDCountsFromOne(t *testing.T) {
	m := New(testStart)
	assert.Equal(t, 1, m.NextID())
	assert.Equal(t, 2, m.NextID())
	assert.Equal(t, 3, m.NextID())
}

func TestModelDailyCensusIsRecordedOncePerDay(t *testing.T) {
	series := collect.NewSeries()
	m := New(testStart, func(o *Options) {
		o.StepDuration = time.Hour
		o.Recorder = series
		o.Scenario = "census"
	})

	home := world.NewLocation("Home", m.Clock(), m.RNG())
	m.AddLocation(home)
	p, err := world.NewPerson(m.NextID(), home, m.Clock())
	require.NoError(t, err)
	m.AddPerson(p)

	// Three simulated days at one-hour steps: the census fires on each of
	// the three midnight crossings, not on every tick.
	require.NoError(t, m.Run(context.Background(), 72*time.Hour))

	samples := series.Samples()
	require.Len(t, samples, 3)
	for i, s := range samples {
		assert.Equal(t, m.RunID(), s.RunID)
		assert.Equal(t, testStart.AddDate(0, 0, i+1), s.Day)
		assert.Equal(t, 1, s.Susceptible)
		assert.Equal(t, 1, s.Total())
	}
}

func TestModelSEIRCounts(t *testing.T) {
	m := New(testStart)

	home := world.NewLocation("Home", m.Clock(), m.RNG())
	m.AddLocation(home)
	for i := 0; i < 4; i++ {
		p, err := world.NewPerson(m.NextID(), home, m.Clock())
		require.NoError(t, err)
		m.AddPerson(p)
	}
	m.Persons()[0].Infect()

	s := m.SEIRCounts()
	assert.Equal(t, 3, s.Susceptible)
	assert.Equal(t, 1, s.Exposed)
	assert.Equal(t, 0, s.Infected)
	assert.Equal(t, 0, s.Recovered)
	assert.Equal(t, 4, s.Total())
}

func TestModelRunUntilHonorsContext(t *testing.T) {
	m := New(testStart)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, 24*time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), m.Clock().Ticks())
}

func TestModelRunTicks(t *testing.T) {
	m := New(testStart, func(o *Options) {
		o.StepDuration = 15 * time.Minute
	})
	require.NoError(t, m.RunTicks(context.Background(), 5))
	assert.Equal(t, int64(5), m.Clock().Ticks())
	assert.Equal(t, testStart.Add(75*time.Minute), m.Clock().Now())
}

// End-to-end epidemic: one location, two people, one pre-infected person and
// a transmission rate high enough that escaping infection is practically
// impossible. The second person must be exposed after one tick, infectious
// once the incubation period has passed, and recovered after the recovering
// period on top of that.
func TestModelEndToEndEpidemic(t *testing.T) {
	const (
		incubation = 2 * 24 * time.Hour
		recovering = 3 * 24 * time.Hour
	)

	m := New(testStart, func(o *Options) {
		o.StepDuration = time.Hour
		o.Seed = 42
	})

	home := world.NewLocation("Home", m.Clock(), m.RNG(), func(o *world.LocationOptions) {
		o.Transmission = world.Rate(1e9)
	})
	m.AddLocation(home)

	patientZero, err := world.NewPerson(m.NextID(), home, m.Clock(), func(o *world.PersonOptions) {
		o.Incubation = incubation
		o.Recovering = recovering
	})
	require.NoError(t, err)
	m.AddPerson(patientZero)

	contact, err := world.NewPerson(m.NextID(), home, m.Clock(), func(o *world.PersonOptions) {
		o.Incubation = incubation
		o.Recovering = recovering
	})
	require.NoError(t, err)
	m.AddPerson(contact)

	// Patient zero is infectious from the start.
	require.True(t, patientZero.State().Infect(testStart.Add(-incubation-time.Hour)))
	patientZero.State().AdvanceTime(testStart)
	require.Equal(t, seir.Infected, patientZero.State().Stage())

	require.NoError(t, m.Step(context.Background()))
	assert.Equal(t, seir.Exposed, contact.State().Stage())

	require.NoError(t, m.Run(context.Background(), incubation+time.Hour))
	assert.Equal(t, seir.Infected, contact.State().Stage())

	require.NoError(t, m.Run(context.Background(), recovering+time.Hour))
	assert.Equal(t, seir.Recovered, contact.State().Stage())
}
