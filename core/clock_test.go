package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockAdvancesByExactSteps(t *testing.T) {
	start := time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(start, 15*time.Minute)

	assert.Equal(t, start, c.Now())
	assert.EqualValues(t, 0, c.Ticks())

	for i := 1; i <= 8; i++ {
		now := c.Advance()
		assert.Equal(t, start.Add(time.Duration(i)*15*time.Minute), now)
	}
	assert.EqualValues(t, 8, c.Ticks())
	assert.Equal(t, start.Add(2*time.Hour), c.Now())
}

func TestClockDefaultStep(t *testing.T) {
	c := NewClock(time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC), 0)
	assert.Equal(t, DefaultStepDuration, c.StepDuration())
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2020, 4, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2020, 4, 1, 23, 45, 0, 0, time.UTC)
	nextMidnight := time.Date(2020, 4, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextMidnight))
}
