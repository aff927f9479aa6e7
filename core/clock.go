package core

import "time"

// DefaultStepDuration is the simulation resolution used when a model is
// constructed without an explicit step.
const DefaultStepDuration = 15 * time.Minute

// Clock is the single time source of a simulation. Time only moves forward,
// and only in exact multiples of the configured step, so every agent observes
// the same step-aligned timestamps.
//
// Clock is not safe for concurrent use; a simulation owns exactly one and
// advances it from a single goroutine.
type Clock struct {
	now   time.Time
	step  time.Duration
	ticks int64
}

// NewClock returns a clock positioned at start. A non-positive step falls
// back to DefaultStepDuration.
func NewClock(start time.Time, step time.Duration) *Clock {
	if step <= 0 {
		step = DefaultStepDuration
	}
	return &Clock{now: start, step: step}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time { return c.now }

// StepDuration returns the fixed tick length.
func (c *Clock) StepDuration() time.Duration { return c.step }

// Ticks returns how many times the clock has advanced.
func (c *Clock) Ticks() int64 { return c.ticks }

// Advance moves the clock forward by one step and returns the new time.
func (c *Clock) Advance() time.Time {
	c.now = c.now.Add(c.step)
	c.ticks++
	return c.now
}

// SameDay reports whether two timestamps fall on the same calendar day.
// Day boundaries drive the once-per-day SEIR sampling.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
