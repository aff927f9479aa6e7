package core

import (
	"context"
	"time"
)

// RunStatus tracks a run through its lifecycle.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the persistent record of one simulation: its identity, the scenario
// that built it, the seed that makes it reproducible, and its clock setup.
type Run struct {
	ID           string        `json:"id"`
	Scenario     string        `json:"scenario"`
	Seed         int64         `json:"seed"`
	Start        time.Time     `json:"start"`
	StepDuration time.Duration `json:"step_duration"`
	Status       RunStatus     `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// SEIRSample is one daily census of the population: how many persons sit in
// each compartment at a simulated day boundary.
type SEIRSample struct {
	RunID       string    `json:"run_id"`
	Day         time.Time `json:"day"`
	Susceptible int       `json:"susceptible"`
	Exposed     int       `json:"exposed"`
	Infected    int       `json:"infected"`
	Recovered   int       `json:"recovered"`
}

// Total returns the population size covered by the sample.
func (s SEIRSample) Total() int {
	return s.Susceptible + s.Exposed + s.Infected + s.Recovered
}

// RunStore persists runs and their daily sample series. Implementations must
// be safe for concurrent use: ensemble replicates record into one store, and
// the monitor reads while simulations write.
type RunStore interface {
	// SaveRun inserts the run or updates an existing record with the same ID.
	SaveRun(ctx context.Context, run Run) error
	// GetRun returns the run or an implementation's not-found sentinel.
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns all runs ordered by creation time.
	ListRuns(ctx context.Context) ([]Run, error)
	// AppendSample adds one daily sample to the run's series.
	AppendSample(ctx context.Context, sample SEIRSample) error
	// Samples returns the run's series ordered by day.
	Samples(ctx context.Context, runID string) ([]SEIRSample, error)
}
