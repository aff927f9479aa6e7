//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/core"
)

// newContainerStore starts a throwaway PostgreSQL container and opens a
// Store against it.
func newContainerStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("epidexus"),
		tcpostgres.WithUsername("epidexus"),
		tcpostgres.WithPassword("epidexus"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreIntegration(t *testing.T) {
	s := newContainerStore(t)
	ctx := context.Background()

	start := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	run := core.Run{
		ID:           "run-1",
		Scenario:     "onelocation",
		Seed:         42,
		Start:        start,
		StepDuration: time.Hour,
		Status:       core.RunStatusRunning,
		CreatedAt:    start,
		UpdatedAt:    start,
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Scenario, got.Scenario)
	assert.Equal(t, run.StepDuration, got.StepDuration)
	assert.True(t, run.Start.Equal(got.Start))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AppendSample(ctx, core.SEIRSample{
			RunID:       "run-1",
			Day:         start.AddDate(0, 0, i+1),
			Susceptible: 10 - i,
			Exposed:     i,
		}))
	}

	samples, err := s.Samples(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, 10, samples[0].Susceptible)
	assert.Equal(t, 2, samples[2].Exposed)

	run.Status = core.RunStatusCompleted
	require.NoError(t, s.SaveRun(ctx, run))
	got, err = s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusCompleted, got.Status)

	_, err = s.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, collect.ErrRunNotFound)

	err = s.AppendSample(ctx, core.SEIRSample{RunID: "missing", Day: start})
	assert.ErrorIs(t, err, collect.ErrRunNotFound)
}
