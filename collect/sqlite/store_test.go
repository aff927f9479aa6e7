package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRun(id string) core.Run {
	now := time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC)
	return core.Run{
		ID:           id,
		Scenario:     "onelocation",
		Seed:         42,
		Start:        now,
		StepDuration: time.Hour,
		Status:       core.RunStatusRunning,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStoreSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := testRun("run-1")
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Scenario, got.Scenario)
	assert.Equal(t, run.Seed, got.Seed)
	assert.Equal(t, run.StepDuration, got.StepDuration)
	assert.Equal(t, run.Status, got.Status)
	assert.True(t, run.Start.Equal(got.Start))
}

func TestStoreSaveRunUpdatesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := testRun("run-1")
	require.NoError(t, s.SaveRun(ctx, run))

	run.Status = core.RunStatusCompleted
	run.UpdatedAt = run.UpdatedAt.Add(time.Minute)
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusCompleted, got.Status)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStoreGetRunNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, collect.ErrRunNotFound)
}

func TestStoreListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testRun("run-a")
	b := testRun("run-b")
	b.CreatedAt = a.CreatedAt.Add(time.Hour)
	require.NoError(t, s.SaveRun(ctx, a))
	require.NoError(t, s.SaveRun(ctx, b))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-a", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)
}

func TestStoreSamplesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := testRun("run-1")
	require.NoError(t, s.SaveRun(ctx, run))

	day := time.Date(2020, time.March, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.AppendSample(ctx, core.SEIRSample{
			RunID:       "run-1",
			Day:         day.AddDate(0, 0, i),
			Susceptible: 10 - i,
			Exposed:     i,
		}))
	}

	samples, err := s.Samples(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, samples, 3)
	for i, sm := range samples {
		assert.Equal(t, "run-1", sm.RunID)
		assert.True(t, day.AddDate(0, 0, i).Equal(sm.Day))
		assert.Equal(t, 10-i, sm.Susceptible)
		assert.Equal(t, i, sm.Exposed)
	}
}

func TestStoreAppendSampleIsIdempotentPerDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, testRun("run-1")))

	day := time.Date(2020, time.March, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.AppendSample(ctx, core.SEIRSample{RunID: "run-1", Day: day, Susceptible: 9}))
	require.NoError(t, s.AppendSample(ctx, core.SEIRSample{RunID: "run-1", Day: day, Susceptible: 8, Exposed: 1}))

	samples, err := s.Samples(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 8, samples[0].Susceptible)
	assert.Equal(t, 1, samples[0].Exposed)
}

func TestStoreSamplesForUnknownRun(t *testing.T) {
	s := newTestStore(t)

	err := s.AppendSample(context.Background(), core.SEIRSample{RunID: "missing"})
	assert.ErrorIs(t, err, collect.ErrRunNotFound)

	_, err = s.Samples(context.Background(), "missing")
	assert.ErrorIs(t, err, collect.ErrRunNotFound)
}
