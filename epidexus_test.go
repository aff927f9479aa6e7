package epidexus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/engine"
	"github.com/kdhansen/epidexus/results"
	"github.com/kdhansen/epidexus/world"
	"github.com/kdhansen/epidexus/worldgen"
)

var testStart = time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, e *Epidexus) *engine.Model {
	t.Helper()
	m := e.NewModel(testStart, func(o *engine.Options) {
		o.StepDuration = time.Hour
		o.Seed = 9
		o.Scenario = "facade-test"
	})
	people, _, err := worldgen.CreateFamily(m, 6, func(o *worldgen.FamilyOptions) {
		o.Transmission = world.Rate(20)
	})
	require.NoError(t, err)
	people[0].Infect()
	return m
}

func TestRunModelRecordsRunAndSamples(t *testing.T) {
	e := New()
	m := newTestModel(t, e)
	ctx := context.Background()

	require.NoError(t, e.RunModel(ctx, m, 5*24*time.Hour))

	run, err := e.RunStore().GetRun(ctx, m.RunID())
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusCompleted, run.Status)
	assert.Equal(t, "facade-test", run.Scenario)
	assert.True(t, testStart.Equal(run.Start))

	samples, err := e.RunStore().Samples(ctx, m.RunID())
	require.NoError(t, err)
	assert.Len(t, samples, 5)
}

func TestRunModelMarksCanceledRunFailed(t *testing.T) {
	e := New()
	m := newTestModel(t, e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.RunModel(ctx, m, 24*time.Hour)
	require.ErrorIs(t, err, context.Canceled)

	run, getErr := e.RunStore().GetRun(context.Background(), m.RunID())
	require.NoError(t, getErr)
	assert.Equal(t, core.RunStatusFailed, run.Status)
}

func TestExportCSV(t *testing.T) {
	e := New()
	m := newTestModel(t, e)
	ctx := context.Background()

	require.NoError(t, e.RunModel(ctx, m, 3*24*time.Hour))
	require.NoError(t, e.ExportCSV(ctx, m.RunID()))

	data, err := e.ResultStore().Get(ctx, m.RunID(), SeriesResultName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id,day,susceptible,exposed,infected,recovered")
	assert.Contains(t, string(data), "2020-03-02")
}

func TestExportCSVUnknownRun(t *testing.T) {
	e := New()
	err := e.ExportCSV(context.Background(), "missing")
	assert.Error(t, err)

	_, err = e.ResultStore().Get(context.Background(), "missing", SeriesResultName)
	assert.ErrorIs(t, err, results.ErrNotFound)
}
