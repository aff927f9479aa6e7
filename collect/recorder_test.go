package collect

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdhansen/epidexus/core"
)

func TestSeriesKeepsArrivalOrder(t *testing.T) {
	ctx := context.Background()
	series := NewSeries()

	for day := 0; day < 4; day++ {
		require.NoError(t, series.Record(ctx, testSample("run-1", day)))
	}

	require.Equal(t, 4, series.Len())
	samples := series.Samples()
	for i, s := range samples {
		assert.Equal(t, 5+i, s.Infected, "sample %d out of order", i)
	}

	// Mutating the returned slice must not leak into the series.
	samples[0].Infected = 999
	assert.NotEqual(t, 999, series.Samples()[0].Infected, "Samples must return a copy")
}

func TestStoreRecorder(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.SaveRun(ctx, testRun("run-1")))

	rec := NewStoreRecorder(store)
	require.NoError(t, rec.Record(ctx, testSample("run-1", 0)))

	samples, err := store.Samples(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestMultiRecorderFansOut(t *testing.T) {
	ctx := context.Background()
	a := NewSeries()
	b := NewSeries()

	rec := NewMultiRecorder(a, b)
	require.NoError(t, rec.Record(ctx, testSample("run-1", 0)))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestMultiRecorderAttemptsAll(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	series := NewSeries()

	rec := NewMultiRecorder(
		RecorderFunc(func(context.Context, core.SEIRSample) error { return boom }),
		series,
	)

	err := rec.Record(ctx, testSample("run-1", 0))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, series.Len(), "the healthy recorder still receives the sample")
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer

	samples := []core.SEIRSample{testSample("run-1", 0), testSample("run-1", 1)}
	require.NoError(t, EncodeCSV(&buf, samples))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "header plus 2 rows")
	assert.Equal(t, "run_id,day,susceptible,exposed,infected,recovered", lines[0])
	assert.Equal(t, "run-1,2020-09-01,90,5,5,0", lines[1])
}
