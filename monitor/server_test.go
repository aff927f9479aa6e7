package monitor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/metrics"
)

func newTestServer(t *testing.T) (*httptest.Server, *collect.InMemoryStore) {
	t.Helper()

	store := collect.NewInMemoryStore()
	reg := prometheus.NewRegistry()
	metrics.NewWith(reg).RecordExposure("Home-1")

	srv := NewServer(store, func(o *Options) {
		o.Gatherer = reg
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func seedRun(t *testing.T, store *collect.InMemoryStore) core.Run {
	t.Helper()
	start := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	run := core.Run{
		ID:           "run-1",
		Scenario:     "onelocation",
		Seed:         42,
		Start:        start,
		StepDuration: time.Hour,
		Status:       core.RunStatusCompleted,
		CreatedAt:    start,
		UpdatedAt:    start,
	}
	require.NoError(t, store.SaveRun(context.Background(), run))
	for i := 0; i < 2; i++ {
		require.NoError(t, store.AppendSample(context.Background(), core.SEIRSample{
			RunID:       run.ID,
			Day:         start.AddDate(0, 0, i+1),
			Susceptible: 9 - i,
			Exposed:     1 + i,
		}))
	}
	return run
}

func TestServerHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestServerListRuns(t *testing.T) {
	ts, store := newTestServer(t)
	seedRun(t, store)

	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var runs []core.Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "onelocation", runs[0].Scenario)
}

func TestServerListRunsEmpty(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(body))
}

func TestServerSamplesJSON(t *testing.T) {
	ts, store := newTestServer(t)
	seedRun(t, store)

	resp, err := http.Get(ts.URL + "/api/runs/run-1/samples")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var samples []core.SEIRSample
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&samples))
	require.Len(t, samples, 2)
	assert.Equal(t, 9, samples[0].Susceptible)
	assert.Equal(t, 2, samples[1].Exposed)
}

func TestServerSamplesCSV(t *testing.T) {
	ts, store := newTestServer(t)
	seedRun(t, store)

	resp, err := http.Get(ts.URL + "/api/runs/run-1/samples?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "run_id,day,susceptible,exposed,infected,recovered")
	assert.Contains(t, string(body), "run-1,2020-03-02,9,1,0,0")
}

func TestServerSamplesNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/runs/missing/samples")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "epidexus_exposures_total")
}

func TestServerStartShutsDownOnContextCancel(t *testing.T) {
	srv := NewServer(collect.NewInMemoryStore(), func(o *Options) {
		o.Addr = "127.0.0.1:0"
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
