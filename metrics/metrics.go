// Package metrics provides Prometheus observability for simulation runs.
// All recording methods are nil-safe so instrumentation stays optional: a nil
// *Metrics disables collection without any call-site guards.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the simulation engine.
type Metrics struct {
	// New exposures by location name
	Exposures *prometheus.CounterVec

	// Time-based stage transitions by target stage
	StageTransitions *prometheus.CounterVec

	// Relocations refused by an access policy
	RelocationsDenied prometheus.Counter

	// Run lifecycle by scenario
	RunsStarted   *prometheus.CounterVec
	RunsCompleted *prometheus.CounterVec

	// Wall-clock latency of a single tick
	StepLatency prometheus.Histogram

	// Current population by compartment
	Population *prometheus.GaugeVec
}

// New creates a Metrics instance registered on the default Prometheus
// registerer. Call it once per process.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a Metrics instance registered on the given registerer;
// tests pass a private prometheus.NewRegistry().
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Exposures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "epidexus_exposures_total",
			Help: "Total new exposures drawn by the transmission model, by location",
		}, []string{"location"}),

		StageTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "epidexus_stage_transitions_total",
			Help: "Total time-based infection stage transitions, by target stage",
		}, []string{"stage"}),

		RelocationsDenied: factory.NewCounter(prometheus.CounterOpts{
			Name: "epidexus_relocations_denied_total",
			Help: "Total relocations refused by a location access policy",
		}),

		RunsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "epidexus_runs_started_total",
			Help: "Total simulation runs started, by scenario",
		}, []string{"scenario"}),

		RunsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "epidexus_runs_completed_total",
			Help: "Total simulation runs finished, by scenario and status",
		}, []string{"scenario", "status"}),

		StepLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "epidexus_step_duration_seconds",
			Help:    "Wall-clock duration of one simulation tick",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),

		Population: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "epidexus_population",
			Help: "Population of the most recent census, by compartment",
		}, []string{"stage"}),
	}
}

// RecordExposure counts one new exposure at the named location.
func (m *Metrics) RecordExposure(location string) {
	if m != nil {
		m.Exposures.WithLabelValues(location).Inc()
	}
}

// RecordStageTransition counts one E->I or I->R transition.
func (m *Metrics) RecordStageTransition(stage string) {
	if m != nil {
		m.StageTransitions.WithLabelValues(stage).Inc()
	}
}

// RecordRelocationDenied counts one access-policy refusal.
func (m *Metrics) RecordRelocationDenied() {
	if m != nil {
		m.RelocationsDenied.Inc()
	}
}

// RecordRunStarted counts a run start.
func (m *Metrics) RecordRunStarted(scenario string) {
	if m != nil {
		m.RunsStarted.WithLabelValues(scenario).Inc()
	}
}

// RecordRunCompleted counts a run finish with its terminal status.
func (m *Metrics) RecordRunCompleted(scenario, status string) {
	if m != nil {
		m.RunsCompleted.WithLabelValues(scenario, status).Inc()
	}
}

// ObserveStepLatency records the wall-clock duration of one tick.
func (m *Metrics) ObserveStepLatency(d time.Duration) {
	if m != nil {
		m.StepLatency.Observe(d.Seconds())
	}
}

// SetPopulation publishes one compartment count from the latest census.
func (m *Metrics) SetPopulation(stage string, n int) {
	if m != nil {
		m.Population.WithLabelValues(stage).Set(float64(n))
	}
}
