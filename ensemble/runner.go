package ensemble

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/engine"
	"github.com/kdhansen/epidexus/logging"
	"github.com/kdhansen/epidexus/metrics"
)

// BuildFunc constructs one replicate's model. It receives the replicate
// index and the derived seed for that replicate; the returned model must be
// fully registered and otherwise untouched by other replicates.
type BuildFunc func(replicate int, seed int64) (*engine.Model, error)

// Outcome is the result of one finished replicate.
type Outcome struct {
	Replicate int
	Seed      int64
	RunID     string
	Final     core.SEIRSample
	Days      int
}

// Summary aggregates an ensemble's final compartments.
type Summary struct {
	Replicates      int
	MeanSusceptible float64
	MeanExposed     float64
	MeanInfected    float64
	MeanRecovered   float64

	// AttackRate is the mean fraction of the population that left the
	// susceptible compartment by the end of the run.
	AttackRate float64
}

// Options configures a Runner.
type Options struct {
	// Parallelism bounds the number of replicates running at once.
	// Defaults to 4; replicates are CPU bound, so there is no point far
	// beyond the core count.
	Parallelism int

	// BaseSeed is the seed from which per-replicate seeds are derived.
	// Seed 0 picks the fixed default, keeping unseeded ensembles
	// reproducible.
	BaseSeed int64

	// Store receives a run record per replicate when set.
	Store core.RunStore

	// Metrics receives run lifecycle counts. May be nil.
	Metrics *metrics.Metrics

	// Logger receives replicate lifecycle traces. Defaults to
	// logging.NoOpLogger.
	Logger logging.Logger
}

// Runner executes replicate ensembles. The zero value is not usable; use
// New.
type Runner struct {
	parallelism int
	baseSeed    int64
	store       core.RunStore
	metrics     *metrics.Metrics
	logger      logging.Logger
}

// New constructs a Runner with optional overrides.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		Parallelism: 4,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.BaseSeed == 0 {
		opts.BaseSeed = core.DefaultSeed
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Runner{
		parallelism: opts.Parallelism,
		baseSeed:    opts.BaseSeed,
		store:       opts.Store,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}
}

// Run builds and executes the given number of replicates, each simulating
// the given interval. The first replicate failure cancels the rest.
// Outcomes come back indexed by replicate, so the result is deterministic
// for a fixed base seed even though replicates finish out of order.
func (r *Runner) Run(ctx context.Context, build BuildFunc, replicates int, interval time.Duration) ([]Outcome, error) {
	if replicates < 1 {
		return nil, fmt.Errorf("ensemble of %d replicates", replicates)
	}

	outcomes := make([]Outcome, replicates)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i := 0; i < replicates; i++ {
		g.Go(func() error {
			seed := core.DeriveSeed(r.baseSeed, uint64(i))
			outcome, err := r.runReplicate(ctx, build, i, seed, interval)
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// runReplicate executes one replicate end to end, keeping the run record in
// the store up to date when one is configured.
func (r *Runner) runReplicate(ctx context.Context, build BuildFunc, replicate int, seed int64, interval time.Duration) (Outcome, error) {
	m, err := build(replicate, seed)
	if err != nil {
		return Outcome{}, fmt.Errorf("build: %w", err)
	}

	run := m.RunInfo()
	run.Seed = seed
	if r.store != nil {
		if err := r.store.SaveRun(ctx, run); err != nil {
			return Outcome{}, fmt.Errorf("save run: %w", err)
		}
	}
	r.metrics.RecordRunStarted(m.Scenario())
	r.logger.Debug("Replicate started", "replicate", replicate, "run_id", m.RunID(), "seed", seed)

	simErr := m.Run(ctx, interval)

	run.Status = core.RunStatusCompleted
	if simErr != nil {
		run.Status = core.RunStatusFailed
	}
	run.UpdatedAt = time.Now().UTC()
	if r.store != nil {
		if err := r.store.SaveRun(ctx, run); err != nil {
			return Outcome{}, fmt.Errorf("save run: %w", err)
		}
	}
	r.metrics.RecordRunCompleted(m.Scenario(), string(run.Status))
	if simErr != nil {
		return Outcome{}, simErr
	}

	clock := m.Clock()
	days := int(clock.Ticks() * int64(clock.StepDuration()) / int64(24*time.Hour))
	return Outcome{
		Replicate: replicate,
		Seed:      seed,
		RunID:     m.RunID(),
		Final:     m.SEIRCounts(),
		Days:      days,
	}, nil
}

// Summarize aggregates the outcomes of one ensemble.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Replicates: len(outcomes)}
	if len(outcomes) == 0 {
		return s
	}
	var total float64
	for _, o := range outcomes {
		s.MeanSusceptible += float64(o.Final.Susceptible)
		s.MeanExposed += float64(o.Final.Exposed)
		s.MeanInfected += float64(o.Final.Infected)
		s.MeanRecovered += float64(o.Final.Recovered)
		total += float64(o.Final.Total())
	}
	n := float64(len(outcomes))
	s.MeanSusceptible /= n
	s.MeanExposed /= n
	s.MeanInfected /= n
	s.MeanRecovered /= n
	if total > 0 {
		s.AttackRate = 1 - n*s.MeanSusceptible/total
	}
	return s
}
