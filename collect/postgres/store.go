// Package postgres provides a RunStore backed by PostgreSQL via the pgx
// database/sql driver. It is the backend of choice when several machines
// record into one shared result database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/core"
)

const driver = "pgx"

// DefaultDSN is used when no DSN is configured.
const DefaultDSN = "postgres://localhost/epidexus?sslmode=disable"

// EnvDSN is the environment variable consulted by OpenFromEnv.
const EnvDSN = "EPIDEXUS_DB_DSN"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	scenario      TEXT NOT NULL,
	seed          BIGINT NOT NULL,
	start         TIMESTAMPTZ NOT NULL,
	step_duration BIGINT NOT NULL,
	status        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	day         TIMESTAMPTZ NOT NULL,
	susceptible INTEGER NOT NULL,
	exposed     INTEGER NOT NULL,
	infected    INTEGER NOT NULL,
	recovered   INTEGER NOT NULL,
	PRIMARY KEY (run_id, day)
);`

// Store is a core.RunStore persisting runs and sample series to PostgreSQL.
// The underlying *sql.DB pools connections, so the store is safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

var _ core.RunStore = (*Store)(nil)

// Open connects to the database at dsn (DefaultDSN when empty), verifies
// the connection, and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenFromEnv connects using the DSN named by EPIDEXUS_DB_DSN, falling back
// to DefaultDSN.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	return Open(ctx, os.Getenv(EnvDSN))
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun implements the core.RunStore interface. Saving an existing run id
// updates the record in place.
func (s *Store) SaveRun(ctx context.Context, run core.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, seed, start, step_duration, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			scenario = EXCLUDED.scenario,
			seed = EXCLUDED.seed,
			start = EXCLUDED.start,
			step_duration = EXCLUDED.step_duration,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		run.ID, run.Scenario, run.Seed, run.Start.UTC(), int64(run.StepDuration),
		string(run.Status), run.CreatedAt.UTC(), run.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save run %q: %w", run.ID, err)
	}
	return nil
}

// GetRun implements the core.RunStore interface.
func (s *Store) GetRun(ctx context.Context, id string) (core.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, seed, start, step_duration, status, created_at, updated_at
		FROM runs WHERE id = $1`, id)

	var (
		run    core.Run
		step   int64
		status string
	)
	err := row.Scan(&run.ID, &run.Scenario, &run.Seed, &run.Start, &step, &status, &run.CreatedAt, &run.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Run{}, fmt.Errorf("run %q: %w", id, collect.ErrRunNotFound)
	}
	if err != nil {
		return core.Run{}, fmt.Errorf("get run %q: %w", id, err)
	}
	run.StepDuration = time.Duration(step)
	run.Status = core.RunStatus(status)
	return run, nil
}

// ListRuns implements the core.RunStore interface.
func (s *Store) ListRuns(ctx context.Context) ([]core.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, seed, start, step_duration, status, created_at, updated_at
		FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []core.Run
	for rows.Next() {
		var (
			run    core.Run
			step   int64
			status string
		)
		if err := rows.Scan(&run.ID, &run.Scenario, &run.Seed, &run.Start, &step, &status, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		run.StepDuration = time.Duration(step)
		run.Status = core.RunStatus(status)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// AppendSample implements the core.RunStore interface. Re-appending a day
// already on record overwrites it.
func (s *Store) AppendSample(ctx context.Context, sample core.SEIRSample) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO samples (run_id, day, susceptible, exposed, infected, recovered)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE EXISTS (SELECT 1 FROM runs WHERE id = $1)
		ON CONFLICT (run_id, day) DO UPDATE SET
			susceptible = EXCLUDED.susceptible,
			exposed = EXCLUDED.exposed,
			infected = EXCLUDED.infected,
			recovered = EXCLUDED.recovered`,
		sample.RunID, sample.Day.UTC(),
		sample.Susceptible, sample.Exposed, sample.Infected, sample.Recovered,
	)
	if err != nil {
		return fmt.Errorf("append sample for run %q: %w", sample.RunID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %q: %w", sample.RunID, collect.ErrRunNotFound)
	}
	return nil
}

// Samples implements the core.RunStore interface.
func (s *Store) Samples(ctx context.Context, runID string) ([]core.SEIRSample, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, day, susceptible, exposed, infected, recovered
		FROM samples WHERE run_id = $1 ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("samples for run %q: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	var samples []core.SEIRSample
	for rows.Next() {
		var sm core.SEIRSample
		if err := rows.Scan(&sm.RunID, &sm.Day, &sm.Susceptible, &sm.Exposed, &sm.Infected, &sm.Recovered); err != nil {
			return nil, fmt.Errorf("samples for run %q: %w", runID, err)
		}
		samples = append(samples, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("samples for run %q: %w", runID, err)
	}
	return samples, nil
}
