// Package sqlite provides a RunStore backed by an embedded SQLite database,
// using the pure Go modernc.org/sqlite driver so no cgo toolchain is needed.
// It is the default durable backend for single-machine experiments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/core"
)

// DefaultPath is the database file used when no path is configured.
const DefaultPath = "epidexus.db"

// EnvPath is the environment variable consulted by OpenFromEnv.
const EnvPath = "EPIDEXUS_DB_PATH"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	scenario      TEXT NOT NULL,
	seed          INTEGER NOT NULL,
	start         TEXT NOT NULL,
	step_duration INTEGER NOT NULL,
	status        TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	day         TEXT NOT NULL,
	susceptible INTEGER NOT NULL,
	exposed     INTEGER NOT NULL,
	infected    INTEGER NOT NULL,
	recovered   INTEGER NOT NULL,
	PRIMARY KEY (run_id, day)
);`

// Store is a core.RunStore keeping runs and sample series in a SQLite file.
// database/sql serializes access, so the store is safe for concurrent use.
type Store struct {
	db *sql.DB
}

var _ core.RunStore = (*Store)(nil)

// Open opens (creating if necessary) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenFromEnv opens the database named by EPIDEXUS_DB_PATH, falling back to
// DefaultPath.
func OpenFromEnv() (*Store, error) {
	return Open(os.Getenv(EnvPath))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun implements the core.RunStore interface. Saving an existing run id
// updates the record in place.
func (s *Store) SaveRun(ctx context.Context, run core.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, seed, start, step_duration, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scenario = excluded.scenario,
			seed = excluded.seed,
			start = excluded.start,
			step_duration = excluded.step_duration,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		run.ID, run.Scenario, run.Seed,
		run.Start.UTC().Format(time.RFC3339Nano), int64(run.StepDuration),
		string(run.Status),
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.UpdatedAt.UTC().Format(time.RFC3339Nano),
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
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Run{}, fmt.Errorf("run %q: %w", id, collect.ErrRunNotFound)
	}
	if err != nil {
		return core.Run{}, fmt.Errorf("get run %q: %w", id, err)
	}
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
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// AppendSample implements the core.RunStore interface. Re-appending a day
// already on record overwrites it, which makes resumed runs idempotent.
func (s *Store) AppendSample(ctx context.Context, sample core.SEIRSample) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM runs WHERE id = ?)`, sample.RunID).Scan(&exists); err != nil {
		return fmt.Errorf("append sample: %w", err)
	}
	if !exists {
		return fmt.Errorf("run %q: %w", sample.RunID, collect.ErrRunNotFound)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO samples (run_id, day, susceptible, exposed, infected, recovered)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, day) DO UPDATE SET
			susceptible = excluded.susceptible,
			exposed = excluded.exposed,
			infected = excluded.infected,
			recovered = excluded.recovered`,
		sample.RunID, sample.Day.UTC().Format(time.RFC3339Nano),
		sample.Susceptible, sample.Exposed, sample.Infected, sample.Recovered,
	)
	if err != nil {
		return fmt.Errorf("append sample for run %q: %w", sample.RunID, err)
	}
	return nil
}

// Samples implements the core.RunStore interface.
func (s *Store) Samples(ctx context.Context, runID string) ([]core.SEIRSample, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM runs WHERE id = ?)`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("samples: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("run %q: %w", runID, collect.ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, day, susceptible, exposed, infected, recovered
		FROM samples WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("samples for run %q: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	var samples []core.SEIRSample
	for rows.Next() {
		var (
			sm  core.SEIRSample
			day string
		)
		if err := rows.Scan(&sm.RunID, &day, &sm.Susceptible, &sm.Exposed, &sm.Infected, &sm.Recovered); err != nil {
			return nil, fmt.Errorf("samples for run %q: %w", runID, err)
		}
		if sm.Day, err = time.Parse(time.RFC3339Nano, day); err != nil {
			return nil, fmt.Errorf("samples for run %q: %w", runID, err)
		}
		samples = append(samples, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("samples for run %q: %w", runID, err)
	}
	return samples, nil
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (core.Run, error) {
	var (
		run            core.Run
		start, created string
		updated        string
		step           int64
		status         string
	)
	if err := sc.Scan(&run.ID, &run.Scenario, &run.Seed, &start, &step, &status, &created, &updated); err != nil {
		return core.Run{}, err
	}
	run.StepDuration = time.Duration(step)
	run.Status = core.RunStatus(status)
	var err error
	if run.Start, err = time.Parse(time.RFC3339Nano, start); err != nil {
		return core.Run{}, err
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return core.Run{}, err
	}
	if run.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return core.Run{}, err
	}
	return run, nil
}
