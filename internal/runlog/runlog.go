// Package runlog stores training run history in SQLite.
package runlog

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("runlog: run not found")

// Run is one recorded training invocation.
type Run struct {
	ID        int64
	StartedAt time.Time
	Backend   string
	LR        float64
	Steps     int
	Seed      int64
	FinalLoss float64
}

// Step is one recorded loss value within a run.
type Step struct {
	Step int
	Loss float64
}

// Log provides durable storage for training run history.
// Uses SQLite with WAL mode; a single connection avoids SQLITE_BUSY
// since SQLite allows only one writer.
type Log struct {
	db *sql.DB
}

// Open creates or opens the run log at the given path. The schema is
// applied on open, so calling Open on a fresh path is enough to get a
// working log. Idempotent.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: connect %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("runlog: %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: apply schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record stores a completed run and its per-step losses in one
// transaction and returns the new run's id.
func (l *Log) Record(run Run, steps []Step) (int64, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("runlog: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs (started_at, backend, lr, steps, seed, final_loss)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.Backend, run.LR, run.Steps, run.Seed, run.FinalLoss,
	)
	if err != nil {
		return 0, fmt.Errorf("runlog: insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("runlog: run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO steps (run_id, step, loss) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("runlog: prepare steps: %w", err)
	}
	defer stmt.Close()

	for _, s := range steps {
		if _, err := stmt.Exec(id, s.Step, s.Loss); err != nil {
			return 0, fmt.Errorf("runlog: insert step %d: %w", s.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("runlog: commit: %w", err)
	}
	return id, nil
}

// Runs lists recorded runs, newest first.
func (l *Log) Runs() ([]Run, error) {
	rows, err := l.db.Query(
		`SELECT id, started_at, backend, lr, steps, seed, final_loss
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("runlog: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunByID returns one run, or ErrNotFound.
func (l *Log) RunByID(id int64) (Run, error) {
	row := l.db.QueryRow(
		`SELECT id, started_at, backend, lr, steps, seed, final_loss
		 FROM runs WHERE id = ?`, id)

	var run Run
	var startedAt string
	err := row.Scan(&run.ID, &startedAt, &run.Backend, &run.LR, &run.Steps, &run.Seed, &run.FinalLoss)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("runlog: run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("runlog: run %d: %w", id, err)
	}
	run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("runlog: run %d timestamp: %w", id, err)
	}
	return run, nil
}

// StepsForRun returns the per-step losses of a run in step order.
func (l *Log) StepsForRun(id int64) ([]Step, error) {
	rows, err := l.db.Query(
		`SELECT step, loss FROM steps WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, fmt.Errorf("runlog: steps for run %d: %w", id, err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var s Step
		if err := rows.Scan(&s.Step, &s.Loss); err != nil {
			return nil, fmt.Errorf("runlog: scan step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var startedAt string
	if err := rows.Scan(&run.ID, &startedAt, &run.Backend, &run.LR, &run.Steps, &run.Seed, &run.FinalLoss); err != nil {
		return Run{}, fmt.Errorf("runlog: scan run: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("runlog: run %d timestamp: %w", run.ID, err)
	}
	run.StartedAt = parsed
	return run, nil
}
