// Package store persists ensemble outcomes in SQLite so tallies can be
// aggregated across batches.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/ssa"
	"github.com/picogrid/outbreak-simulations/pkg/stats"
)

// timeLayout is fixed-width so timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store holds batches of run outcomes
type Store struct {
	db *sql.DB
}

// Batch describes one stored ensemble
type Batch struct {
	ID         string
	Simulation string
	Seed       uint64
	Runs       int
	Parameters map[string]interface{}
	Started    time.Time
	Finished   time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	id          TEXT PRIMARY KEY,
	simulation  TEXT NOT NULL,
	seed        TEXT NOT NULL,
	runs        INTEGER NOT NULL,
	parameters  TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outcomes (
	batch_id    TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
	run         INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	humans      INTEGER NOT NULL,
	zombies     INTEGER NOT NULL,
	vaccinated  INTEGER NOT NULL,
	decided_at  REAL NOT NULL,
	events      INTEGER NOT NULL,
	PRIMARY KEY (batch_id, run)
);

CREATE INDEX IF NOT EXISTS idx_outcomes_outcome ON outcomes(outcome);
`

// Open opens or creates the database at path. ":memory:" gives a private in-memory store.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	} else {
		dsn += "?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: a single writer, and every query sees the same in-memory database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport stores the batch and one outcome row per run in a single transaction
func (s *Store) SaveReport(ctx context.Context, report *simulation.Report) error {
	params, err := json.Marshal(report.Parameters)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, simulation, seed, runs, parameters, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID.String(), report.Simulation, fmt.Sprint(report.Seed), len(report.Runs), string(params),
		report.Started.UTC().Format(timeLayout), report.Finished.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (batch_id, run, outcome, humans, zombies, vaccinated, decided_at, events)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, run := range report.Runs {
		_, err := stmt.ExecContext(ctx, report.ID.String(), run.Index, run.Outcome.String(),
			run.Final.H, run.Final.Z, run.Final.V, run.DecidedAt, run.Events.Total())
		if err != nil {
			return fmt.Errorf("failed to insert outcome of run %d: %w", run.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// Tally counts outcomes for one batch, or across all batches when batchID is empty
func (s *Store) Tally(ctx context.Context, batchID string) (stats.Tally, error) {
	query := `SELECT outcome, COUNT(*) FROM outcomes`
	var args []interface{}
	if batchID != "" {
		query += ` WHERE batch_id = ?`
		args = append(args, batchID)
	}
	query += ` GROUP BY outcome`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return stats.Tally{}, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var tally stats.Tally
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return stats.Tally{}, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcome, err := ssa.ParseOutcome(name)
		if err != nil {
			return stats.Tally{}, err
		}
		switch outcome {
		case ssa.HumansWin:
			tally.HumansWin += n
		case ssa.ZombiesWin:
			tally.ZombiesWin += n
		default:
			tally.Undecided += n
		}
	}
	return tally, rows.Err()
}

// Batches lists stored batches, most recent first
func (s *Store) Batches(ctx context.Context) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, simulation, seed, runs, parameters, started_at, finished_at
		 FROM batches ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		var seed, params, started, finished string
		if err := rows.Scan(&b.ID, &b.Simulation, &seed, &b.Runs, &params, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		if _, err := fmt.Sscan(seed, &b.Seed); err != nil {
			return nil, fmt.Errorf("batch %s: invalid seed %q: %w", b.ID, seed, err)
		}
		if err := json.NewDecoder(strings.NewReader(params)).Decode(&b.Parameters); err != nil {
			return nil, fmt.Errorf("batch %s: invalid parameters: %w", b.ID, err)
		}
		if b.Started, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("batch %s: invalid start time: %w", b.ID, err)
		}
		if b.Finished, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("batch %s: invalid finish time: %w", b.ID, err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
