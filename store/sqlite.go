package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cpusched/sim/report"
	"github.com/inference-sim/cpusched/sim/workload"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *logrus.Entry
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Every pooled connection to :memory: would see its own empty database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logrus.WithField("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.WithField("op", "migrate").Debug("sql")
	return migrate(ctx, s.db)
}

// SaveRun inserts a run. Runs are immutable once stored.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	s.logger.WithFields(logrus.Fields{"op": "insert", "table": "runs", "id": run.ID}).Debug("sql")

	processesJSON, err := json.Marshal(run.Processes)
	if err != nil {
		return fmt.Errorf("marshal processes: %w", err)
	}
	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, label, policy, quantum, process_count, avg_waiting, avg_turnaround, makespan, processes, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, run.Policy, run.Quantum, run.ProcessCount, run.AvgWaiting, run.AvgTurnaround, run.Makespan,
		string(processesJSON), string(resultJSON), run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun returns the run with the given id, or ErrNotFound.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.logger.WithFields(logrus.Fields{"op": "select", "table": "runs", "id": id}).Debug("sql")

	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, policy, quantum, process_count, avg_waiting, avg_turnaround, makespan, processes, result, created_at
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// ListRuns returns a page of runs, newest first, plus the total matching count.
// Listed runs carry their summary columns only; use GetRun for the full result.
func (s *SQLiteStore) ListRuns(ctx context.Context, opts ListOptions) ([]*Run, int, error) {
	opts.Clamp()
	s.logger.WithFields(logrus.Fields{"op": "list", "table": "runs", "limit": opts.Limit, "offset": opts.Offset}).Debug("sql")

	where, args := "", []any{}
	if opts.Policy != "" {
		where, args = " WHERE policy = ?", append(args, opts.Policy)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, policy, quantum, process_count, avg_waiting, avg_turnaround, makespan, processes, result, created_at
		 FROM runs`+where+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		append(args, opts.Limit, opts.Offset)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows.Scan, false)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

// scanRun reads one runs row; full decodes the JSON payload columns too.
func scanRun(scan func(dest ...any) error, full bool) (*Run, error) {
	var run Run
	var processesJSON, resultJSON, createdAt string
	if err := scan(&run.ID, &run.Label, &run.Policy, &run.Quantum, &run.ProcessCount, &run.AvgWaiting,
		&run.AvgTurnaround, &run.Makespan, &processesJSON, &resultJSON, &createdAt); err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if !full {
		return &run, nil
	}

	run.Processes = &workload.ProcessSetSpec{}
	if err := json.Unmarshal([]byte(processesJSON), run.Processes); err != nil {
		return nil, fmt.Errorf("unmarshal processes: %w", err)
	}
	run.Result = &report.RunDocument{}
	if err := json.Unmarshal([]byte(resultJSON), run.Result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &run, nil
}
