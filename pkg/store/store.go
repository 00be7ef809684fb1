// Package store manages the SQLite countdown history.
//
// The history is append-only bookkeeping: one row per run and one row per
// start, pause, resume, reset or expire. It is read back for display and
// never used to restore a countdown after a restart.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/daviddao/countdown/pkg/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("store: not found")

// Store manages all SQLite operations with WAL mode so a running `ct` and
// a `ct history` in another terminal can share the file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// withRetry runs a write through retryOp with the default policy.
func withRetry(fn func() error) error {
	return retryOp(defaultRetryPolicy, fn)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		total_seconds INTEGER NOT NULL,
		remaining     INTEGER NOT NULL,
		status        TEXT NOT NULL,
		preset        TEXT,
		started_at    TEXT NOT NULL,
		ended_at      TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

	CREATE TABLE IF NOT EXISTS events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL REFERENCES runs(id),
		kind       TEXT NOT NULL,
		remaining  INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

// CreateRun inserts a new run. The ID must be unique.
func (s *Store) CreateRun(r *model.Run) error {
	if r.ID == "" {
		return errors.New("create run: empty id")
	}
	if !r.Status.Valid() {
		return fmt.Errorf("create run %s: invalid status %q", r.ID, r.Status)
	}
	return withRetry(func() error {
		_, err := s.db.Exec(
			`INSERT INTO runs (id, total_seconds, remaining, status, preset, started_at, ended_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.TotalSeconds, r.Remaining, string(r.Status), nullString(r.Preset),
			r.StartedAt.UTC().Format(time.RFC3339Nano), formatTimePtr(r.EndedAt),
		)
		return err
	})
}

// UpdateRun records the current status and remaining seconds of an open run.
func (s *Store) UpdateRun(id string, status model.RunStatus, remaining int64) error {
	if !status.Valid() {
		return fmt.Errorf("update run %s: invalid status %q", id, status)
	}
	return s.execOne(
		`UPDATE runs SET status = ?, remaining = ? WHERE id = ?`,
		string(status), remaining, id,
	)
}

// FinishRun closes a run with its final status.
func (s *Store) FinishRun(id string, status model.RunStatus, remaining int64, endedAt time.Time) error {
	if status != model.RunExpired && status != model.RunReset {
		return fmt.Errorf("finish run %s: %q is not a final status", id, status)
	}
	return s.execOne(
		`UPDATE runs SET status = ?, remaining = ?, ended_at = ? WHERE id = ?`,
		string(status), remaining, endedAt.UTC().Format(time.RFC3339Nano), id,
	)
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*model.Run, error) {
	row := s.db.QueryRow(
		`SELECT id, total_seconds, remaining, status, COALESCE(preset,''), started_at, ended_at
		 FROM runs WHERE id = ?`, id,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return r, err
}

// ListRuns returns the most recent runs first. An empty status lists all.
func (s *Store) ListRuns(limit int, status model.RunStatus) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id, total_seconds, remaining, status, COALESCE(preset,''), started_at, ended_at
	      FROM runs`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY started_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// CountRuns returns the number of recorded runs.
func (s *Store) CountRuns() int64 {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// InsertEvent appends an event to a run. Returns the auto-generated row ID.
func (s *Store) InsertEvent(e *model.Event) (int64, error) {
	var lastID int64
	err := withRetry(func() error {
		res, err := s.db.Exec(
			`INSERT INTO events (run_id, kind, remaining, created_at) VALUES (?, ?, ?, ?)`,
			e.RunID, string(e.Kind), e.Remaining, e.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return err
		}
		lastID, err = res.LastInsertId()
		return err
	})
	return lastID, err
}

// ListEvents returns the events of one run in insertion order.
func (s *Store) ListEvents(runID string) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, kind, remaining, created_at
		 FROM events WHERE run_id = ? ORDER BY id ASC`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var kind, created string
		if err := rows.Scan(&e.ID, &e.RunID, &kind, &e.Remaining, &created); err != nil {
			return nil, err
		}
		e.Kind = model.EventKind(kind)
		var parseErr error
		e.CreatedAt, parseErr = time.Parse(time.RFC3339Nano, created)
		if parseErr != nil {
			return nil, fmt.Errorf("parse created_at for event %d: %w", e.ID, parseErr)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// execOne runs an UPDATE that must touch exactly one run.
func (s *Store) execOne(query string, args ...any) error {
	var n int64
	err := withRetry(func() error {
		res, err := s.db.Exec(query, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.Run, error) {
	var r model.Run
	var status, started string
	var ended sql.NullString
	if err := row.Scan(&r.ID, &r.TotalSeconds, &r.Remaining, &status, &r.Preset, &started, &ended); err != nil {
		return nil, err
	}
	r.Status = model.RunStatus(status)
	var parseErr error
	r.StartedAt, parseErr = time.Parse(time.RFC3339Nano, started)
	if parseErr != nil {
		return nil, fmt.Errorf("parse started_at for run %s: %w", r.ID, parseErr)
	}
	if ended.Valid {
		t, err := time.Parse(time.RFC3339Nano, ended.String)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at for run %s: %w", r.ID, err)
		}
		r.EndedAt = &t
	}
	return &r, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
