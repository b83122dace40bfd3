// Package runlog keeps an optional SQLite journal of pipeline runs: which
// file was processed, how, and how many rows were kept or skipped.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  TEXT NOT NULL,
    input       TEXT NOT NULL,
    variant     TEXT NOT NULL,
    mode        TEXT NOT NULL,
    status      TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT '',
    extracted   INTEGER NOT NULL DEFAULT 0,
    classified  INTEGER NOT NULL DEFAULT 0,
    skipped     INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);`

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one journal row.
type Entry struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	Input      string        `json:"input"`
	Variant    string        `json:"variant"`
	Mode       string        `json:"mode"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	Extracted  int           `json:"extracted"`
	Classified int           `json:"classified"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"duration_ns"`
}

// Store is the journal. A nil *Store is a disabled journal: Record and
// Recent are no-ops.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("cannot open run journal at %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create run journal schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts e, assigning an ID and start time when missing.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if s == nil {
		return nil
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}
	const q = `
        INSERT INTO runs (id, started_at, input, variant, mode, status, error,
                          extracted, classified, skipped, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		e.ID, e.StartedAt.UTC().Format(timeLayout), e.Input, e.Variant, e.Mode,
		e.Status, e.Error, e.Extracted, e.Classified, e.Skipped, e.Duration.Milliseconds())
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil {
		return []Entry{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	const q = `
        SELECT id, started_at, input, variant, mode, status, error,
               extracted, classified, skipped, duration_ms
          FROM runs
         ORDER BY started_at DESC
         LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			started string
			ms      int64
		)
		if err := rows.Scan(&e.ID, &started, &e.Input, &e.Variant, &e.Mode, &e.Status, &e.Error,
			&e.Extracted, &e.Classified, &e.Skipped, &ms); err != nil {
			return nil, err
		}
		if e.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("run %s: bad started_at %q: %w", e.ID, started, err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
