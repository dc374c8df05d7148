// Package history persists a record of past search runs in SQLite so
// users can review what they searched for and how it went.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/grepline/internal/filelock"
	"github.com/harrison/grepline/internal/result"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded invocation.
type Run struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Pattern    string    `json:"pattern"`
	Flags      string    `json:"flags"`
	Matches    int       `json:"matches"`
	Errors     int       `json:"errors"`
	Sources    int       `json:"sources"`
	DurationMS int64     `json:"duration_ms"`
	StartedAt  time.Time `json:"started_at"`
}

// Store manages the history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if necessary) the history database at dbPath.
// ":memory:" is accepted for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so the remaining pragmas wait on locks held by
	// concurrent invocations.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := execWithRetry(db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry retries an exec that fails with "database is locked",
// backing off between attempts.
func execWithRetry(db *sql.DB, query string, attempts int, backoff time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if _, err = db.Exec(query); err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists the outcome of a completed run.
func (s *Store) Record(ctx context.Context, outcome *result.Outcome, pattern, flags string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, pattern, flags, matches, errors, sources, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID,
		pattern,
		flags,
		outcome.Matches,
		len(outcome.Errors),
		outcome.Sources,
		outcome.Duration.Milliseconds(),
		outcome.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, pattern, flags, matches, errors, sources, duration_ms, started_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RunID, &r.Pattern, &r.Flags, &r.Matches,
			&r.Errors, &r.Sources, &r.DurationMS, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Clear deletes every recorded run and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

// Export writes every recorded run as JSON to path, holding a file lock so
// concurrent exports cannot interleave.
func (s *Store) Export(ctx context.Context, path string) error {
	runs, err := s.Recent(ctx, 1<<30)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []Run{}
	}

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal runs: %w", err)
	}

	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("export runs: %w", err)
	}
	return nil
}
