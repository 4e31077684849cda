// Package state persists build history and source fingerprints in SQLite,
// enabling the early-skip of builds whose input has not changed.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// BuildRecord is one row of build history.
type BuildRecord struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Pages    int
	Failed   int
	Outcome  string // success|partial|failed|skipped
}

// Store is a SQLite-backed state store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the state database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	CREATE TABLE IF NOT EXISTS fingerprints (
		path TEXT PRIMARY KEY,
		sha256 TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordBuild appends one build to the history.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started, duration_ms, pages, failed, outcome) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Started.Unix(), rec.Duration.Milliseconds(), rec.Pages, rec.Failed, rec.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// RecentBuilds returns up to limit builds, most recent first.
func (s *Store) RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started, duration_ms, pages, failed, outcome FROM builds ORDER BY started DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var started, durationMS int64
		if err := rows.Scan(&rec.ID, &started, &durationMS, &rec.Pages, &rec.Failed, &rec.Outcome); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.Started = time.Unix(started, 0)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Fingerprints returns the stored source fingerprints keyed by path.
func (s *Store) Fingerprints(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT path, sha256 FROM fingerprints")
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var path, sum string
		if err := rows.Scan(&path, &sum); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out[path] = sum
	}
	return out, rows.Err()
}

// SaveFingerprints replaces the stored fingerprint set.
func (s *Store) SaveFingerprints(ctx context.Context, prints map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fingerprints"); err != nil {
		return fmt.Errorf("clear fingerprints: %w", err)
	}
	for path, sum := range prints {
		if _, err := tx.ExecContext(ctx, "INSERT INTO fingerprints (path, sha256) VALUES (?, ?)", path, sum); err != nil {
			return fmt.Errorf("insert fingerprint: %w", err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
