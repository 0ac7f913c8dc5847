// Package buildlog persists build run history to SQLite so `folio serve`
// can list recent builds and authors can track how builds trend over time.
package buildlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/esologic/folio/internal/site"
)

// Record is one persisted build run.
type Record struct {
	BuildID       string
	Start         time.Time
	DurationMS    int64
	Outcome       string
	Sections      int
	Entries       int
	RenderedPages int
}

// Store is a SQLite-backed build history store.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the history database at dbPath.
// Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		sections INTEGER NOT NULL,
		entries INTEGER NOT NULL,
		rendered_pages INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one finished build.
func (s *Store) Append(ctx context.Context, report *site.BuildReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, started, duration_ms, outcome, sections, entries, rendered_pages) VALUES (?, ?, ?, ?, ?, ?, ?)",
		report.BuildID,
		report.Start.UnixMilli(),
		report.Duration().Milliseconds(),
		report.Outcome,
		report.Sections,
		report.Entries,
		report.RenderedPages,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, started, duration_ms, outcome, sections, entries, rendered_pages FROM builds ORDER BY started DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Record
	for rows.Next() {
		var r Record
		var started int64
		if err := rows.Scan(&r.BuildID, &started, &r.DurationMS, &r.Outcome, &r.Sections, &r.Entries, &r.RenderedPages); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		r.Start = time.UnixMilli(started)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
