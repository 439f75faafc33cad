// Package history keeps a log of capture attempts in SQLite
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"instrshot.dev/cli/internal/core/domain"
)

// DefaultListLimit is used when List is called with a non-positive limit
const DefaultListLimit = 20

// timeLayout is fixed width so captured_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements ports.CaptureHistory on SQLite
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// a single connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	store, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open database and creates the schema
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS captures (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		plugin TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL,
		identity TEXT NOT NULL DEFAULT '',
		path TEXT NOT NULL DEFAULT '',
		format TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		captured_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_captures_captured_at ON captures(captured_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores one capture attempt. A missing ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, record domain.CaptureRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CapturedAt.IsZero() {
		record.CapturedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO captures (id, address, plugin, mode, identity, path, format, size, error, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID, record.Address, record.Plugin, string(record.Mode), record.Identity,
		record.Path, record.Format, record.Size, record.Error,
		record.CapturedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert capture: %w", err)
	}
	return nil
}

// List returns the most recent captures, newest first
func (s *Store) List(ctx context.Context, limit int) ([]domain.CaptureRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, address, plugin, mode, identity, path, format, size, error, captured_at
		FROM captures
		ORDER BY captured_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query captures: %w", err)
	}
	defer rows.Close()

	var records []domain.CaptureRecord
	for rows.Next() {
		var (
			rec        domain.CaptureRecord
			mode       string
			capturedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Address, &rec.Plugin, &mode, &rec.Identity,
			&rec.Path, &rec.Format, &rec.Size, &rec.Error, &capturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}

		rec.Mode = domain.SelectionMode(mode)
		if rec.CapturedAt, err = time.Parse(timeLayout, capturedAt); err != nil {
			return nil, fmt.Errorf("invalid capture timestamp %q: %w", capturedAt, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
