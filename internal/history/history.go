// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a ledger of written and uploaded artifact files in
// a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/cpic-data/pkg/types"
)

const defaultListLimit = 50

// Store manages the file history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger at dbPath, creating its parent
// directory and schema as needed.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS file_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_name TEXT NOT NULL,
			action TEXT NOT NULL,
			location TEXT NOT NULL,
			bytes INTEGER NOT NULL DEFAULT 0,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_file_history_file_name ON file_history(file_name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends e to the ledger. A zero RecordedAt is set to the current
// time. The stored entry, with its ID, is returned.
func (s *Store) Record(ctx context.Context, e types.HistoryEntry) (types.HistoryEntry, error) {
	if e.FileName == "" {
		return e, fmt.Errorf("history entry has no file name")
	}
	if e.Action == "" {
		return e, fmt.Errorf("history entry for %s has no action", e.FileName)
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = s.now()
	}
	e.RecordedAt = e.RecordedAt.UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO file_history (file_name, action, location, bytes, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		e.FileName, string(e.Action), e.Location, e.Bytes, e.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return e, fmt.Errorf("inserting history entry for %s: %w", e.FileName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return e, fmt.Errorf("reading history entry id: %w", err)
	}
	e.ID = id
	return e, nil
}

// List returns up to limit entries, newest first. A non-positive limit
// uses the default of 50.
func (s *Store) List(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, action, location, bytes, recorded_at
		 FROM file_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var (
			e          types.HistoryEntry
			action     string
			recordedAt string
		)
		if err := rows.Scan(&e.ID, &e.FileName, &action, &e.Location, &e.Bytes, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Action = types.HistoryAction(action)
		if t, parseErr := time.Parse(time.RFC3339Nano, recordedAt); parseErr == nil {
			e.RecordedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
