// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history records finished export runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Record is one finished export run.
type Record struct {
	ID            string
	Tag           string
	Fetched       int
	Exported      int
	BinarySkipped int
	Truncated     bool
	Directory     string
	ReportPath    string
	Started       time.Time
	Finished      time.Time
}

// Duration returns the run's wall-clock duration.
func (r Record) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Store persists run records.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	tag            TEXT NOT NULL,
	fetched        INTEGER NOT NULL,
	exported       INTEGER NOT NULL,
	binary_skipped INTEGER NOT NULL,
	truncated      INTEGER NOT NULL,
	directory      TEXT NOT NULL,
	report_path    TEXT NOT NULL,
	started_at     TEXT NOT NULL,
	finished_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at a single
	// connection like the rest of this codebase does.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add persists a run record. A missing ID is filled in with a fresh UUID;
// the stored record is returned.
func (s *Store) Add(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, tag, fetched, exported, binary_skipped, truncated, directory, report_path, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Tag, rec.Fetched, rec.Exported, rec.BinarySkipped,
		boolToInt(rec.Truncated), rec.Directory, rec.ReportPath,
		// Stored in UTC: ORDER BY compares these strings lexicographically,
		// which only works when every row carries the same offset.
		rec.Started.UTC().Format(time.RFC3339), rec.Finished.UTC().Format(time.RFC3339))
	if err != nil {
		return Record{}, fmt.Errorf("failed to record run: %w", err)
	}
	return rec, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tag, fetched, exported, binary_skipped, truncated, directory, report_path, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var truncated int
		var started, finished string
		if err := rows.Scan(&rec.ID, &rec.Tag, &rec.Fetched, &rec.Exported, &rec.BinarySkipped,
			&truncated, &rec.Directory, &rec.ReportPath, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.Truncated = truncated != 0
		rec.Started, _ = time.Parse(time.RFC3339, started)
		rec.Finished, _ = time.Parse(time.RFC3339, finished)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
