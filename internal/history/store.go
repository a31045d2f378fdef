// Package history keeps a local index of past builds.
//
// Every executed build is recorded as one row in a SQLite database
// (~/.studiofold/history.db by default) so builds can be listed without
// locating their manifests on disk.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	seq              INTEGER PRIMARY KEY AUTOINCREMENT,
	id               TEXT NOT NULL UNIQUE,
	executed_at      TEXT NOT NULL,
	root             TEXT NOT NULL,
	project          TEXT NOT NULL,
	template         TEXT NOT NULL,
	template_version TEXT NOT NULL,
	mode             TEXT NOT NULL,
	overwrite        INTEGER NOT NULL,
	created_dirs     INTEGER NOT NULL,
	created_files    INTEGER NOT NULL,
	skipped          INTEGER NOT NULL,
	errors           INTEGER NOT NULL,
	manifest_path    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS builds_executed_at ON builds (executed_at);
`

// Entry is one recorded build.
type Entry struct {
	ID              string `json:"id"`
	ExecutedAt      string `json:"executed_at"`
	Root            string `json:"root"`
	Project         string `json:"project"`
	Template        string `json:"template"`
	TemplateVersion string `json:"template_version"`
	Mode            string `json:"mode"`
	Overwrite       bool   `json:"overwrite"`
	CreatedDirs     int    `json:"created_dirs"`
	CreatedFiles    int    `json:"created_files"`
	Skipped         int    `json:"skipped"`
	Errors          int    `json:"errors"`
	ManifestPath    string `json:"manifest_path"`
}

// Store records and lists builds.
type Store interface {
	// Record appends a build entry.
	Record(ctx context.Context, e Entry) error

	// List returns up to limit entries, newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Close releases the underlying database.
	Close() error
}

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Record appends a build entry.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO builds (id, executed_at, root, project, template, template_version, mode,
	overwrite, created_dirs, created_files, skipped, errors, manifest_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ExecutedAt, e.Root, e.Project, e.Template, e.TemplateVersion, e.Mode,
		e.Overwrite, e.CreatedDirs, e.CreatedFiles, e.Skipped, e.Errors, e.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to record build %s: %w", e.ID, err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, executed_at, root, project, template, template_version, mode,
	overwrite, created_dirs, created_files, skipped, errors, manifest_path
FROM builds
ORDER BY executed_at DESC, seq DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ExecutedAt, &e.Root, &e.Project, &e.Template, &e.TemplateVersion, &e.Mode,
			&e.Overwrite, &e.CreatedDirs, &e.CreatedFiles, &e.Skipped, &e.Errors, &e.ManifestPath); err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
