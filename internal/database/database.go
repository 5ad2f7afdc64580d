// Package database persists raw forecast pulls and evaluation history in SQLite
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path of the surf-lamp database
func DBPath() string {
	return filepath.Join("data", "surf-lamp.db")
}

// EnsureSchema creates the pulls and evaluations tables if they do not exist.
// Existing rows are never touched.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS pulls (
			id TEXT PRIMARY KEY,
			window_start TEXT NOT NULL,
			window_end TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			body BLOB NOT NULL,
			cost INTEGER NOT NULL DEFAULT 0,
			request_count INTEGER NOT NULL DEFAULT 0,
			daily_quota INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_pulls_fetched_at ON pulls(fetched_at);

		CREATE TABLE IF NOT EXISTS evaluations (
			id TEXT PRIMARY KEY,
			window_start TEXT NOT NULL,
			rating INTEGER NOT NULL,
			best_at TEXT,
			slots INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// openDB opens the database file, creating its directory when needed
func openDB(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one writer at a time; the daemon and the HTTP handlers share this handle
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
