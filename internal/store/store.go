// Package store owns all durable task and entry state. Every mutation
// commits before returning, so a caller that got a nil error can rely
// on the row being on disk.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database connection.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the default database path (~/.daytrack/daytrack.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".daytrack", "daytrack.db"), nil
}

// Open opens or creates the SQLite database at path and brings its
// schema up to date.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single logical writer; also keeps the pragmas below bound to the
	// one connection everything runs on.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Cascaded entry deletion depends on this pragma.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Path returns the on-disk location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
