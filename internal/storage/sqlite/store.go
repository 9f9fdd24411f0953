package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	icon TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS subcategories (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	icon        TEXT NOT NULL DEFAULT '',
	category_id TEXT NOT NULL REFERENCES categories(id)
);

CREATE TABLE IF NOT EXISTS habits (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	icon           TEXT NOT NULL DEFAULT '',
	category_id    TEXT NOT NULL REFERENCES categories(id),
	subcategory_id TEXT NOT NULL REFERENCES subcategories(id),
	duration_days  INTEGER NOT NULL,
	current_streak INTEGER NOT NULL DEFAULT 0,
	done           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS habit_progress (
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	day      TEXT NOT NULL,
	PRIMARY KEY (habit_id, day)
);

CREATE TABLE IF NOT EXISTS counters (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	icon        TEXT NOT NULL DEFAULT '',
	start_at    TEXT NOT NULL
);
`

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.ensureSchema()
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'fortress init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.ensureSchema()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the underlying database file.
//
// Concurrency note: Store serializes access through database/sql; running
// multiple fortress processes against the same file is not supported.
func (s *Store) GetConfigPath() string {
	return s.path
}
