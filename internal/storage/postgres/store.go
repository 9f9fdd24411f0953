package postgres

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/logger"
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
	done           BOOLEAN NOT NULL DEFAULT FALSE
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
	start_at    TIMESTAMPTZ NOT NULL
);
`

type Store struct {
	connStr string
	db      *sql.DB
}

func NewStore(connStr string) *Store {
	s := &Store{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

func (s *Store) ensureSearchPath() {
	// Keep fortress tables in their own schema on shared servers
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}
	if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasParam reports whether a DSN-style connection string contains the
// given parameter key (case-insensitive).
func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", constants.AppName)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	return nil
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetConfigPath returns the connection string identifying this store.
func (s *Store) GetConfigPath() string {
	return s.connStr
}
