package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// ErrNotFound is returned when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("store: not found")

// Store is the local data service. Every query is scoped to the user ID the
// store was opened with, so one database can hold several users' rows.
type Store struct {
	db     *sql.DB
	userID string
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// All subsequent reads and writes are scoped to userID.
func New(dbPath, userID string) (*Store, error) {
	if userID == "" {
		return nil, errors.New("store: empty user id")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, userID: userID}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory(userID string) (*Store, error) {
	return New(":memory:", userID)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) UserID() string {
	return s.userID
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		title          TEXT NOT NULL,
		energy_level   TEXT NOT NULL DEFAULT '',
		time_needed    TEXT NOT NULL DEFAULT '',
		priority       TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'todo',
		execution_time INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at   TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user    ON tasks(user_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status  ON tasks(user_id, status);

	CREATE TABLE IF NOT EXISTS goals (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		title       TEXT NOT NULL,
		type        TEXT NOT NULL,
		timeframe   TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id);

	CREATE TABLE IF NOT EXISTS focus_sessions (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		available_time INTEGER NOT NULL,
		energy_level   TEXT NOT NULL,
		location       TEXT NOT NULL DEFAULT '',
		goal_context   TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON focus_sessions(user_id);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/focusflow/focusflow.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "focusflow", "focusflow.db"), nil
}
