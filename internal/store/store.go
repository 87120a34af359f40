package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store is the SQLite persistence backend for task history, daily
// statistics, settings and the interval log.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
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
	CREATE TABLE IF NOT EXISTS completed_tasks (
		seq              INTEGER PRIMARY KEY AUTOINCREMENT,
		id               TEXT NOT NULL UNIQUE,
		name             TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		session_count    INTEGER NOT NULL DEFAULT 1,
		completed_at     TEXT NOT NULL,
		date             TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_completed_tasks_date ON completed_tasks(date);
	CREATE INDEX IF NOT EXISTS idx_completed_tasks_name ON completed_tasks(name);

	CREATE TABLE IF NOT EXISTS daily_stats (
		date            TEXT PRIMARY KEY,
		sessions        INTEGER NOT NULL DEFAULT 0,
		total_minutes   INTEGER NOT NULL DEFAULT 0,
		tasks_completed INTEGER NOT NULL DEFAULT 0,
		last_updated    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS intervals (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		mode            TEXT NOT NULL,
		planned_seconds INTEGER NOT NULL,
		task_name       TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'running',
		started_at      TEXT NOT NULL,
		finished_at     TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_intervals_started ON intervals(started_at);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('work_minutes',               '25'),
		('break_minutes',              '5'),
		('long_break_minutes',         '15'),
		('sessions_before_long_break', '4'),
		('sound_enabled',              'true'),
		('dark_mode',                  'false');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/pomo/pomo.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pomo", "pomo.db"), nil
}
