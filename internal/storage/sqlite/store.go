package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nickholt/routine/internal/logger"
	"github.com/nickholt/routine/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	days_of_week INTEGER NOT NULL,
	start_date TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS completions (
	id TEXT PRIMARY KEY,
	activity_id TEXT NOT NULL,
	day TEXT NOT NULL,
	status INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_completions_activity ON completions(activity_id);
CREATE INDEX IF NOT EXISTS idx_completions_day ON completions(day);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const lastActiveKey = "last_active"

// Store is the sqlite persistence backend. Repository mutations are staged
// into a journal and flushed by Save inside one transaction.
type Store struct {
	path    string
	db      *sql.DB
	pending []pendingOp
}

type pendingOp struct {
	desc string
	exec func(tx *sql.Tx) error
}

func New(path string) *Store {
	return &Store{path: path}
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

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Schema creation is idempotent; running it on open keeps databases from
	// older versions usable.
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Location() string {
	return s.path
}

func (s *Store) stage(op pendingOp) {
	s.pending = append(s.pending, op)
}

func (s *Store) HasPendingChanges() bool {
	return len(s.pending) > 0
}

// Save flushes all staged mutations in a single transaction. On failure the
// journal is kept so a later Save can retry.
func (s *Store) Save() error {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCouldNotPersist, err)
	}

	for _, op := range s.pending {
		if err := op.exec(tx); err != nil {
			_ = tx.Rollback()
			logger.Error("Failed to flush staged mutation", "op", op.desc, "error", err)
			return fmt.Errorf("%w: %s: %v", storage.ErrCouldNotPersist, op.desc, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCouldNotPersist, err)
	}

	logger.Debug("Flushed staged mutations", "count", len(s.pending))
	s.pending = nil
	return nil
}

func (s *Store) GetSettings() (storage.Settings, error) {
	var settings storage.Settings

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, lastActiveKey).Scan(&value)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, err)
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return settings, fmt.Errorf("failed to parse last_active: %w", err)
	}
	settings.LastActive = &t

	return settings, nil
}

func (s *Store) SaveSettings(settings storage.Settings) error {
	if settings.LastActive == nil {
		_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, lastActiveKey)
		if err != nil {
			return fmt.Errorf("%w: %v", storage.ErrCouldNotPersist, err)
		}
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastActiveKey, settings.LastActive.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCouldNotPersist, err)
	}
	return nil
}
