package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/nickholt/routine/internal/logger"
	"github.com/nickholt/routine/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	days_of_week INTEGER NOT NULL,
	start_date TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
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

// Store is the PostgreSQL persistence backend. It shares the staged-journal
// contract with the sqlite backend: repository mutations accumulate in
// memory and Save flushes them in one transaction.
type Store struct {
	connStr string
	db      *sql.DB
	pending []pendingOp
}

type pendingOp struct {
	desc string
	exec func(tx *sql.Tx) error
}

// New creates a postgres store for the given connection string. The string
// must not embed a password; see ResolveConnectionString.
func New(connStr string) *Store {
	return &Store{connStr: connStr}
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if err := s.open(); err != nil {
		return err
	}

	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM information_schema.tables WHERE table_name = 'activities'
	)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, err)
	}
	if !exists {
		return storage.ErrNotInitialized
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
	return RedactConnectionString(s.connStr)
}

func (s *Store) stage(op pendingOp) {
	s.pending = append(s.pending, op)
}

func (s *Store) HasPendingChanges() bool {
	return len(s.pending) > 0
}

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
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = $1`, lastActiveKey).Scan(&value)
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
		_, err := s.db.Exec(`DELETE FROM settings WHERE key = $1`, lastActiveKey)
		if err != nil {
			return fmt.Errorf("%w: %v", storage.ErrCouldNotPersist, err)
		}
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		lastActiveKey, settings.LastActive.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCouldNotPersist, err)
	}
	return nil
}
