package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStore persists run state as a single row in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed store at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createStateTable(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteStore] Initialized with database: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

func createStateTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS run_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		last_run DATETIME NOT NULL,
		state_json TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	_, err := db.Exec(query)
	return err
}

// Load retrieves the single persisted run state row.
func (s *SQLiteStore) Load(ctx context.Context) (RunState, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state_json FROM run_state WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return RunState{}, ErrNotFound
	}
	if err != nil {
		return RunState{}, fmt.Errorf("failed to load run state: %w", err)
	}

	var st RunState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return RunState{}, fmt.Errorf("failed to parse run state: %w", err)
	}
	applyDefaults(&st)
	return st, nil
}

// Save upserts the single run state row.
func (s *SQLiteStore) Save(ctx context.Context, st RunState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode run state: %w", err)
	}

	query := `
		INSERT INTO run_state (id, last_run, state_json, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_run = excluded.last_run,
			state_json = excluded.state_json,
			updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query, st.LastRun.UTC(), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save run state: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
