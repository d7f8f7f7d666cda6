// Package history keeps a record of completed audit runs in SQLite. It
// stores outcomes only, never crawl state: every audit still rebuilds its
// view of the feed from scratch.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one completed audit run.
type Run struct {
	RunID        uuid.UUID `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	BaseURL      string    `json:"base_url"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	LocalCount   int       `json:"local_count"`
	MatchedCount int       `json:"matched_count"`
	MissingCount int       `json:"missing_count"`
}

// Store manages the audit-run history using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database at the given path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the runs table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		base_url TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		local_count INTEGER NOT NULL,
		matched_count INTEGER NOT NULL,
		missing_count INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one completed run.
func (s *Store) Record(run Run) error {
	query := `INSERT INTO runs (run_id, started_at, base_url, from_date, to_date,
		local_count, matched_count, missing_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.StartedAt.UTC().Format(time.RFC3339),
		run.BaseURL,
		run.From,
		run.To,
		run.LocalCount,
		run.MatchedCount,
		run.MissingCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns all recorded runs, most recent first.
func (s *Store) List() ([]Run, error) {
	query := `SELECT run_id, started_at, base_url, from_date, to_date,
		local_count, matched_count, missing_count FROM runs ORDER BY started_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var runID, startedAt string
		if err := rows.Scan(&runID, &startedAt, &run.BaseURL, &run.From, &run.To,
			&run.LocalCount, &run.MatchedCount, &run.MissingCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.RunID, err = uuid.Parse(runID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run id: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
