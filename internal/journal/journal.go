// Package journal is the local fallback store for workout logs. When the
// Postgres database is unreachable, completed-exercise summaries are
// appended here and replayed on the next successful connection, so a dead
// network never loses a workout.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/claude/gymbuddy/internal/storage"
)

// DB is a SQLite-backed journal of workout-log rows awaiting sync.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at dir/journal.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS pending_logs (
		id         TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		synced     INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal table: %w", err)
	}

	return &DB{db: db}, nil
}

// Append stores a workout-log row for later sync.
func (j *DB) Append(row storage.WorkoutLogRow) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encoding journal entry: %w", err)
	}
	_, err = j.db.Exec(
		`INSERT OR REPLACE INTO pending_logs (id, payload, synced) VALUES (?, ?, 0)`,
		row.ID.String(), string(payload))
	if err != nil {
		return fmt.Errorf("appending journal entry: %w", err)
	}
	return nil
}

// Pending returns every journaled row not yet synced, oldest first.
func (j *DB) Pending() ([]storage.WorkoutLogRow, error) {
	rows, err := j.db.Query(
		`SELECT payload FROM pending_logs WHERE synced = 0 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying pending entries: %w", err)
	}
	defer rows.Close()

	var result []storage.WorkoutLogRow
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		var r storage.WorkoutLogRow
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decoding journal entry: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// MarkSynced flags one entry as successfully written to Postgres.
func (j *DB) MarkSynced(id string) error {
	_, err := j.db.Exec(`UPDATE pending_logs SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking journal entry synced: %w", err)
	}
	return nil
}

// Close closes the journal database.
func (j *DB) Close() error {
	return j.db.Close()
}
