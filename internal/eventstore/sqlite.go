package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/RICHELLysS/PufferPet/internal/engine"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteJournal creates a new SQLite-based journal.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return j, nil
}

func (j *SQLiteJournal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		pet_id TEXT,
		species TEXT,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pet_id ON events(pet_id);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_event_type ON events(event_type);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append adds a new event to the journal.
func (j *SQLiteJournal) Append(ctx context.Context, ev engine.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		"INSERT INTO events (event_id, event_type, pet_id, species, timestamp, payload) VALUES (?, ?, ?, ?, ?, ?)",
		ev.ID, string(ev.Type), ev.PetID, string(ev.Species), ev.At.Unix(), payload,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// GetByPet retrieves all events touching a specific pet, oldest first.
func (j *SQLiteJournal) GetByPet(ctx context.Context, petID string) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT seq, event_id, event_type, pet_id, species, timestamp, payload FROM events WHERE pet_id = ? ORDER BY seq",
		petID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return j.scanRecords(rows)
}

// GetRange retrieves events within a time range, oldest first.
func (j *SQLiteJournal) GetRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT seq, event_id, event_type, pet_id, species, timestamp, payload FROM events WHERE timestamp >= ? AND timestamp <= ? ORDER BY seq",
		start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return j.scanRecords(rows)
}

func (j *SQLiteJournal) scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var timestampUnix int64

		err := rows.Scan(&r.Seq, &r.EventID, &r.Type, &r.PetID, &r.Species, &timestampUnix, &r.Payload)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r.At = time.Unix(timestampUnix, 0)

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}
