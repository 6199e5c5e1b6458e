package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"visit-scheduler-service/internal/ports"
)

// SQLite-backed implementation of the StateStore port. The snapshot is a
// flat key-value table with one JSON document per section, replaced
// atomically on every save.
type SqliteStore struct {
	DB *sql.DB
}

func NewSqliteStore(db *sql.DB) *SqliteStore {
	return &SqliteStore{DB: db}
}

// OpenSqlite opens the local state database.
func OpenSqlite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite state %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", path, err)
	}
	return db, nil
}

// Initialize the snapshot schema.
func (s *SqliteStore) InitSchema() error {
	if s.DB == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS state_snapshot (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.DB.Exec(q); err != nil {
		return fmt.Errorf("init schema: create state_snapshot: %w", err)
	}
	return nil
}

// Load reads the persisted snapshot. Missing rows yield a zero snapshot.
func (s *SqliteStore) Load(ctx context.Context) (ports.Snapshot, error) {
	if s.DB == nil {
		return ports.Snapshot{}, errors.New("state store: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT key, value FROM state_snapshot;`)
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("load snapshot: query state_snapshot: %w", err)
	}
	defer rows.Close()

	raw := make(map[string][]byte)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return ports.Snapshot{}, fmt.Errorf("load snapshot: scan row: %w", err)
		}
		raw[key] = []byte(value)
	}
	if err := rows.Err(); err != nil {
		return ports.Snapshot{}, fmt.Errorf("load snapshot: row iteration: %w", err)
	}

	return decodeSnapshot(raw)
}

// Save replaces the persisted snapshot in a single transaction.
func (s *SqliteStore) Save(ctx context.Context, snap ports.Snapshot) error {
	if s.DB == nil {
		return errors.New("state store: DB is nil")
	}

	sections, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM state_snapshot;`); err != nil {
		return fmt.Errorf("save snapshot: clear state_snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO state_snapshot (key, value) VALUES (?, ?);`)
	if err != nil {
		return fmt.Errorf("save snapshot: db prepare: %w", err)
	}
	defer stmt.Close()

	for key, value := range sections {
		if _, err := stmt.ExecContext(ctx, key, string(value)); err != nil {
			return fmt.Errorf("save snapshot key=%q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

const (
	keyLists    = "lists"
	keySchedule = "schedule"
	keySettings = "settings"
)

func encodeSnapshot(snap ports.Snapshot) (map[string][]byte, error) {
	out := make(map[string][]byte, 3)
	for key, v := range map[string]any{
		keyLists:    snap.Lists,
		keySchedule: snap.Schedule,
		keySettings: snap.Settings,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		out[key] = b
	}
	return out, nil
}

func decodeSnapshot(raw map[string][]byte) (ports.Snapshot, error) {
	var snap ports.Snapshot
	if b, ok := raw[keyLists]; ok {
		if err := json.Unmarshal(b, &snap.Lists); err != nil {
			return ports.Snapshot{}, fmt.Errorf("load snapshot: parse lists: %w", err)
		}
	}
	if b, ok := raw[keySchedule]; ok {
		if err := json.Unmarshal(b, &snap.Schedule); err != nil {
			return ports.Snapshot{}, fmt.Errorf("load snapshot: parse schedule: %w", err)
		}
	}
	if b, ok := raw[keySettings]; ok {
		if err := json.Unmarshal(b, &snap.Settings); err != nil {
			return ports.Snapshot{}, fmt.Errorf("load snapshot: parse settings: %w", err)
		}
	}
	return snap, nil
}
