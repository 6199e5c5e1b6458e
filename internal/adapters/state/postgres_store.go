package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"visit-scheduler-service/internal/ports"
)

// Postgres-backed implementation of the StateStore port, for deployments
// where the schedule outlives a single machine.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// OpenPostgres opens a pooled connection via the pgx stdlib driver.
func OpenPostgres(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres state: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) InitSchema() error {
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

func (s *PostgresStore) Load(ctx context.Context) (ports.Snapshot, error) {
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

func (s *PostgresStore) Save(ctx context.Context, snap ports.Snapshot) error {
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

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO state_snapshot (key, value) VALUES ($1, $2);`)
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
