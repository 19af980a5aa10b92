package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"launchintel/internal/model"
	"launchintel/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Store backed by a SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load rebuilds the alert state from the launches and flags tables.
func (s *SQLite) Load(ctx context.Context) (model.AlertState, error) {
	state := model.AlertState{}
	if err := s.loadLaunches(ctx, state); err != nil {
		return nil, err
	}
	if err := s.loadFlags(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *SQLite) loadLaunches(ctx context.Context, state model.AlertState) error {
	rows, err := s.db.QueryContext(ctx, `SELECT launch_id FROM alert_launches ORDER BY launch_id`)
	if err != nil {
		return fmt.Errorf("query launches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan launch: %w", err)
		}
		state[id] = map[string]bool{}
	}
	return rows.Err()
}

func (s *SQLite) loadFlags(ctx context.Context, state model.AlertState) error {
	rows, err := s.db.QueryContext(ctx, `SELECT launch_id, window_key, sent FROM alert_flags`)
	if err != nil {
		return fmt.Errorf("query flags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, key string
		var sent int
		if err := rows.Scan(&id, &key, &sent); err != nil {
			return fmt.Errorf("scan flag: %w", err)
		}
		if state[id] == nil {
			state[id] = map[string]bool{}
		}
		state[id][key] = sent == 1
	}
	return rows.Err()
}

// Save replaces the stored state in a single transaction.
func (s *SQLite) Save(ctx context.Context, state model.AlertState) error {
	now := s.now().UTC().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM alert_flags`); err != nil {
		return fmt.Errorf("clear flags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM alert_launches`); err != nil {
		return fmt.Errorf("clear launches: %w", err)
	}

	for id, flags := range state {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO alert_launches (launch_id, created_at) VALUES (?, ?)`, id, now,
		); err != nil {
			return fmt.Errorf("insert launch: %w", err)
		}
		for key, sent := range flags {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO alert_flags (launch_id, window_key, sent, updated_at) VALUES (?, ?, ?, ?)`,
				id, key, boolToInt(sent), now,
			); err != nil {
				return fmt.Errorf("insert flag: %w", err)
			}
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
