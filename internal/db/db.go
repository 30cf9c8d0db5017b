// Package db provides SQLite persistence for local client state:
// credentials, search history and cached unread counters.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle used by the repositories.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string, busyTimeoutMs int) (*DB, error) {
	if busyTimeoutMs <= 0 {
		busyTimeoutMs = 5000
	}
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)", path, busyTimeoutMs)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.ensureSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying handle.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func (db *DB) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS credentials (
			slot TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			access_token TEXT NOT NULL DEFAULT '',
			refresh_token TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			term TEXT PRIMARY KEY,
			searched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS search_history_recency_idx ON search_history(searched_at)`,
		`CREATE TABLE IF NOT EXISTS unread_stats (
			slot TEXT PRIMARY KEY,
			total INTEGER NOT NULL DEFAULT 0,
			system INTEGER NOT NULL DEFAULT 0,
			reply INTEGER NOT NULL DEFAULT 0,
			liked INTEGER NOT NULL DEFAULT 0,
			follow INTEGER NOT NULL DEFAULT 0,
			mention INTEGER NOT NULL DEFAULT 0,
			private INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
