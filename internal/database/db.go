// Package database provides the SQLite-backed record store for zonegen.
//
// The database stores:
//   - Zones: one row per registrable domain, created on first use and never
//     removed by normal operation
//   - Records: resource records owned by a zone, keyed by
//     (zone, subdomain, class, type)
//
// Mutations run inside a Tx opened by the caller; reads through DB see
// committed state only. The schema is managed by ordered migrations that
// run on Open.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// FileName is the database file created inside the output directory.
const FileName = "db.sqlite"

// ErrStore is wrapped by every storage failure.
var ErrStore = errors.New("store error")

func storeErr(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, msg, err)
}

// DB wraps a SQLite database connection. It expects a single writer.
type DB struct {
	conn *sql.DB
}

// Open opens or creates a SQLite database at the given path and applies
// pending schema migrations.
func Open(path string) (*DB, error) {
	// WAL lets readers see committed state while a transaction is open.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storeErr("failed to open database", err)
	}

	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	if err := migrateUp(conn); err != nil {
		conn.Close()
		return nil, storeErr("failed to run migrations", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Health checks database connectivity.
func (db *DB) Health() error {
	return db.conn.Ping()
}

// Begin starts the transaction that Add, Delete and Drop run in.
func (db *DB) Begin() (*Tx, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, storeErr("failed to begin transaction", err)
	}
	return &Tx{tx: tx}, nil
}
