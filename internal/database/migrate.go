package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateUp applies every migration newer than the recorded schema version.
// Running it against an up-to-date database is a no-op.
func migrateUp(conn *sql.DB) error {
	m, err := newMigrator(conn)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the version of the last applied migration.
func (db *DB) SchemaVersion() (uint, error) {
	m, err := newMigrator(db.conn)
	if err != nil {
		return 0, storeErr("failed to read schema version", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, storeErr("failed to read schema version", err)
	}
	if dirty {
		return version, storeErr("failed to read schema version", fmt.Errorf("migration %d is dirty", version))
	}
	return version, nil
}

// newMigrator builds a migrator over conn. The migrator must not be closed:
// closing it would close conn as well.
func newMigrator(conn *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}
