package storage

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/uptrace/bun"
)

//go:embed migrations/sqlite3/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate applies every pending embedded migration for the database's dialect.
// The migrator is not closed because its drivers own db.
func Migrate(db *bun.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version and whether it is dirty.
// A database with no migrations applied reports version 0.
func MigrationVersion(db *bun.DB) (uint, bool, error) {
	m, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func newMigrator(db *bun.DB) (*migrate.Migrate, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil database", ErrDriverUnsupported)
	}

	var (
		dir      string
		name     string
		instance database.Driver
		err      error
	)
	switch DriverOf(db) {
	case DriverPostgres:
		dir, name = "migrations/postgres", "postgres"
		instance, err = migratepg.WithInstance(db.DB, &migratepg.Config{})
	default:
		dir, name = "migrations/sqlite3", "sqlite3"
		instance, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("create migration db driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, name, instance)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
