package iocache

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// rideMigrationsTable records the applied ride schema version.
const rideMigrationsTable = "ride_schema_migrations"

// MigrateRides runs database migrations for the ride store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateRides(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return runRideMigrations(backend, connStr, targetVersion, func(format string, v ...any) {
		fmt.Printf(format+"\n", v...)
	})
}

// migrateRidesLatest brings the ride schema up to date, reporting only to the debug log.
func migrateRidesLatest(backend schema.DatabaseBackend, connStr string) error {
	return runRideMigrations(backend, connStr, -1, contract.Logf)
}

func runRideMigrations(backend schema.DatabaseBackend, connStr string, targetVersion int, report func(string, ...any)) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	db, err := openDB(backend, connStr, GetRideDBFilePath())
	if err != nil {
		return err
	}

	// Create a migrate driver instance
	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: rideMigrationsTable})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: rideMigrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: rideMigrationsTable})
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	// Each backend keeps its own dialect under migrations/<backend>
	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}

	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "ridestats", driver)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Closing the migrate instance also closes db
	defer func() { _, _ = m.Close() }()

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			report("No migration needed. Database is already at the latest version.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		newVersion, _, _ := m.Version()
		report("Successfully migrated from version %d to version %d", currentVersion, newVersion)

	case targetVersion == 0:
		// Special case: migrate all the way down to version 0 (no migrations applied)
		err = m.Down()
		if errors.Is(err, migrate.ErrNoChange) {
			report("No migration needed. Database is already at version 0")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		report("Successfully rolled back from version %d to version 0", currentVersion)

	default:
		err = m.Migrate(uint(targetVersion))
		if errors.Is(err, migrate.ErrNoChange) {
			report("No migration needed. Database is already at version %d", targetVersion)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		report("Successfully migrated from version %d to version %d", currentVersion, targetVersion)
	}

	return nil
}
