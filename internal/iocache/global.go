package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
)

// cacheTable is the name of the table for memoized results.
const cacheTable = "ride_query_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetRideDBFilePath returns the path to the SQLite DB file for ride storage.
func GetRideDBFilePath() string {
	return contract.GetRideDBFilePath()
}

// InitStores initializes the global manager with separate cache and ride stores.
// An empty backend leaves that store uninitialized.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, rideBackend schema.DatabaseBackend, rideConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var cacheStore contract.CacheStore
		if cacheBackend != "" {
			cacheStore, err = NewCacheStore(cacheTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize query caching: %w", err)
				return
			}
		}

		var rideStore contract.RideStore
		if rideBackend != "" {
			rideStore, err = NewRideStore(rideBackend, rideConnStr)
			if err != nil {
				if cacheStore != nil {
					_ = cacheStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize ride store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.cache = cacheStore
		Manager.rides = rideStore
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.cache != nil {
			_ = Manager.cache.Close()
		}
		if Manager.rides != nil {
			_ = Manager.rides.Close()
		}
	})
}

// ClearCache clears the cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, cacheTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearRides deletes every stored ride for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the ride tables and the migration history.
// For NoneBackend, it does nothing.
func ClearRides(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		tables := append(append([]string{}, rideTables...), rideMigrationsTable)
		return clearSQLTables(backend, connStr, tables...)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported ride backend for clearing: %s", backend)
	}
}

func removeSQLiteFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
	}
	// Remove the file; ignore if it doesn't exist
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}

// clearSQLTables connects to the SQL database and drops the tables in order.
func clearSQLTables(backend schema.DatabaseBackend, connStr string, tableNames ...string) error {
	driver := driverName(backend)
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	for _, tableName := range tableNames {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tableName, err)
		}
	}

	return nil
}
