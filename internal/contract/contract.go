// Package contract provides interfaces and shared utilities for the ridestats internal architecture.
package contract

import (
	"errors"

	"github.com/huangsam/ridestats/schema"
)

// ErrRideNotFound is returned when a ride ID does not exist in the store.
var ErrRideNotFound = errors.New("ride not found")

// CacheManager defines the interface for managing the cache and ride stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetCacheStore() CacheStore
	GetRideStore() RideStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RideStore defines the interface for persisting rides and their track points.
type RideStore interface {
	// SaveRides stores rides atomically as one ingest batch. It assigns IDs
	// and returns the batch generation along with the saved rides.
	SaveRides(rides []schema.Ride) (int64, []schema.Ride, error)

	// ListRides returns every ride ordered by start time, oldest first
	ListRides(withPoints bool) ([]schema.Ride, error)

	// ListRidesPage returns one page of rides, newest first. Pages start at 1.
	ListRidesPage(page, size int) ([]schema.Ride, error)

	// GetRide returns a single ride by ID
	GetRide(id string, withPoints bool) (schema.Ride, error)

	// CountRides returns the number of stored rides
	CountRides() (int, error)

	// Totals returns fleet-wide sums over all rides
	Totals() (schema.RideTotals, error)

	// Generation returns the latest ingest batch generation, 0 when empty
	Generation() (int64, error)

	// GetStatus returns status information about the ride store
	GetStatus() (schema.RideStoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
