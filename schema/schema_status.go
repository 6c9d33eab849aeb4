package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// RideStoreStatus represents the status of the ride store.
type RideStoreStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalRides      int              `json:"total_rides"`
	TotalPoints     int              `json:"total_points"`
	TotalBatches    int              `json:"total_batches"`
	Generation      int64            `json:"generation"`
	LastIngestTime  time.Time        `json:"last_ingest_time"`
	FirstIngestTime time.Time        `json:"first_ingest_time"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}
