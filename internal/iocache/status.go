package iocache

import (
	"fmt"
	"sort"

	"github.com/huangsam/ridestats/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintRideStatus prints ride store status information.
func PrintRideStatus(status schema.RideStoreStatus) {
	fmt.Printf("Ride Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Rides: %d\n", status.TotalRides)
	fmt.Printf("Total Track Points: %d\n", status.TotalPoints)
	if status.TotalBatches > 0 {
		fmt.Printf("Ingest Batches: %d\n", status.TotalBatches)
		fmt.Printf("Generation: %d\n", status.Generation)
		fmt.Printf("Last Ingest: %s\n", status.LastIngestTime.Format(statusTimeFormat))
		fmt.Printf("First Ingest: %s\n", status.FirstIngestTime.Format(statusTimeFormat))
	}
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
