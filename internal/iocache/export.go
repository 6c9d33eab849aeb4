package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/parquet"
)

// ExecuteRideExport writes every stored ride and track point to Parquet files
// named after the outputFile prefix.
func ExecuteRideExport(store contract.RideStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get ride store status: %w", err)
	}
	if status.TotalRides == 0 {
		return errors.New("no rides found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total rides: %d\n", status.TotalRides)
	fmt.Printf("Total track points: %d\n", status.TotalPoints)

	rides, err := store.ListRides(true)
	if err != nil {
		return fmt.Errorf("failed to retrieve rides: %w", err)
	}

	rideRows := parquet.ConvertRides(rides)
	ridesFile := outputFile + ".rides.parquet"
	if err := parquet.WriteRidesParquet(rideRows, ridesFile); err != nil {
		return fmt.Errorf("failed to write rides: %w", err)
	}
	fmt.Printf("Exported %d rides to: %s\n", len(rideRows), ridesFile)

	pointRows := parquet.ConvertTrackPoints(rides)
	pointsFile := outputFile + ".track_points.parquet"
	if err := parquet.WriteTrackPointsParquet(pointRows, pointsFile); err != nil {
		return fmt.Errorf("failed to write track points: %w", err)
	}
	fmt.Printf("Exported %d track points to: %s\n", len(pointRows), pointsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")

	return nil
}
