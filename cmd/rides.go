package cmd

import (
	"fmt"

	"github.com/huangsam/ridestats/core"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/iocache"
	"github.com/huangsam/ridestats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadRideBackend reads and validates the ride backend settings.
func loadRideBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend, err := contract.ParseDatabaseBackend(viper.GetString("ride-backend"), schema.SQLiteBackend)
	if err != nil {
		return "", "", fmt.Errorf("invalid ride backend: %w", err)
	}
	connStr := viper.GetString("ride-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr, "ride-db-connect"); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// rideSetup loads minimal configuration needed for ride store maintenance.
func rideSetup() error {
	backend, connStr, err := loadRideBackend()
	if err != nil {
		return err
	}

	// Initialize the ride store only (no query cache for maintenance commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize ride store: %w", err)
	}

	cfg.RideBackend = backend
	cfg.RideDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// rideSetupWrapper wraps rideSetup to provide PreRunE for ride maintenance commands.
func rideSetupWrapper(_ *cobra.Command, _ []string) error {
	return rideSetup()
}

// rideMigrateSetup loads minimal configuration needed for clear and migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func rideMigrateSetup() error {
	backend, connStr, err := loadRideBackend()
	if err != nil {
		return err
	}

	cfg.RideBackend = backend
	cfg.RideDBConnect = connStr

	return nil
}

// rideMigrateSetupWrapper wraps rideMigrateSetup to provide PreRunE for clear and migrate.
func rideMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return rideMigrateSetup()
}

// ridesCmd groups per-ride views and ride storage management.
//
// Note: list, show and thumbnail use the full sharedSetup. The maintenance
// subcommands use minimal initialization so they work without a query cache.
var ridesCmd = &cobra.Command{
	Use:   "rides",
	Short: "List, inspect and manage stored rides",
	Long: `Work with individual rides and the ride store.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list      - Page through rides, newest first
  show      - Speed, elevation and acceleration series of one ride
  thumbnail - Render the track of one ride as a PNG icon
  export    - Export rides and track points to Parquet
  status    - Show ride store statistics
  clear     - Remove all stored rides
  migrate   - Run database schema migrations

Examples:
  # Second page of rides in mph
  ridestats rides list --page 2 --speed-unit mph

  # Export for analysis in pandas/DuckDB
  ridestats rides export --output-file ride-data`,
}

// ridesListCmd shows one page of rides.
var ridesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Page through stored rides, newest first.",
	Long: `List stored rides ordered by start time, newest first.

Each ride shows its label, start time, duration, distance, average and top
speed, maneuver count and severity. Ranks keep counting across pages.

Examples:
  # First page with the default page size
  ridestats rides list

  # Third page of 25 rides as CSV
  ridestats rides list --page 3 --page-size 25 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRidesList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list rides", err)
		}
	},
}

// ridesShowCmd shows the detail series of one ride.
var ridesShowCmd = &cobra.Command{
	Use:   "show <ride-id>",
	Short: "Show the dynamics of a single ride.",
	Long: `Show the speed, running average, elevation and acceleration series
of one ride, one row per track point.

Acceleration and deceleration only chart points beyond their thresholds;
other points are reported as zero.

Examples:
  # Inspect a ride
  ridestats rides show 5f0c1c8e-2d0b-4a43-9a7e-0d1f0b7b2c11

  # Only chart strong braking
  ridestats rides show <ride-id> --decel-threshold -2 --output html --output-file ride.html`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteRideShow(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot show ride", err)
		}
	},
}

// ridesThumbnailCmd renders a ride track as a PNG.
var ridesThumbnailCmd = &cobra.Command{
	Use:   "thumbnail <ride-id>",
	Short: "Render the track of a single ride as a PNG icon.",
	Long: `Draw the GPS track of one ride as white lines on a transparent square.

The track is scaled uniformly to fit and centered, so the shape of the
route is preserved.

Examples:
  # Write a 50x50 icon
  ridestats rides thumbnail <ride-id> --output-file ride.png

  # Larger icon
  ridestats rides thumbnail <ride-id> --size 200 --output-file ride.png`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteRideThumbnail(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot render thumbnail", err)
		}
	},
}

// ridesExportCmd exports rides to Parquet files.
var ridesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export rides and track points to Parquet files",
	Long: `Export every stored ride and track point to Parquet files.

Creates two files from the --output-file prefix:
- <prefix>.rides.parquet        - One row per ride with its metrics
- <prefix>.track_points.parquet - One row per track point

Examples:
  # Export to ride-data.rides.parquet and ride-data.track_points.parquet
  ridestats rides export --output-file ride-data`,
	Args:    cobra.NoArgs,
	PreRunE: rideSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRideExport(iocache.Manager.GetRideStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export rides", err)
		}
	},
}

// ridesStatusCmd shows ride store status.
var ridesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ride store statistics",
	Long: `Show information about the ride store.

Displays:
- Backend type and connection status
- Total number of rides and track points
- Upload generation
- Newest and oldest ride start times

Examples:
  # Check ride store status
  ridestats rides status`,
	Args:    cobra.NoArgs,
	PreRunE: rideSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRideStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get ride store status", err)
		}
		iocache.PrintRideStatus(status)
	},
}

// ridesClearCmd removes all stored rides.
var ridesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored rides",
	Long: `Delete all stored rides and track points.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the ride tables and migration history

Examples:
  # Clear the default SQLite ride store
  ridestats rides clear`,
	Args:    cobra.NoArgs,
	PreRunE: rideMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := contract.GetRideDBFilePath()
		if cfg.RideBackend == schema.SQLiteBackend && cfg.RideDBConnect != "" {
			dbFilePath = cfg.RideDBConnect
		}
		if err := iocache.ClearRides(cfg.RideBackend, dbFilePath, cfg.RideDBConnect); err != nil {
			contract.LogFatal("Failed to clear rides", err)
		}
		fmt.Println("Rides cleared successfully.")
	},
}

// ridesMigrateCmd runs ride schema migrations.
var ridesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run ride store schema migrations",
	Long: `Apply or roll back database schema migrations for the ride store.

Examples:
  # Migrate to the latest schema
  ridestats rides migrate

  # Roll back every migration
  ridestats rides migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: rideMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRides(cfg.RideBackend, cfg.RideDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
