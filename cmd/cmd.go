// Package cmd defines the command-line interface for ridestats.
package cmd

import (
	"github.com/huangsam/ridestats/core/agg"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(monthsCmd)
	rootCmd.AddCommand(speedsCmd)
	rootCmd.AddCommand(ridesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the months subcommands to the parent months command
	monthsCmd.AddCommand(monthsDistanceCmd)
	monthsCmd.AddCommand(monthsSpeedCmd)

	// Add the speeds subcommands to the parent speeds command
	speedsCmd.AddCommand(speedsHistogramCmd)
	speedsCmd.AddCommand(speedsDistributionCmd)

	// Add the rides subcommands to the parent rides command
	ridesCmd.AddCommand(ridesListCmd)
	ridesCmd.AddCommand(ridesShowCmd)
	ridesCmd.AddCommand(ridesThumbnailCmd)
	ridesCmd.AddCommand(ridesExportCmd)
	ridesCmd.AddCommand(ridesStatusCmd)
	ridesCmd.AddCommand(ridesClearCmd)
	ridesCmd.AddCommand(ridesMigrateCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers for ingest")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("speed-unit", contract.DefaultSpeedUnit, "Speed unit for ride tables: "+units.GetValidUnitsString())
	rootCmd.PersistentFlags().Int("page-size", contract.DefaultPageSize, "Number of rides per page")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long memoized query results stay valid")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("ride-backend", string(schema.SQLiteBackend), "Ride storage backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("ride-db-connect", "", "Database connection string for ride storage (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log cache, ingest and store diagnostics to stderr")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of monthsCmd to Viper
	monthsCmd.PersistentFlags().Bool("per-ride", false, "Bucket whole rides by start month instead of track points")
	if err := viper.BindPFlags(monthsCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding months flags", err)
	}

	// Bind all flags of speedsHistogramCmd to Viper
	speedsHistogramCmd.Flags().Int("bin-size", agg.DefaultHistogramBinSize, "Histogram bin width in km/h")
	if err := viper.BindPFlags(speedsHistogramCmd.Flags()); err != nil {
		contract.LogFatal("Error binding speeds flags", err)
	}

	// Bind all flags of ridesListCmd to Viper
	ridesListCmd.Flags().Int("page", 1, "Page number starting at 1")
	if err := viper.BindPFlags(ridesListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rides list flags", err)
	}

	// Bind all flags of ridesShowCmd to Viper
	ridesShowCmd.Flags().Float64("accel-threshold", agg.DefaultAccelerationThreshold, "Acceleration in m/s² at or above which a point is charted")
	ridesShowCmd.Flags().Float64("decel-threshold", agg.DefaultDecelerationThreshold, "Deceleration in m/s² at or below which a point is charted")
	if err := viper.BindPFlags(ridesShowCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rides show flags", err)
	}

	// Bind all flags of ridesThumbnailCmd to Viper
	ridesThumbnailCmd.Flags().Int("size", contract.DefaultThumbnailSize, "Thumbnail width and height in pixels")
	if err := viper.BindPFlags(ridesThumbnailCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rides thumbnail flags", err)
	}

	// Bind all flags of ridesMigrateCmd to Viper
	ridesMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(ridesMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rides migrate flags", err)
	}
}
