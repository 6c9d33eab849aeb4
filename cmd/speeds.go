package cmd

import (
	"github.com/huangsam/ridestats/core"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/spf13/cobra"
)

// speedsCmd groups the speed views over all track points.
var speedsCmd = &cobra.Command{
	Use:   "speeds",
	Short: "Show how fast rides tend to be.",
	Long: `Inspect the speed of every stored track point in km/h.

Subcommands:
  histogram    - Count points per speed bin
  distribution - Every point speed, with quantiles in text mode

Examples:
  # Histogram with 10 km/h bins
  ridestats speeds histogram --bin-size 10

  # Dump every speed sample for plotting elsewhere
  ridestats speeds distribution --output csv --output-file speeds.csv`,
}

// speedsHistogramCmd shows the binned speed histogram.
var speedsHistogramCmd = &cobra.Command{
	Use:     "histogram",
	Short:   "Count track points per speed bin.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSpeedHistogram(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run speed histogram", err)
		}
	},
}

// speedsDistributionCmd shows every track point speed.
var speedsDistributionCmd = &cobra.Command{
	Use:     "distribution",
	Short:   "Show the speed of every track point.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSpeedDistribution(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run speed distribution", err)
		}
	},
}
