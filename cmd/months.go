package cmd

import (
	"github.com/huangsam/ridestats/core"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
	"github.com/spf13/cobra"
)

// monthsCmd groups the month-bucketed series.
var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Show distance or speed bucketed by month.",
	Long: `Bucket rides by calendar month (UTC) and chart one metric per month.

By default every track point contributes to the month it was recorded in.
With --per-ride each ride contributes once, to the month it started in.

Subcommands:
  distance - Kilometers ridden per month
  speed    - Average speed per month in km/h

Examples:
  # Distance per month from track points
  ridestats months distance

  # Average ride speed per month
  ridestats months speed --per-ride`,
}

// monthsDistanceCmd shows distance per month.
var monthsDistanceCmd = &cobra.Command{
	Use:     "distance",
	Short:   "Show kilometers ridden per month.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMonths(schema.DistanceMetric)(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run monthly distance", err)
		}
	},
}

// monthsSpeedCmd shows average speed per month.
var monthsSpeedCmd = &cobra.Command{
	Use:     "speed",
	Short:   "Show average speed per month.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMonths(schema.SpeedMetric)(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run monthly speed", err)
		}
	},
}
