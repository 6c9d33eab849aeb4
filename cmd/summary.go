package cmd

import (
	"github.com/huangsam/ridestats/core"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd shows the dashboard summary across every ride.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals and averages across every ride.",
	Long: `Summarize every stored ride into a single dashboard.

Shows:
- Ride count, total distance and total duration
- Average trip length and average speed
- Top speed across all rides
- Hard braking events and g-force alerts
- Fleet smoothness score

Examples:
  # Print the summary table
  ridestats summary

  # Render the summary as an HTML chart
  ridestats summary --output html --output-file summary.html`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run summary", err)
		}
	},
}
