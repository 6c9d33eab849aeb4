package cmd

import (
	"github.com/huangsam/ridestats/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the ridestats MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents query ride analytics
through standard tools.

Tools:
  get_summary, get_monthly_distance, get_monthly_speed,
  get_speed_histogram, list_rides, get_ride_dynamics`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
