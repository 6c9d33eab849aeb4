package cmd

import (
	"github.com/huangsam/ridestats/core"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/spf13/cobra"
)

// ingestCmd parses GPX files and stores them as rides.
var ingestCmd = &cobra.Command{
	Use:   "ingest <file.gpx> [file.gpx...]",
	Short: "Ingest GPX files as rides.",
	Long: `Parse one or more GPX files and store each of them as a ride.

Every file becomes one ride with its track points, distance, duration,
speeds, elevation and acceleration metrics computed up front. Files are
parsed concurrently, and the upload is all or nothing: one bad file
rejects the whole batch.

Limits:
- Up to 50 files per upload
- Up to 5 MB per file
- Only .gpx files are accepted

Examples:
  # Ingest a single ride
  ridestats ingest morning.gpx

  # Ingest a batch and keep the report as JSON
  ridestats ingest rides/*.gpx --output json --output-file ingest.json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteIngest(rootCtx, cfg, cacheManager, args); err != nil {
			contract.LogFatal("Cannot ingest rides", err)
		}
	},
}
