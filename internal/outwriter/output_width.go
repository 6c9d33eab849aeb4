package outwriter

import (
	"os"

	"github.com/huangsam/ridestats/internal/contract"
	"golang.org/x/term"
)

// getMaxTableLabelWidth calculates the maximum width for ride labels in table output
// based on terminal width and the fixed ride columns.
func getMaxTableLabelWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + ID + Start + Minutes + Distance + Avg + Max + Maneuvers + Severity
	baseWidth := 110

	// Table borders, separators and padding
	baseWidth += 20

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 50 {
		return 50
	}
	return available
}
