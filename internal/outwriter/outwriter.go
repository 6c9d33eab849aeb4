// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
)

// unsupportedOutput reports an output mode that a result kind cannot be written in.
func unsupportedOutput(mode schema.OutputMode, kind string) error {
	return fmt.Errorf("%s output is not supported for %s", mode, kind)
}

// speedUnit returns the configured display unit, falling back to km/h.
func speedUnit(cfg *contract.Config) string {
	if cfg.SpeedUnit == "" || !units.IsValid(cfg.SpeedUnit) {
		return contract.DefaultSpeedUnit
	}
	return cfg.SpeedUnit
}

// severityLabel returns the maneuver severity, colored when the config asks for it.
func severityLabel(maneuvers int, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(maneuvers)
	}
	return schema.GetManeuverLabel(maneuvers)
}
