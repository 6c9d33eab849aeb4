package agg

import (
	"fmt"
	"math"
	"time"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
)

// NewSummary computes the dashboard summary over rides held in memory.
func NewSummary(rides []Ride) schema.Summary {
	totals := schema.RideTotals{Count: len(rides)}
	var smoothness RunningAverage
	for _, r := range rides {
		totals.Distance += r.Distance
		totals.FastAccelerations += r.FastAccelerationCount
		totals.FastDecelerations += r.FastDecelerationCount
		smoothness.Add(float64(r.SmoothnessScore))
	}
	totals.SmoothnessScore = smoothness.Value()
	return Summarize(totals, rides)
}

// LoadSummary computes the summary with fleet totals taken from the store.
// Track points are not loaded.
func LoadSummary(store contract.RideStore) (schema.Summary, error) {
	totals, err := store.Totals()
	if err != nil {
		return schema.Summary{}, fmt.Errorf("error loading ride totals: %w", err)
	}
	rides, err := store.ListRides(false)
	if err != nil {
		return schema.Summary{}, fmt.Errorf("error listing rides: %w", err)
	}
	return Summarize(totals, rides), nil
}

// Summarize combines store totals with per-ride averages.
func Summarize(totals schema.RideTotals, rides []Ride) schema.Summary {
	s := schema.Summary{
		RideCount:         totals.Count,
		TotalDistance:     totals.Distance,
		HardBrakingEvents: totals.HardBrakingEvents(),
		GForceAlerts:      totals.GForceAlerts(),
		SmoothnessScore:   round2(totals.SmoothnessScore),
	}
	if len(rides) == 0 {
		return s
	}

	var minutes, speed RunningAverage
	var maxSpeed float64
	var total time.Duration
	for _, r := range rides {
		total += r.Duration()
		minutes.Add(r.Duration().Minutes())
		speed.Add(units.ConvertSpeed(r.AvgSpeed(), units.KPH))
		maxSpeed = max(maxSpeed, r.MaxSpeed)
	}
	s.TotalDuration = total
	s.AverageTripMinutes = round2(minutes.Value())
	s.AverageSpeedKmh = round2(speed.Value())
	s.MaxSpeedKmh = round2(units.ConvertSpeed(maxSpeed, units.KPH))
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
