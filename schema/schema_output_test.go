package schema_test

import (
	"testing"
	"time"

	"github.com/huangsam/ridestats/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetManeuverLabel(t *testing.T) {
	tests := []struct {
		name      string
		maneuvers int
		expected  string
	}{
		{"Critical Upper", 100, "Critical"},
		{"Critical Lower", 20, "Critical"},
		{"High Upper", 19, "High"},
		{"High Lower", 10, "High"},
		{"Moderate Upper", 9, "Moderate"},
		{"Moderate Lower", 3, "Moderate"},
		{"Low Upper", 2, "Low"},
		{"Low Zero", 0, "Low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetManeuverLabel(tt.maneuvers))
		})
	}
}

func TestEnrichRides(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	rides := []schema.Ride{
		{Label: "a.gpx", Start: start, End: start.Add(30 * time.Minute), Distance: 18, FastAccelerationCount: 15, FastDecelerationCount: 10},
		{Label: "b.gpx", Start: start, End: start, Distance: 1},
	}

	enriched := schema.EnrichRides(rides, 10)

	assert.Len(t, enriched, 2)
	assert.Equal(t, 11, enriched[0].Rank)
	assert.Equal(t, "Critical", enriched[0].Severity)
	assert.InDelta(t, 30.0, enriched[0].DurationMin, 1e-9)
	assert.InDelta(t, 10.0, enriched[0].AvgSpeed, 1e-9)
	assert.Equal(t, "a.gpx", enriched[0].Label)

	assert.Equal(t, 12, enriched[1].Rank)
	assert.Equal(t, "Low", enriched[1].Severity)
	assert.Zero(t, enriched[1].AvgSpeed)
}
