package agg

import (
	"time"

	"github.com/huangsam/ridestats/core/dynamics"
	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
)

// Default thresholds in m/s² below which a maneuver is not charted.
const (
	DefaultAccelerationThreshold = 0.5
	DefaultDecelerationThreshold = -0.5
)

// TimeSeries is a chart series over wall-clock time.
type TimeSeries = []schema.ChartPoint[time.Time, float64]

// SpeedOverTime reports the speed of each point in km/h.
func SpeedOverTime(points []TrackPoint) TimeSeries {
	out := make(TimeSeries, len(points))
	for i, p := range points {
		out[i] = schema.ChartPoint[time.Time, float64]{Label: p.Time, Value: units.ConvertSpeed(p.Speed, units.KPH)}
	}
	return out
}

// RunningAverageSpeed reports the cumulative mean speed in km/h up to each point.
func RunningAverageSpeed(points []TrackPoint) TimeSeries {
	out := make(TimeSeries, len(points))
	var avg RunningAverage
	for i, p := range points {
		avg.Add(units.ConvertSpeed(p.Speed, units.KPH))
		out[i] = schema.ChartPoint[time.Time, float64]{Label: p.Time, Value: avg.Value()}
	}
	return out
}

// ElevationOverTime reports the elevation of each point in meters.
func ElevationOverTime(points []TrackPoint) TimeSeries {
	out := make(TimeSeries, len(points))
	for i, p := range points {
		out[i] = schema.ChartPoint[time.Time, float64]{Label: p.Time, Value: p.Elevation}
	}
	return out
}

// AccelerationSeries reports acceleration rates at or above threshold; others are 0.
func AccelerationSeries(points []TrackPoint, threshold float64) TimeSeries {
	times, speeds := dynamics.TrackSeries(points)
	rates := dynamics.AccelerationRates(times, speeds)
	return thresholdSeries(times, rates, func(v float64) bool { return v >= threshold })
}

// DecelerationSeries reports deceleration rates at or below threshold; others are 0.
func DecelerationSeries(points []TrackPoint, threshold float64) TimeSeries {
	times, speeds := dynamics.TrackSeries(points)
	rates := dynamics.DecelerationRates(times, speeds)
	return thresholdSeries(times, rates, func(v float64) bool { return v <= threshold })
}

func thresholdSeries(times []time.Time, rates []float64, keep func(float64) bool) TimeSeries {
	out := make(TimeSeries, len(times))
	for i, t := range times {
		v := rates[i]
		if !keep(v) {
			v = 0
		}
		out[i] = schema.ChartPoint[time.Time, float64]{Label: t, Value: v}
	}
	return out
}

// Dynamics assembles every per-ride series for a detail view.
func Dynamics(r Ride, accelThreshold, decelThreshold float64) schema.RideDynamics {
	return schema.RideDynamics{
		Ride:           r,
		Speed:          SpeedOverTime(r.TrackPoints),
		RunningAverage: RunningAverageSpeed(r.TrackPoints),
		Elevation:      ElevationOverTime(r.TrackPoints),
		Acceleration:   AccelerationSeries(r.TrackPoints, accelThreshold),
		Deceleration:   DecelerationSeries(r.TrackPoints, decelThreshold),
	}
}
