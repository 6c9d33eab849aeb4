// Package dynamics extracts per-sample acceleration and deceleration rates from speed series.
package dynamics

import (
	"time"

	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
)

// AccelerationRates returns the positive rate of speed change in m/s² at each
// sample. speedsKmh are in km/h. Index 0, non-positive time steps and
// decelerations are reported as 0. The result has the same length as times.
func AccelerationRates(times []time.Time, speedsKmh []float64) []float64 {
	return rates(times, speedsKmh, func(v float64) bool { return v > 0 })
}

// DecelerationRates returns the negative rate of speed change in m/s² at each
// sample. It mirrors AccelerationRates and keeps only values below zero.
func DecelerationRates(times []time.Time, speedsKmh []float64) []float64 {
	return rates(times, speedsKmh, func(v float64) bool { return v < 0 })
}

// TrackSeries splits a track into the time and km/h speed series the rate
// functions consume.
func TrackSeries(points []schema.TrackPoint) ([]time.Time, []float64) {
	times := make([]time.Time, len(points))
	speeds := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.Time
		speeds[i] = units.ConvertSpeed(p.Speed, units.KPH)
	}
	return times, speeds
}

func rates(times []time.Time, speedsKmh []float64, keep func(float64) bool) []float64 {
	result := make([]float64, len(times))
	n := min(len(times), len(speedsKmh))
	for i := 1; i < n; i++ {
		dt := times[i].Sub(times[i-1]).Seconds()
		if dt <= 0 {
			continue
		}
		rate := (speedsKmh[i] - speedsKmh[i-1]) / 3.6 / dt
		if keep(rate) {
			result[i] = rate
		}
	}
	return result
}
