// Package agg has pure aggregation logic over rides and track points.
package agg

// RunningAverage accumulates a mean without storing samples.
type RunningAverage struct {
	sum   float64
	count int
}

// Add records one sample.
func (a *RunningAverage) Add(v float64) {
	a.sum += v
	a.count++
}

// Value returns the mean of all samples, or 0 when there are none.
func (a *RunningAverage) Value() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Count returns the number of samples recorded.
func (a *RunningAverage) Count() int {
	return a.count
}

// Points flattens the track points of every ride in order.
func Points(rides []Ride) []TrackPoint {
	total := 0
	for _, r := range rides {
		total += len(r.TrackPoints)
	}
	out := make([]TrackPoint, 0, total)
	for _, r := range rides {
		out = append(out, r.TrackPoints...)
	}
	return out
}
