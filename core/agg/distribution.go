package agg

import (
	"math"

	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
)

// DefaultHistogramBinSize is the width of a speed histogram bin in km/h.
const DefaultHistogramBinSize = 5

// SpeedDistribution returns one km/h sample per point with no bucketing.
func SpeedDistribution(points []TrackPoint) []schema.ChartValue[float64] {
	out := make([]schema.ChartValue[float64], len(points))
	for i, p := range points {
		out[i] = schema.ChartValue[float64]{Value: units.ConvertSpeed(p.Speed, units.KPH)}
	}
	return out
}

// SpeedHistogram counts points per speed bin. Speeds are rounded to whole
// km/h and bins start at multiples of binSize. Bins are contiguous from the
// lowest to the highest occupied bin, so gaps appear as zero counts.
// The label of each bin is its lower edge.
func SpeedHistogram(points []TrackPoint, binSize int) []schema.ChartPoint[float64, int] {
	if binSize <= 0 {
		binSize = DefaultHistogramBinSize
	}
	if len(points) == 0 {
		return []schema.ChartPoint[float64, int]{}
	}

	bins := make([]int, len(points))
	lo, hi := math.MaxInt, math.MinInt
	for i, p := range points {
		kmh := int(math.Round(units.ConvertSpeed(p.Speed, units.KPH)))
		bin := floorDiv(kmh, binSize)
		bins[i] = bin
		lo = min(lo, bin)
		hi = max(hi, bin)
	}

	counts := make([]int, hi-lo+1)
	for _, b := range bins {
		counts[b-lo]++
	}

	out := make([]schema.ChartPoint[float64, int], len(counts))
	for i, c := range counts {
		out[i] = schema.ChartPoint[float64, int]{
			Label: float64((lo + i) * binSize),
			Value: c,
		}
	}
	return out
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
