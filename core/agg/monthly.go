package agg

import (
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/ridestats/core/geo"
	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
)

// Local aliases keep signatures short.
type (
	Ride       = schema.Ride
	TrackPoint = schema.TrackPoint
)

// MonthKey maps a timestamp to its numeric year-month key, year*100 + month.
func MonthKey(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}

// MonthLabel renders a month key as "YY-MM" with a two-digit year.
func MonthLabel(key int) string {
	year := key / 100
	month := key % 100
	return fmt.Sprintf("%02d-%02d", year%100, month)
}

// bucket pairs a month key with its accumulator. Buckets are found by linear
// scan since a ride history spans a few dozen months at most.
type bucket[T any] struct {
	key int
	acc T
}

func findBucket[T any](buckets []bucket[T], key int) int {
	for i := range buckets {
		if buckets[i].key == key {
			return i
		}
	}
	return -1
}

// groupByMonth folds items into month buckets and renders them in ascending key order.
func groupByMonth[I any, T any](items []I, when func(I) time.Time, add func(*T, I), value func(*T) float64) []schema.ChartPoint[string, float64] {
	buckets := make([]bucket[T], 0)
	for _, item := range items {
		key := MonthKey(when(item))
		idx := findBucket(buckets, key)
		if idx < 0 {
			buckets = append(buckets, bucket[T]{key: key})
			idx = len(buckets) - 1
		}
		add(&buckets[idx].acc, item)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key < buckets[j].key })

	result := make([]schema.ChartPoint[string, float64], len(buckets))
	for i := range buckets {
		result[i] = schema.ChartPoint[string, float64]{
			Label: MonthLabel(buckets[i].key),
			Value: value(&buckets[i].acc),
		}
	}
	return result
}

func pointTime(p TrackPoint) time.Time { return p.Time }

func rideStart(r Ride) time.Time { return r.Start }

// DistanceByMonth buckets points by month and measures each bucket as the
// path distance over only that bucket's points, in delivery order.
func DistanceByMonth(points []TrackPoint) []schema.ChartPoint[string, float64] {
	return groupByMonth(points, pointTime,
		func(acc *[]TrackPoint, p TrackPoint) { *acc = append(*acc, p) },
		func(acc *[]TrackPoint) float64 { return geo.PathDistance(*acc) },
	)
}

// RideDistanceByMonth sums ride distances by the month each ride started.
func RideDistanceByMonth(rides []Ride) []schema.ChartPoint[string, float64] {
	return groupByMonth(rides, rideStart,
		func(acc *float64, r Ride) { *acc += r.Distance },
		func(acc *float64) float64 { return *acc },
	)
}

// SpeedByMonth averages point speeds by month, reported in km/h.
func SpeedByMonth(points []TrackPoint) []schema.ChartPoint[string, float64] {
	return groupByMonth(points, pointTime,
		func(acc *RunningAverage, p TrackPoint) { acc.Add(p.Speed) },
		func(acc *RunningAverage) float64 { return units.ConvertSpeed(acc.Value(), units.KPH) },
	)
}

// RideSpeedByMonth averages ride average speeds by start month, reported in km/h.
func RideSpeedByMonth(rides []Ride) []schema.ChartPoint[string, float64] {
	return groupByMonth(rides, rideStart,
		func(acc *RunningAverage, r Ride) { acc.Add(r.AvgSpeed()) },
		func(acc *RunningAverage) float64 { return units.ConvertSpeed(acc.Value(), units.KPH) },
	)
}
