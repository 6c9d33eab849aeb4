package agg

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/ridestats/internal/iocache"
	"github.com/huangsam/ridestats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jan = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	feb = time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)
)

func tp(at time.Time, lat, lon, speed float64) TrackPoint {
	return TrackPoint{Time: at, Latitude: lat, Longitude: lon, Speed: speed}
}

func TestMonthKeyAndLabel(t *testing.T) {
	assert.Equal(t, 202501, MonthKey(jan))
	assert.Equal(t, "25-01", MonthLabel(MonthKey(jan)))
	assert.Equal(t, "01-01", MonthLabel(MonthKey(time.Time{})), "year one keeps two digits")
}

func TestDistanceByMonth(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := DistanceByMonth(nil)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("buckets measured independently", func(t *testing.T) {
		zero := time.Time{}
		points := []TrackPoint{
			tp(zero, 0, 0, 0),
			tp(zero.Add(time.Hour), 1, 0, 0),
			tp(zero.AddDate(0, 1, 0), 50, 50, 0),
		}
		out := DistanceByMonth(points)
		require.Len(t, out, 2)
		assert.Equal(t, "01-01", out[0].Label)
		assert.InDelta(t, 111.19492664455873, out[0].Value, 1e-9)
		assert.Equal(t, "01-02", out[1].Label)
		assert.Zero(t, out[1].Value, "a single point covers no distance")
	})

	t.Run("duplicate points within one month", func(t *testing.T) {
		zero := time.Time{}
		points := []TrackPoint{
			tp(zero, 0, 0, 0),
			tp(zero.Add(time.Hour), 1, 0, 0),
			tp(zero.Add(2*time.Hour), 1, 0, 0),
			tp(zero.Add(3*time.Hour), 2, 0, 0),
		}
		out := DistanceByMonth(points)
		require.Len(t, out, 1)
		assert.Equal(t, "01-01", out[0].Label)
		assert.InDelta(t, 2*111.19492664455873, out[0].Value, 1e-9)
	})

	t.Run("sorted ascending regardless of input order", func(t *testing.T) {
		out := DistanceByMonth([]TrackPoint{tp(feb, 0, 0, 0), tp(jan, 0, 0, 0)})
		require.Len(t, out, 2)
		assert.Equal(t, "25-01", out[0].Label)
		assert.Equal(t, "25-02", out[1].Label)
	})
}

func TestSpeedByMonth(t *testing.T) {
	points := []TrackPoint{
		tp(jan, 0, 0, 1), tp(jan.Add(time.Minute), 0, 0, 1),
		tp(feb, 0, 0, 2), tp(feb.Add(time.Minute), 0, 0, 2),
	}
	out := SpeedByMonth(points)
	require.Len(t, out, 2)
	assert.InDelta(t, 3.6, out[0].Value, 1e-9)
	assert.InDelta(t, 7.2, out[1].Value, 1e-9)
}

func TestRideByMonth(t *testing.T) {
	rides := []Ride{
		{Start: jan, End: jan.Add(time.Hour), Distance: 36},
		{Start: jan.AddDate(0, 0, 2), End: jan.AddDate(0, 0, 2).Add(30 * time.Minute), Distance: 9},
		{Start: feb, End: feb.Add(time.Hour), Distance: 10},
	}

	dist := RideDistanceByMonth(rides)
	require.Len(t, dist, 2)
	assert.InDelta(t, 45, dist[0].Value, 1e-9)
	assert.InDelta(t, 10, dist[1].Value, 1e-9)

	speed := RideSpeedByMonth(rides)
	require.Len(t, speed, 2)
	assert.InDelta(t, 27, speed[0].Value, 1e-9, "mean of 36 and 18 km/h")
	assert.InDelta(t, 10, speed[1].Value, 1e-9)
}

func TestPoints(t *testing.T) {
	rides := []Ride{
		{TrackPoints: []TrackPoint{tp(jan, 0, 0, 1)}},
		{},
		{TrackPoints: []TrackPoint{tp(feb, 0, 0, 2), tp(feb, 0, 0, 3)}},
	}
	out := Points(rides)
	require.Len(t, out, 3)
	assert.Equal(t, 3.0, out[2].Speed)
	assert.Empty(t, Points(nil))
}

func TestSpeedDistribution(t *testing.T) {
	out := SpeedDistribution([]TrackPoint{tp(jan, 0, 0, 1), tp(jan, 0, 0, 10)})
	require.Len(t, out, 2)
	assert.InDelta(t, 3.6, out[0].Value, 1e-9)
	assert.InDelta(t, 36, out[1].Value, 1e-9)
	assert.Empty(t, SpeedDistribution(nil))
}

func TestSpeedHistogram(t *testing.T) {
	points := []TrackPoint{
		tp(jan, 0, 0, 1), // 3.6 km/h rounds to 4
		tp(jan, 0, 0, 2), // 7.2 km/h rounds to 7
		tp(jan, 0, 0, 5), // 18 km/h
	}
	expected := []schema.ChartPoint[float64, int]{
		{Label: 0, Value: 1},
		{Label: 5, Value: 1},
		{Label: 10, Value: 0},
		{Label: 15, Value: 1},
	}
	if diff := cmp.Diff(expected, SpeedHistogram(points, DefaultHistogramBinSize)); diff != "" {
		t.Errorf("SpeedHistogram() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, expected, SpeedHistogram(points, 0), "non-positive bin size uses the default")
	assert.Empty(t, SpeedHistogram(nil, 5))

	wide := SpeedHistogram(points, 10)
	require.Len(t, wide, 2)
	assert.Equal(t, 2, wide[0].Value)
	assert.Equal(t, 10.0, wide[1].Label)
}

func TestSeries(t *testing.T) {
	points := []TrackPoint{
		{Time: jan, Speed: 0, Elevation: 10},
		{Time: jan.Add(time.Second), Speed: 1, Elevation: 12},
		{Time: jan.Add(2 * time.Second), Speed: 1.2, Elevation: 15},
		{Time: jan.Add(3 * time.Second), Speed: 0, Elevation: 11},
	}

	speed := SpeedOverTime(points)
	require.Len(t, speed, 4)
	assert.InDelta(t, 3.6, speed[1].Value, 1e-9)
	assert.Equal(t, points[1].Time, speed[1].Label)

	avg := RunningAverageSpeed(points)
	require.Len(t, avg, 4)
	assert.InDelta(t, 0, avg[0].Value, 1e-9)
	assert.InDelta(t, 1.8, avg[1].Value, 1e-9)
	assert.InDelta(t, (0+3.6+4.32)/3, avg[2].Value, 1e-9)

	ele := ElevationOverTime(points)
	assert.Equal(t, 15.0, ele[2].Value)

	accel := AccelerationSeries(points, DefaultAccelerationThreshold)
	require.Len(t, accel, 4)
	assert.InDelta(t, 1.0, accel[1].Value, 1e-9)
	assert.Zero(t, accel[2].Value, "0.2 m/s² is below the threshold")
	assert.Zero(t, accel[3].Value)

	decel := DecelerationSeries(points, DefaultDecelerationThreshold)
	require.Len(t, decel, 4)
	assert.Zero(t, decel[1].Value)
	assert.InDelta(t, -1.2, decel[3].Value, 1e-9)

	assert.Empty(t, AccelerationSeries(nil, 0.5))
	assert.Empty(t, RunningAverageSpeed(nil))
}

func TestDynamics(t *testing.T) {
	r := Ride{ID: "r1", TrackPoints: []TrackPoint{tp(jan, 0, 0, 0), tp(jan.Add(time.Second), 0, 0, 3)}}
	d := Dynamics(r, 0.5, -0.5)
	assert.Equal(t, "r1", d.Ride.ID)
	assert.Len(t, d.Speed, 2)
	assert.Len(t, d.Deceleration, 2)
	assert.InDelta(t, 3.0, d.Acceleration[1].Value, 1e-9)
}

func summaryRides() []Ride {
	return []Ride{
		{
			Start: jan, End: jan.Add(time.Hour), Distance: 36, MaxSpeed: 15,
			FastAccelerationCount: 2, FastDecelerationCount: 3, SmoothnessScore: 80,
		},
		{
			Start: feb, End: feb.Add(30 * time.Minute), Distance: 9, MaxSpeed: 10,
			FastAccelerationCount: 1, FastDecelerationCount: 0, SmoothnessScore: 70,
		},
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(summaryRides())
	assert.Equal(t, 2, s.RideCount)
	assert.InDelta(t, 45, s.TotalDistance, 1e-9)
	assert.Equal(t, 90*time.Minute, s.TotalDuration)
	assert.Equal(t, 45.0, s.AverageTripMinutes)
	assert.Equal(t, 27.0, s.AverageSpeedKmh)
	assert.Equal(t, 54.0, s.MaxSpeedKmh)
	assert.Equal(t, 3, s.HardBrakingEvents)
	assert.Equal(t, 6, s.GForceAlerts)
	assert.Equal(t, 75.0, s.SmoothnessScore)

	assert.Equal(t, schema.Summary{}, NewSummary(nil))
}

func TestLoadSummary(t *testing.T) {
	t.Run("uses store totals", func(t *testing.T) {
		store := &iocache.MockRideStore{}
		store.On("Totals").Return(schema.RideTotals{Count: 2, Distance: 45, FastAccelerations: 3, FastDecelerations: 3, SmoothnessScore: 75}, nil)
		store.On("ListRides", false).Return(summaryRides(), nil)

		s, err := LoadSummary(store)
		require.NoError(t, err)
		assert.Equal(t, NewSummary(summaryRides()), s)
		store.AssertExpectations(t)
	})

	t.Run("totals error", func(t *testing.T) {
		store := &iocache.MockRideStore{}
		store.On("Totals").Return(schema.RideTotals{}, errors.New("boom"))

		_, err := LoadSummary(store)
		assert.ErrorContains(t, err, "boom")
	})
}
