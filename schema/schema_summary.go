package schema

import "time"

// RideTotals are fleet-wide sums computed by the ride store.
type RideTotals struct {
	Count             int     `json:"count"`
	Distance          float64 `json:"distance"` // Kilometers
	FastAccelerations int     `json:"fast_accelerations"`
	FastDecelerations int     `json:"fast_decelerations"`
	SmoothnessScore   float64 `json:"smoothness_score"`
}

// HardBrakingEvents is the number of abrupt decelerations across all rides.
func (t RideTotals) HardBrakingEvents() int {
	return t.FastDecelerations
}

// GForceAlerts is the number of abrupt maneuvers in either direction.
func (t RideTotals) GForceAlerts() int {
	return t.FastAccelerations + t.FastDecelerations
}

// Summary is the dashboard view over a set of rides.
type Summary struct {
	RideCount          int           `json:"ride_count"`
	TotalDistance      float64       `json:"total_distance"` // Kilometers
	TotalDuration      time.Duration `json:"total_duration"`
	AverageTripMinutes float64       `json:"average_trip_minutes"`
	AverageSpeedKmh    float64       `json:"average_speed_kmh"`
	MaxSpeedKmh        float64       `json:"max_speed_kmh"`
	HardBrakingEvents  int           `json:"hard_braking_events"`
	GForceAlerts       int           `json:"gforce_alerts"`
	SmoothnessScore    float64       `json:"smoothness_score"`
}

// RidePage is one page of rides ordered newest first.
type RidePage struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int    `json:"total"`
	Rides    []Ride `json:"rides"`
}

// RideDynamics holds the per-ride series shown on a ride detail view.
type RideDynamics struct {
	Ride           Ride                             `json:"ride"`
	Speed          []ChartPoint[time.Time, float64] `json:"speed"`
	RunningAverage []ChartPoint[time.Time, float64] `json:"running_average"`
	Elevation      []ChartPoint[time.Time, float64] `json:"elevation"`
	Acceleration   []ChartPoint[time.Time, float64] `json:"acceleration"`
	Deceleration   []ChartPoint[time.Time, float64] `json:"deceleration"`
}

// IngestReport describes the outcome of one upload.
type IngestReport struct {
	Generation int64  `json:"generation"`
	Rides      []Ride `json:"rides"`
}
