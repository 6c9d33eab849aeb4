// Package schema has models, constants and shared result shapes for all parts of ridestats.
package schema

import "time"

// RawPoint is one decoded GPS fix as delivered by the track parser.
// Speed is nil when the source file carried no speed extension.
type RawPoint struct {
	Time      time.Time // Timestamp of the fix
	Latitude  float64   // Degrees
	Longitude float64   // Degrees
	Elevation float64   // Meters
	Hdop      float64   // Horizontal dilution of precision
	Speed     *float64  // Meters per second, nil when absent
}

// Coordinates returns the latitude and longitude of the point in degrees.
func (p RawPoint) Coordinates() (float64, float64) {
	return p.Latitude, p.Longitude
}

// TrackPoint is a persisted sample belonging to a single Ride.
// Speed is always in meters per second.
type TrackPoint struct {
	RideID    string    `json:"ride_id,omitempty"`
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Elevation float64   `json:"elevation"`
	Hdop      float64   `json:"hdop"`
	Speed     float64   `json:"speed"`
}

// Coordinates returns the latitude and longitude of the point in degrees.
func (p TrackPoint) Coordinates() (float64, float64) {
	return p.Latitude, p.Longitude
}

// Ride is a single recorded trip along with its derived physics.
type Ride struct {
	ID                    string       `json:"id"`
	Label                 string       `json:"label"`
	Start                 time.Time    `json:"start"`
	End                   time.Time    `json:"end"`
	Created               time.Time    `json:"created"`
	MaxSpeed              float64      `json:"max_speed"`      // Meters per second
	ElevationGain         float64      `json:"elevation_gain"` // Meters
	ElevationLoss         float64      `json:"elevation_loss"` // Meters
	FastAccelerationCount int          `json:"fast_acceleration_count"`
	FastDecelerationCount int          `json:"fast_deceleration_count"`
	Distance              float64      `json:"distance"` // Kilometers
	SmoothnessScore       int          `json:"smoothness_score"`
	TrackPoints           []TrackPoint `json:"track_points,omitempty"`
}

// Duration is the elapsed time between the first and last fix.
func (r Ride) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// AvgSpeed returns the average speed in meters per second.
// A ride without positive duration reports 0.
func (r Ride) AvgSpeed() float64 {
	seconds := r.Duration().Seconds()
	if seconds <= 0 {
		return 0
	}
	return r.Distance * 1000 / seconds
}

// ManeuverCount is the number of abrupt accelerations and decelerations.
func (r Ride) ManeuverCount() int {
	return r.FastAccelerationCount + r.FastDecelerationCount
}

// ChartPoint is a labeled value on a chart axis.
type ChartPoint[X any, Y any] struct {
	Label X `json:"label"`
	Value Y `json:"value"`
}

// ChartValue is an unlabeled sample, used for raw distributions.
type ChartValue[X any] struct {
	Value X `json:"value"`
}
