// Package ride converts an ordered stream of GPS fixes into a Ride in a single pass.
package ride

import (
	"time"

	"github.com/huangsam/ridestats/core/geo"
	"github.com/huangsam/ridestats/schema"
)

// Maneuver thresholds in m/s².
const (
	FastAccelerationThreshold = 2.0
	FastDecelerationThreshold = -2.0
)

// Meta is ingestion metadata attached to a ride by the caller.
type Meta struct {
	Label   string
	Created time.Time
}

// Build converts points into a Ride with no ingestion metadata.
func Build(points []schema.RawPoint) schema.Ride {
	return BuildWithMeta(points, Meta{})
}

// BuildWithMeta converts points into a Ride and stamps it with meta.
// Points are consumed in delivery order and never sorted. Pairs whose
// timestamps do not advance are left out of maneuver counting but still
// contribute to distance, elevation and speed extremes.
func BuildWithMeta(points []schema.RawPoint, meta Meta) schema.Ride {
	r := schema.Ride{
		Label:       meta.Label,
		Created:     meta.Created,
		TrackPoints: make([]schema.TrackPoint, 0, len(points)),
	}
	if len(points) == 0 {
		return r
	}

	prev := toTrackPoint(points[0])
	r.MaxSpeed = prev.Speed

	for _, raw := range points {
		cur := toTrackPoint(raw)
		r.TrackPoints = append(r.TrackPoints, cur)

		if dt := cur.Time.Sub(prev.Time).Seconds(); dt > 0 {
			accel := (cur.Speed - prev.Speed) / dt
			if accel > FastAccelerationThreshold {
				r.FastAccelerationCount++
			} else if accel < FastDecelerationThreshold {
				r.FastDecelerationCount++
			}
		}

		r.MaxSpeed = max(r.MaxSpeed, cur.Speed)

		if delta := cur.Elevation - prev.Elevation; delta > 0 {
			r.ElevationGain += delta
		} else {
			r.ElevationLoss -= delta
		}

		r.Distance += geo.Haversine(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		prev = cur
	}

	r.Start = points[0].Time
	r.End = points[len(points)-1].Time
	return r
}

func toTrackPoint(raw schema.RawPoint) schema.TrackPoint {
	speed := 0.0
	if raw.Speed != nil {
		speed = *raw.Speed
	}
	return schema.TrackPoint{
		Time:      raw.Time,
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
		Elevation: raw.Elevation,
		Hdop:      raw.Hdop,
		Speed:     speed,
	}
}
