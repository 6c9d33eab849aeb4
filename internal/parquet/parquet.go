// Package parquet provides row types and writers for exporting rides
// to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/ridestats/schema"
	"github.com/parquet-go/parquet-go"
)

// Ride is one row of the rides export.
type Ride struct {
	// ID is the identifier assigned at ingest
	ID string `parquet:"ride_id,snappy"`

	// Label is the sanitized name of the uploaded file
	Label string `parquet:"label,snappy"`

	StartTime time.Time `parquet:"start_time,snappy"`
	EndTime   time.Time `parquet:"end_time,snappy"`

	// CreatedAt is the ingest time (nullable for rides built outside an upload)
	CreatedAt *time.Time `parquet:"created_at,optional,snappy"`

	// DurationSeconds is EndTime minus StartTime
	DurationSeconds float64 `parquet:"duration_seconds,snappy"`

	// Speeds are in meters per second, distance in kilometers
	MaxSpeed      float64 `parquet:"max_speed,snappy"`
	AvgSpeed      float64 `parquet:"avg_speed,snappy"`
	Distance      float64 `parquet:"distance,snappy"`
	ElevationGain float64 `parquet:"elevation_gain,snappy"`
	ElevationLoss float64 `parquet:"elevation_loss,snappy"`

	FastAccelerationCount int32 `parquet:"fast_acceleration_count,snappy"`
	FastDecelerationCount int32 `parquet:"fast_deceleration_count,snappy"`
	SmoothnessScore       int32 `parquet:"smoothness_score,snappy"`
}

// TrackPoint is one row of the track points export.
type TrackPoint struct {
	RideID    string    `parquet:"ride_id,snappy"`
	Seq       int32     `parquet:"seq,snappy"`
	Time      time.Time `parquet:"time,snappy"`
	Latitude  float64   `parquet:"latitude,snappy"`
	Longitude float64   `parquet:"longitude,snappy"`
	Elevation float64   `parquet:"elevation,snappy"`
	Hdop      float64   `parquet:"hdop,snappy"`
	Speed     float64   `parquet:"speed,snappy"`
}

// ConvertRides maps rides to export rows.
func ConvertRides(rides []schema.Ride) []Ride {
	result := make([]Ride, len(rides))
	for i, r := range rides {
		row := Ride{
			ID:                    r.ID,
			Label:                 r.Label,
			StartTime:             r.Start,
			EndTime:               r.End,
			DurationSeconds:       r.Duration().Seconds(),
			MaxSpeed:              r.MaxSpeed,
			AvgSpeed:              r.AvgSpeed(),
			Distance:              r.Distance,
			ElevationGain:         r.ElevationGain,
			ElevationLoss:         r.ElevationLoss,
			FastAccelerationCount: int32(r.FastAccelerationCount),
			FastDecelerationCount: int32(r.FastDecelerationCount),
			SmoothnessScore:       int32(r.SmoothnessScore),
		}
		if !r.Created.IsZero() {
			created := r.Created
			row.CreatedAt = &created
		}
		result[i] = row
	}
	return result
}

// ConvertTrackPoints flattens the track points of every ride into export rows.
func ConvertTrackPoints(rides []schema.Ride) []TrackPoint {
	var result []TrackPoint
	for _, r := range rides {
		for seq, p := range r.TrackPoints {
			result = append(result, TrackPoint{
				RideID:    r.ID,
				Seq:       int32(seq),
				Time:      p.Time,
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				Elevation: p.Elevation,
				Hdop:      p.Hdop,
				Speed:     p.Speed,
			})
		}
	}
	return result
}

// Write encodes rows to w with a schema inferred from the struct tags of T.
func Write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRidesParquet writes ride rows to a Parquet file.
func WriteRidesParquet(data []Ride, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteTrackPointsParquet writes track point rows to a Parquet file.
func WriteTrackPointsParquet(data []TrackPoint, outputPath string) error {
	return WriteFile(data, outputPath)
}
