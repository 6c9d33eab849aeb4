package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/ridestats/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 5, 4, 7, 30, 0, 0, time.UTC)

func sampleRides() []schema.Ride {
	return []schema.Ride{
		{
			ID: "a", Label: "commute.gpx", Start: start, End: start.Add(20 * time.Minute), Created: start.Add(time.Hour),
			MaxSpeed: 12, Distance: 6, FastAccelerationCount: 2,
			TrackPoints: []schema.TrackPoint{
				{RideID: "a", Time: start, Latitude: 1, Longitude: 2, Speed: 3},
				{RideID: "a", Time: start.Add(time.Second), Latitude: 1.1, Longitude: 2.1, Speed: 4},
			},
		},
		{ID: "b", Label: "empty.gpx"},
	}
}

func TestRideStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Ride))
	require.NotNil(t, s)
	for _, colName := range []string{"ride_id", "label", "start_time", "created_at", "avg_speed", "fast_deceleration_count"} {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}

	s = parquet.SchemaOf(new(TrackPoint))
	for _, colName := range []string{"ride_id", "seq", "time", "latitude", "speed"} {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestConvertRides(t *testing.T) {
	rows := ConvertRides(sampleRides())
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, 1200.0, rows[0].DurationSeconds)
	assert.InDelta(t, 5.0, rows[0].AvgSpeed, 1e-9)
	require.NotNil(t, rows[0].CreatedAt)
	assert.Nil(t, rows[1].CreatedAt, "zero created time is null")

	points := ConvertTrackPoints(sampleRides())
	require.Len(t, points, 2)
	assert.Equal(t, int32(1), points[1].Seq)
	assert.Equal(t, "a", points[1].RideID)
}

func TestWriteRidesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "rides.parquet")
	data := ConvertRides(sampleRides())
	require.NoError(t, WriteRidesParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[Ride](file)
	defer func() { _ = reader.Close() }()

	readData := make([]Ride, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	assert.Equal(t, "commute.gpx", readData[0].Label)
	assert.Equal(t, int32(2), readData[0].FastAccelerationCount)
	require.NotNil(t, readData[0].CreatedAt)
	assert.WithinDuration(t, *data[0].CreatedAt, *readData[0].CreatedAt, time.Nanosecond)
	assert.Nil(t, readData[1].CreatedAt)
}

func TestWriteTrackPointsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "points.parquet")
	require.NoError(t, WriteTrackPointsParquet(ConvertTrackPoints(sampleRides()), outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteRidesParquet(nil, filepath.Join(t.TempDir(), "missing", "rides.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}
