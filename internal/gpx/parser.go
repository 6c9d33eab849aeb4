package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/ridestats/schema"
)

// Parse reads and parses a GPX file.
func Parse(filename string) (*GPX, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader.
func ParseReader(r io.Reader) (*GPX, error) {
	decoder := xml.NewDecoder(r)

	var gpxData GPX
	if err := decoder.Decode(&gpxData); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}
	return &gpxData, nil
}

// PointCount returns the number of fixes across all tracks and segments.
func (g *GPX) PointCount() int {
	count := 0
	for _, track := range g.Tracks {
		for _, segment := range track.Segments {
			count += len(segment.Points)
		}
	}
	return count
}

// RawPoints flattens all tracks and segments into fixes in document order.
func (g *GPX) RawPoints() []schema.RawPoint {
	points := make([]schema.RawPoint, 0, g.PointCount())
	for _, track := range g.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				points = append(points, schema.RawPoint{
					Time:      p.Time,
					Latitude:  p.Lat,
					Longitude: p.Lon,
					Elevation: p.Elevation,
					Hdop:      p.Hdop,
					Speed:     p.Extensions.Speed,
				})
			}
		}
	}
	return points
}
