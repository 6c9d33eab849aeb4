// Package gpx decodes GPX track files into raw GPS fixes.
package gpx

import (
	"encoding/xml"
	"time"
)

// GPX is the subset of a GPX document that ridestats reads.
type GPX struct {
	XMLName  xml.Name `xml:"gpx"`
	Version  string   `xml:"version,attr"`
	Creator  string   `xml:"creator,attr"`
	Metadata Metadata `xml:"metadata"`
	Tracks   []Track  `xml:"trk"`
}

// Metadata is the document header.
type Metadata struct {
	Name string    `xml:"name"`
	Time time.Time `xml:"time"`
}

// Track is a named list of segments.
type Track struct {
	Name     string         `xml:"name"`
	Segments []TrackSegment `xml:"trkseg"`
}

// TrackSegment is a contiguous run of fixes.
type TrackSegment struct {
	Points []Point `xml:"trkpt"`
}

// Point is a single fix. Extension elements match on local name only, so
// OsmAnd speed is read whatever namespace prefix the writer used.
type Point struct {
	Lat        float64    `xml:"lat,attr"`
	Lon        float64    `xml:"lon,attr"`
	Elevation  float64    `xml:"ele"`
	Time       time.Time  `xml:"time"`
	Hdop       float64    `xml:"hdop"`
	Extensions Extensions `xml:"extensions"`
}

// Extensions holds vendor data attached to a fix.
type Extensions struct {
	Speed *float64 `xml:"speed"` // Meters per second
}
