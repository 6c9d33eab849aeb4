// Package geo has geodesic distance and planar projection helpers for GPS tracks.
package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used for great-circle distance.
	EarthRadiusKm = 6371.0

	// MercatorRadius is the WGS84 semi-major axis used by Web Mercator.
	MercatorRadius = 6378137.0

	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Coordinate is anything that can report a latitude and longitude in degrees.
type Coordinate interface {
	Coordinates() (lat, lon float64)
}

// Haversine returns the great-circle distance in kilometers between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	rLat1 := lat1 * degToRad
	rLat2 := lat2 * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + sinLon*sinLon*math.Cos(rLat1)*math.Cos(rLat2)

	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// PathDistance sums Haversine over consecutive pairs in delivery order.
// Fewer than two points yields 0.
func PathDistance[T Coordinate](points []T) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		lat1, lon1 := points[i-1].Coordinates()
		lat2, lon2 := points[i].Coordinates()
		total += Haversine(lat1, lon1, lat2, lon2)
	}
	return total
}

// LatLonToWebMercator projects degrees to Web Mercator meters.
func LatLonToWebMercator(latDeg, lonDeg float64) (x, y float64) {
	lonRad := lonDeg * degToRad
	latRad := latDeg * degToRad
	x = MercatorRadius * lonRad
	y = MercatorRadius * math.Log(math.Tan(math.Pi/4.0+latRad/2.0))
	return x, y
}

// WebMercatorToLatLon is the inverse of LatLonToWebMercator.
func WebMercatorToLatLon(x, y float64) (latDeg, lonDeg float64) {
	lonDeg = x / MercatorRadius * radToDeg
	latDeg = (2.0*math.Atan(math.Exp(y/MercatorRadius)) - math.Pi/2.0) * radToDeg
	return latDeg, lonDeg
}

// LatLonToLocal projects a point relative to an origin, in Web Mercator meters.
func LatLonToLocal(lat, lon, lat0, lon0 float64) (x, y float64) {
	px, py := LatLonToWebMercator(lat, lon)
	ox, oy := LatLonToWebMercator(lat0, lon0)
	return px - ox, py - oy
}

// LatLonToGrid projects a point relative to an origin and returns the local
// coordinates along with the index of the square cell containing it.
// Cell boundaries follow ix = floor(localX / cellSize). A non-positive cell
// size places every point in cell (0, 0).
func LatLonToGrid(lat, lon, originLat, originLon, cellSize float64) (localX, localY float64, ix, iy int64) {
	localX, localY = LatLonToLocal(lat, lon, originLat, originLon)
	if cellSize <= 0 {
		return localX, localY, 0, 0
	}
	ix = int64(math.Floor(localX / cellSize))
	iy = int64(math.Floor(localY / cellSize))
	return localX, localY, ix, iy
}
