package spatial

import (
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers

	// MilesPerKm converts kilometers to statute miles.
	MilesPerKm = 0.621371
)

// HaversineDistanceKm calculates the great-circle distance between two coordinates in kilometers.
// s2.LatLng.Distance evaluates the haversine formula, so the result is symmetric and exactly
// zero for identical coordinates.
func HaversineDistanceKm(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// PathLengthKm sums the haversine distance over consecutive coordinates.
func PathLengthKm(coords []Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(coords); i++ {
		total += HaversineDistanceKm(coords[i-1], coords[i])
	}
	return total
}

// KmToMiles converts kilometers to miles.
func KmToMiles(km float64) float64 {
	return km * MilesPerKm
}
