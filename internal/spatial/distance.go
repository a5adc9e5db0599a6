// Package spatial holds the great-circle helpers used to match rides against
// the home location.
package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the Earth's mean radius
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Geofence is a circle around a fixed point
type Geofence struct {
	Center       s2.LatLng
	RadiusMeters float64
}

// NewGeofence returns a geofence of radius meters around lat, lon. A
// non-positive radius yields nil, which contains every point.
func NewGeofence(lat, lon, radius float64) *Geofence {
	if radius <= 0 {
		return nil
	}
	return &Geofence{Center: s2.LatLngFromDegrees(lat, lon), RadiusMeters: radius}
}

// Contains reports whether lat, lon lies within the fence
func (g *Geofence) Contains(lat, lon float64) bool {
	if g == nil {
		return true
	}
	if !s2.LatLngFromDegrees(lat, lon).IsValid() {
		return false
	}
	return HaversineDistance(g.Center.Lat.Degrees(), g.Center.Lng.Degrees(), lat, lon) <= g.RadiusMeters
}
