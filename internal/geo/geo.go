// Package geo validates coordinates before they reach the map and computes
// map-level aggregates over valid points.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// Coordinates is a validated latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// KuwaitCity is the map centre used when no valid point is available.
var KuwaitCity = Coordinates{Lat: 29.3759, Lng: 47.9774}

const (
	DefaultZoom   = 11
	earthRadiusKm = 6371.0088
	kuwaitMinLat  = 28.3
	kuwaitMaxLat  = 30.2
	kuwaitMinLng  = 46.3
	kuwaitMaxLng  = 49.3
)

// IsValid reports whether both values are finite with lat in [-90, 90] and
// lng in [-180, 180].
func IsValid(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Sanitize returns the pair as Coordinates when IsValid holds.
func Sanitize(lat, lng float64) (Coordinates, bool) {
	if !IsValid(lat, lng) {
		return Coordinates{}, false
	}
	return Coordinates{Lat: lat, Lng: lng}, true
}

// SanitizeOptional is Sanitize for values that may be absent.
func SanitizeOptional(lat, lng *float64) (Coordinates, bool) {
	if lat == nil || lng == nil {
		return Coordinates{}, false
	}
	return Sanitize(*lat, *lng)
}

var kuwaitRect = func() s2.Rect {
	r := s2.RectFromLatLng(s2.LatLngFromDegrees(kuwaitMinLat, kuwaitMinLng))
	return r.AddPoint(s2.LatLngFromDegrees(kuwaitMaxLat, kuwaitMaxLng))
}()

// InKuwait reports whether c lies inside the Kuwait bounding box
// (lat 28.3..30.2, lng 46.3..49.3, inclusive).
func InKuwait(c Coordinates) bool {
	if !IsValid(c.Lat, c.Lng) {
		return false
	}
	return kuwaitRect.ContainsLatLng(s2.LatLngFromDegrees(c.Lat, c.Lng))
}

// DistanceKm is the great-circle distance between a and b.
func DistanceKm(a, b Coordinates) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lng).Distance(s2.LatLngFromDegrees(b.Lat, b.Lng))
	return angle.Radians() * earthRadiusKm
}

// Center is the arithmetic mean of points. Empty input, or a non-finite
// mean, yields KuwaitCity.
func Center(points []Coordinates) Coordinates {
	if len(points) == 0 {
		return KuwaitCity
	}
	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(points))
	c := Coordinates{Lat: sumLat / n, Lng: sumLng / n}
	if !IsValid(c.Lat, c.Lng) {
		return KuwaitCity
	}
	return c
}
