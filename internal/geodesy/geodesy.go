// Package geodesy provides great-circle helpers over WGS-84 lon/lat points,
// built on the S2 geometry library.
package geodesy

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// EarthRadiusMeters is the mean Earth radius used for angular-to-linear
// distance conversion.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two lon/lat
// points.
func Distance(a, b orb.Point) float64 {
	p1 := s2.LatLngFromDegrees(a[1], a[0])
	p2 := s2.LatLngFromDegrees(b[1], b[0])
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Destination returns the lon/lat point at the given initial bearing
// (degrees clockwise from north) and distance in meters from p.
func Destination(p orb.Point, bearingDeg, distMeters float64) orb.Point {
	latLng := s2.LatLngFromDegrees(p[1], p[0])
	bearing := bearingDeg * math.Pi / 180
	angular := distMeters / EarthRadiusMeters

	lat := latLng.Lat.Radians()
	lng := latLng.Lng.Radians()

	lat2 := math.Asin(math.Sin(lat)*math.Cos(angular) +
		math.Cos(lat)*math.Sin(angular)*math.Cos(bearing))
	lng2 := lng + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat),
		math.Cos(angular)-math.Sin(lat)*math.Sin(lat2))

	return orb.Point{lng2 * 180 / math.Pi, lat2 * 180 / math.Pi}
}
