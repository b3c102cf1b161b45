// Package geodist is the one shared great-circle distance helper both
// pkg/meshmodel (edge-endpoint plausibility) and pkg/geoindex (nearest-
// neighbour diagnostics) need, factored out so the same s2 computation
// isn't duplicated across two otherwise-unrelated packages.
package geodist

import "github.com/golang/geo/s2"

const earthRadiusKm = 6371.0

// GreatCircleKm returns the great-circle distance between two GPS
// points in kilometres, grounded in the teacher's pkg/guidance/s2_geo.go
// use of s2 for geometry.
func GreatCircleKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lon1))
	p2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lon2))
	return p1.Distance(p2).Radians() * earthRadiusKm
}
