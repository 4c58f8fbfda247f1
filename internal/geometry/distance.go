package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DegreeScale converts degree-space distances into the units used by the price formula
const DegreeScale = 100

// DistanceToCenter returns the Euclidean distance in degree space, scaled by
// DegreeScale, between a coordinate and the city center.
func DistanceToCenter(lat, lon, centerLat, centerLon float64) float64 {
	return planar.Distance(orb.Point{lon, lat}, orb.Point{centerLon, centerLat}) * DegreeScale
}
