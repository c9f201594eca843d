// Package proj converts between WGS84 geographic coordinates (EPSG:4326) and
// Web Mercator planar coordinates (EPSG:3857). Buffering and containment are
// only metrically meaningful in a projected system, so every route vertex and
// photo location passes through here before any geometric test.
package proj

import "math"

// earthRadius is the spherical Mercator radius in meters (WGS84 semi-major).
const earthRadius = 6378137.0

// Transformer converts between geographic and projected coordinates. It is an
// explicitly constructed value, stateless after construction and safe for
// concurrent read-only use. Behavior at the poles is undefined and not
// guarded, matching the projection's domain.
type Transformer struct{}

// NewTransformer returns a WGS84 to Web Mercator transformer.
func NewTransformer() Transformer { return Transformer{} }

// ToProjected converts longitude/latitude in degrees to planar x/y in meters.
func (Transformer) ToProjected(lon, lat float64) (x, y float64) {
	x = earthRadius * lon * math.Pi / 180
	y = earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// ToGeographic converts planar x/y in meters back to longitude/latitude in
// degrees. It is the exact inverse of ToProjected.
func (Transformer) ToGeographic(x, y float64) (lon, lat float64) {
	lon = x / earthRadius * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}
