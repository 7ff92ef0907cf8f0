package latlon

import "math"

// vector is a point on the unit sphere, or a sum of such points.
type vector struct {
	x, y, z float64
}

func toVector(p LatLon) vector {
	φ := toRadians(p.Lat)
	λ := toRadians(p.Lon)

	return vector{
		x: math.Cos(φ) * math.Cos(λ),
		y: math.Cos(φ) * math.Sin(λ),
		z: math.Sin(φ),
	}
}

func (v vector) plus(w vector) vector {
	return vector{x: v.x + w.x, y: v.y + w.y, z: v.z + w.z}
}

func (v vector) norm() float64 {
	return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
}

// toLatLon projects v back onto the sphere. v need not be normalised.
func (v vector) toLatLon() LatLon {
	φ := math.Atan2(v.z, math.Hypot(v.x, v.y))
	λ := math.Atan2(v.y, v.x)

	return LatLon{Lat: toDegrees(φ), Lon: wrap180(toDegrees(λ))}
}
