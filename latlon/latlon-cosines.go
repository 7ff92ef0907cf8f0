package latlon

import "math"

// LatLonCosines computes distances with the spherical law of cosines. It is
// cheaper than haversine but loses precision below a few meters.
type LatLonCosines struct {
	LatLonHaversine
}

func (loc LatLonCosines) DistanceTo(from, to LatLon) float64 {
	if loc.coincident(from, to) {
		return 0
	}

	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δλ := toRadians(to.Lon - from.Lon)

	δ := math.Acos(clamp(math.Sin(φ1)*math.Sin(φ2) + math.Cos(φ1)*math.Cos(φ2)*math.Cos(Δλ)))

	return δ * R
}

func (loc LatLonCosines) DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	return loc.DistanceTo(from, to), loc.BearingTo(from, to)
}
