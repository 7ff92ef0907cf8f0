package latlon

import "math"

// LatLonHaversine is the default spherical model. Distances use the
// haversine formula, which stays accurate for short distances.
type LatLonHaversine struct{}

// angularDistance returns the central angle between from and to in radians.
func (LatLonHaversine) angularDistance(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	a = math.Min(1, math.Max(0, a))

	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// coincident also catches points that differ only by a full turn of
// longitude, or only by longitude at a pole.
func (hav LatLonHaversine) coincident(p, q LatLon) bool {
	return p.Equal(q) || hav.angularDistance(p, q) < toRadians(Epsilon)
}

func (hav LatLonHaversine) initialBearingTo(from, to LatLon) float64 {
	if hav.coincident(from, to) || antipodal(from, to) {
		return 0
	}

	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)

	Δλ := toRadians(to.Lon - from.Lon)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	return wrap360(toDegrees(θ))
}

func (hav LatLonHaversine) DistanceTo(from, to LatLon) float64 {
	if hav.coincident(from, to) {
		return 0
	}
	return R * hav.angularDistance(from, to)
}

func (hav LatLonHaversine) BearingTo(from, to LatLon) float64 {
	return hav.initialBearingTo(from, to)
}

func (hav LatLonHaversine) FinalBearingTo(from, to LatLon) float64 {
	return wrap360(hav.initialBearingTo(to, from) + 180)
}

func (hav LatLonHaversine) DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	return hav.DistanceTo(from, to), hav.initialBearingTo(from, to)
}

func (LatLonHaversine) Destination(from LatLon, bearing float64, distance float64) LatLon {
	if distance == 0 {
		return from
	}

	φ1 := toRadians(from.Lat)
	λ1 := toRadians(from.Lon)
	θ := toRadians(wrap360(bearing))

	δ := distance / R

	if 90-math.Abs(from.Lat) < Epsilon {
		// at a pole the bearing only selects the meridian to follow
		φ2 := math.Asin(math.Cos(δ))
		λ2 := λ1 + θ
		if from.Lat > 0 {
			λ2 = λ1 + π - θ
		} else {
			φ2 = -φ2
		}
		if math.Sin(δ) < 0 {
			λ2 += π
		}
		return LatLon{Lat: toDegrees(φ2), Lon: wrap180(toDegrees(λ2))}
	}

	φ2 := math.Asin(clamp(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ)))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	return LatLon{Lat: toDegrees(φ2), Lon: wrap180(toDegrees(λ2))}
}

// Midpoint averages the unit vectors of from and to. Antipodal points have
// no unique midpoint; the one on the meridian through from is returned.
func (hav LatLonHaversine) Midpoint(from, to LatLon) LatLon {
	if from.Equal(to) {
		return from
	}

	v := toVector(from).plus(toVector(to))
	if v.norm() < Epsilon {
		return hav.Destination(from, 0, π*R/2)
	}

	return v.toLatLon()
}

func (hav LatLonHaversine) Intersection(p1 LatLon, bearing1 float64, p2 LatLon, bearing2 float64) (LatLon, bool) {
	b1 := wrap360(bearing1)
	b2 := wrap360(bearing2)

	if hav.coincident(p1, p2) {
		if math.Abs(b1-b2) < Epsilon {
			return p1, true
		}
		return LatLon{}, false
	}

	θ13, θ23 := toRadians(b1), toRadians(b2)

	δ12 := hav.angularDistance(p1, p2)
	if antipodal(p1, p2) || math.Sin(δ12) < Epsilon {
		// antipodal starts, every great circle through p1 meets p2
		return LatLon{}, false
	}

	// bearings between the two start points, atan2 keeps them defined at a pole
	θ12 := toRadians(hav.initialBearingTo(p1, p2))
	θ21 := toRadians(hav.initialBearingTo(p2, p1))

	α1 := θ13 - θ12
	α2 := θ21 - θ23

	if math.Abs(math.Sin(α1)) < Epsilon && math.Abs(math.Sin(α2)) < Epsilon {
		// both paths run along the great circle through p1 and p2
		return LatLon{}, false
	}
	if math.Abs(math.Sin(α1)) < Epsilon {
		// path 1 runs along the great circle through p2
		if math.Cos(α1) > 0 {
			return p2, true
		}
		return LatLon{}, false
	}
	if math.Abs(math.Sin(α2)) < Epsilon {
		// path 2 runs along the great circle through p1
		if math.Cos(α2) > 0 {
			return p1, true
		}
		return LatLon{}, false
	}
	if math.Sin(α1)*math.Sin(α2) < 0 {
		// the crossings lie behind one of the bearings
		return LatLon{}, false
	}

	α3 := math.Acos(clamp(-math.Cos(α1)*math.Cos(α2) + math.Sin(α1)*math.Sin(α2)*math.Cos(δ12)))
	δ13 := math.Atan2(math.Sin(δ12)*math.Sin(α1)*math.Sin(α2), math.Cos(α2)+math.Cos(α1)*math.Cos(α3))

	if !isFinite(δ13) {
		return LatLon{}, false
	}

	p3 := hav.Destination(p1, b1, δ13*R)
	if !isFinite(p3.Lat) || !isFinite(p3.Lon) {
		return LatLon{}, false
	}

	return p3, true
}

// crossTrack returns the angular cross-track distance of p, its angular
// distance from start and the path and point bearings at start, in radians.
func (hav LatLonHaversine) crossTrack(p, start, end LatLon) (δxt, δ13, θ12, θ13 float64) {
	δ13 = hav.angularDistance(start, p)
	θ13 = toRadians(hav.initialBearingTo(start, p))
	θ12 = toRadians(hav.initialBearingTo(start, end))

	δxt = math.Asin(clamp(math.Sin(δ13) * math.Sin(θ13-θ12)))

	return δxt, δ13, θ12, θ13
}

func (hav LatLonHaversine) CrossTrackDistance(p, start, end LatLon) float64 {
	if hav.coincident(p, start) {
		return 0
	}
	δxt, _, _, _ := hav.crossTrack(p, start, end)
	return δxt * R
}

func (hav LatLonHaversine) AlongTrackDistance(p, start, end LatLon) float64 {
	if hav.coincident(p, start) {
		return 0
	}

	δxt, δ13, θ12, θ13 := hav.crossTrack(p, start, end)
	if math.Abs(math.Cos(δxt)) < Epsilon {
		// p is a pole of the path, every point of it is equally close
		return 0
	}

	δat := math.Acos(clamp(math.Cos(δ13) / math.Cos(δxt)))
	if math.Cos(θ12-θ13) < 0 {
		δat = -δat
	}

	return δat * R
}

func (hav LatLonHaversine) CrossTrackPoint(p, start, end LatLon) LatLon {
	return hav.Destination(start, hav.initialBearingTo(start, end), hav.AlongTrackDistance(p, start, end))
}

// MaxLatitude applies Clairaut's formula.
func (LatLonHaversine) MaxLatitude(from LatLon, bearing float64) float64 {
	θ := toRadians(wrap360(bearing))
	φ := toRadians(from.Lat)

	return toDegrees(math.Acos(clamp(math.Abs(math.Sin(θ) * math.Cos(φ)))))
}
