// Package latlon implements great-circle navigation on a spherical earth:
// distances, bearings, midpoints, destination points, path intersections and
// cross-track deviation between latitude/longitude pairs.
//
// Every function is pure. Latitudes, longitudes and bearings are in degrees,
// distances in meters.
package latlon

import "math"

const π = math.Pi

// R is the mean earth radius in meters.
const R = 6371e3

// Epsilon is the tolerance, in degrees, used to compare coordinates.
const Epsilon = 1e-9

// Navigator is implemented by the distance models of this package.
type Navigator interface {
	DistanceTo(from, to LatLon) float64
	BearingTo(from, to LatLon) float64
	DistanceAndBearingTo(from, to LatLon) (float64, float64)
	Destination(from LatLon, bearing float64, distance float64) LatLon
}

// LatLon is a geodetic coordinate. The zero value is the intersection of the
// equator and the prime meridian.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var spherical = LatLonHaversine{}

// Equal reports whether p and q match within Epsilon.
func (p LatLon) Equal(q LatLon) bool {
	return math.Abs(p.Lat-q.Lat) < Epsilon && math.Abs(p.Lon-q.Lon) < Epsilon
}

// Antipode returns the point diametrically opposite p.
func (p LatLon) Antipode() LatLon {
	return LatLon{Lat: -p.Lat, Lon: wrap180(p.Lon + 180)}
}

// DistanceTo returns the great-circle distance from p to q.
func (p LatLon) DistanceTo(q LatLon) float64 {
	return spherical.DistanceTo(p, q)
}

// InitialBearingTo returns the bearing at p of the great circle from p to q.
// It is 0 when p and q are coincident or antipodal. Points closer than
// Epsilon degrees of arc count as coincident, so (0,180) and (0,-180), or two
// points at a pole, are the same place.
func (p LatLon) InitialBearingTo(q LatLon) float64 {
	return spherical.BearingTo(p, q)
}

// FinalBearingTo returns the bearing on arrival at q when following the
// great circle from p.
func (p LatLon) FinalBearingTo(q LatLon) float64 {
	return spherical.FinalBearingTo(p, q)
}

// MidpointTo returns the point halfway between p and q on the great circle.
func (p LatLon) MidpointTo(q LatLon) LatLon {
	return spherical.Midpoint(p, q)
}

// DestinationPoint returns the point reached from p after travelling
// distance meters along the initial bearing.
func (p LatLon) DestinationPoint(bearing, distance float64) LatLon {
	return spherical.Destination(p, bearing, distance)
}

// CrossTrackDistanceTo returns the signed distance from p to the great circle
// through start and end. It is negative when p lies left of the path from
// start to end and positive when it lies right.
func (p LatLon) CrossTrackDistanceTo(start, end LatLon) float64 {
	return spherical.CrossTrackDistance(p, start, end)
}

// AlongTrackDistanceTo returns the signed distance from start to the point on
// the great circle through start and end closest to p.
func (p LatLon) AlongTrackDistanceTo(start, end LatLon) float64 {
	return spherical.AlongTrackDistance(p, start, end)
}

// CrossTrackPointTo returns the point on the great circle through start and
// end closest to p.
func (p LatLon) CrossTrackPointTo(start, end LatLon) LatLon {
	return spherical.CrossTrackPoint(p, start, end)
}

// MaxLatitude returns the highest latitude reached by the great circle
// leaving p on bearing.
func (p LatLon) MaxLatitude(bearing float64) float64 {
	return spherical.MaxLatitude(p, bearing)
}

// Intersection returns the point where the path from p1 along bearing1
// crosses the path from p2 along bearing2. ok is false when there is no
// unique crossing ahead of both bearings.
func Intersection(p1 LatLon, bearing1 float64, p2 LatLon, bearing2 float64) (LatLon, bool) {
	return spherical.Intersection(p1, bearing1, p2, bearing2)
}

// antipodal reports whether q is the antipode of p. Longitude is ignored at
// the poles.
func antipodal(p, q LatLon) bool {
	a := p.Antipode()
	if math.Abs(a.Lat-q.Lat) >= Epsilon {
		return false
	}
	return 90-math.Abs(p.Lat) < Epsilon || math.Abs(wrap180(a.Lon-q.Lon)) < Epsilon
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

// wrap360 maps d into [0, 360).
func wrap360(d float64) float64 {
	if 0.0 < d && d < 360.0 {
		return d
	}
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	// -0, and tiny negatives that round up to 360
	if d == 0 || d >= 360.0 {
		return 0
	}
	return d
}

// wrap180 maps d into [-180, 180].
func wrap180(d float64) float64 {
	if -180.0 <= d && d <= 180.0 {
		return d
	}
	d = math.Mod(d+180.0, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d - 180.0
}

func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
