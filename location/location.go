// Package location adapts device or store locations, which carry an altitude
// and a timestamp, to the coordinate values of package latlon.
package location

import (
	"time"

	"github.com/softwarenerd/GreatCircle/latlon"
)

// Location is a position as reported by a device.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	Timestamp time.Time `json:"timestamp"`
}

// FromLatLon builds a Location at p with the given altitude, stamped now.
func FromLatLon(p latlon.LatLon, altitude float64) Location {
	return Location{
		Latitude:  p.Lat,
		Longitude: p.Lon,
		Altitude:  altitude,
		Timestamp: time.Now(),
	}
}

// LatLon drops altitude and timestamp.
func (l Location) LatLon() latlon.LatLon {
	return latlon.LatLon{Lat: l.Latitude, Lon: l.Longitude}
}

// IsEqual compares coordinates only.
func (l Location) IsEqual(other Location) bool {
	return l.LatLon().Equal(other.LatLon())
}

func (l Location) DistanceTo(other Location) float64 {
	return l.LatLon().DistanceTo(other.LatLon())
}

func (l Location) InitialBearingTo(other Location) float64 {
	return l.LatLon().InitialBearingTo(other.LatLon())
}

func (l Location) FinalBearingTo(other Location) float64 {
	return l.LatLon().FinalBearingTo(other.LatLon())
}

// MidpointTo keeps the altitude of l.
func (l Location) MidpointTo(other Location) Location {
	return FromLatLon(l.LatLon().MidpointTo(other.LatLon()), l.Altitude)
}

// WithBearing returns the location distance meters away from l along
// bearing, at the altitude of l.
func (l Location) WithBearing(bearing, distance float64) Location {
	return FromLatLon(l.LatLon().DestinationPoint(bearing, distance), l.Altitude)
}

func (l Location) CrossTrackDistanceTo(start, end Location) float64 {
	return l.LatLon().CrossTrackDistanceTo(start.LatLon(), end.LatLon())
}

func (l Location) CrossTrackLocationTo(start, end Location) Location {
	return FromLatLon(l.LatLon().CrossTrackPointTo(start.LatLon(), end.LatLon()), l.Altitude)
}

// Intersection returns nil when the two paths do not cross.
func Intersection(l1 Location, bearing1 float64, l2 Location, bearing2 float64) *Location {
	p, ok := latlon.Intersection(l1.LatLon(), bearing1, l2.LatLon(), bearing2)
	if !ok {
		return nil
	}
	l := FromLatLon(p, 0)
	return &l
}
