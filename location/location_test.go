package location

import (
	"math"
	"testing"

	"github.com/softwarenerd/GreatCircle/latlon"
)

var (
	eiffelTower  = Location{Latitude: 48.858158, Longitude: 2.294825, Altitude: 35}
	versailles   = Location{Latitude: 48.804766, Longitude: 2.120339, Altitude: 130}
	saintGermain = Location{Latitude: 48.897728, Longitude: 2.094977}
	orly         = Location{Latitude: 48.747114, Longitude: 2.400526}
)

func TestIsEqual(t *testing.T) {
	other := Location{Latitude: eiffelTower.Latitude, Longitude: eiffelTower.Longitude, Altitude: 1000}
	if !eiffelTower.IsEqual(other) {
		t.Errorf("locations differing only by altitude should be equal")
	}
	if eiffelTower.IsEqual(versailles) {
		t.Errorf("eiffelTower.isEqual(versailles) = true; want false")
	}
}

func TestRoundTrip(t *testing.T) {
	p := latlon.LatLon{Lat: 12.5, Lon: -45.25}
	l := FromLatLon(p, 12)
	if l.LatLon() != p || l.Altitude != 12 || l.Timestamp.IsZero() {
		t.Errorf("FromLatLon(%v, 12) = %+v", p, l)
	}
}

func TestDistanceAndBearings(t *testing.T) {
	if d := eiffelTower.DistanceTo(versailles); math.Round(d) != 14084 {
		t.Errorf("distanceTo = %f; want 14084", d)
	}
	if b := eiffelTower.InitialBearingTo(versailles); math.Round(b*10000)/10000 != 245.1346 {
		t.Errorf("initialBearingTo = %f; want 245.1346", b)
	}
	if b := eiffelTower.FinalBearingTo(versailles); math.Round(b*10000)/10000 != 245.0033 {
		t.Errorf("finalBearingTo = %f; want 245.0033", b)
	}
}

func TestMidpointKeepsAltitude(t *testing.T) {
	m := eiffelTower.MidpointTo(versailles)
	if m.Altitude != eiffelTower.Altitude {
		t.Errorf("midpoint altitude = %f; want %f", m.Altitude, eiffelTower.Altitude)
	}
	if d1, d2 := m.DistanceTo(eiffelTower), m.DistanceTo(versailles); math.Abs(d1-d2) > 1e-6 {
		t.Errorf("midpoint distances = %f / %f; want equal", d1, d2)
	}
}

func TestCrossTrack(t *testing.T) {
	m := eiffelTower.MidpointTo(versailles)
	test := m.WithBearing(eiffelTower.InitialBearingTo(versailles)+90, 200)

	if d := test.CrossTrackDistanceTo(eiffelTower, versailles); math.Round(d) != 200 {
		t.Errorf("crossTrackDistanceTo = %f; want 200", d)
	}

	foot := test.CrossTrackLocationTo(eiffelTower, versailles)
	if d := foot.DistanceTo(m); d > 1 {
		t.Errorf("crossTrackLocationTo is %f m from the midpoint; want < 1 m", d)
	}
}

func TestIntersection(t *testing.T) {
	l := Intersection(saintGermain, saintGermain.InitialBearingTo(orly), eiffelTower, eiffelTower.InitialBearingTo(versailles))
	if l == nil {
		t.Fatalf("intersection = nil; want a location")
	}
	if math.Round(l.Latitude*1e6)/1e6 != 48.835691 || math.Round(l.Longitude*1e6)/1e6 != 2.221252 {
		t.Errorf("intersection = {%f,%f}; want {48.835691,2.221252}", l.Latitude, l.Longitude)
	}

	if l := Intersection(orly, 90, orly, 270); l != nil {
		t.Errorf("intersection = %+v; want nil", *l)
	}
}
