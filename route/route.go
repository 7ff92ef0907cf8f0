package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/softwarenerd/GreatCircle/latlon"
)

// DefaultRadius is the distance, in meters, at which a waypoint without an
// explicit radius counts as reached.
const DefaultRadius = 500.0

var ErrInvalidRoute = errors.New("invalid route")

type Waypoint struct {
	Name   string        `json:"name"`
	Latlon latlon.LatLon `json:"latlon"`
	Radius float64       `json:"radius"`
}

type Route struct {
	Name      string     `json:"name"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Leg is the great-circle path between two consecutive waypoints.
type Leg struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	Distance       float64 `json:"distance"`
	InitialBearing float64 `json:"initialBearing"`
	FinalBearing   float64 `json:"finalBearing"`
}

// Progress describes a position relative to the leg ending at a waypoint.
type Progress struct {
	Waypoint   string        `json:"waypoint"`
	CrossTrack float64       `json:"crossTrack"`
	AlongTrack float64       `json:"alongTrack"`
	Track      latlon.LatLon `json:"track"`
	DistanceTo float64       `json:"distanceTo"`
	BearingTo  float64       `json:"bearingTo"`
	Reached    bool          `json:"reached"`
}

// Load reads a JSON array of routes and indexes them by name.
func Load(file string) (map[string]Route, error) {
	content, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read routes '%s': %w", file, err)
	}

	var rs []Route
	if err := json.Unmarshal(content, &rs); err != nil {
		return nil, fmt.Errorf("decode routes '%s': %w", file, err)
	}

	routes := make(map[string]Route, len(rs))
	for _, r := range rs {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, ok := routes[r.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate name '%s'", ErrInvalidRoute, r.Name)
		}
		routes[r.Name] = r
	}

	return routes, nil
}

func (r Route) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRoute)
	}
	if len(r.Waypoints) < 2 {
		return fmt.Errorf("%w: '%s' has %d waypoints, need at least 2", ErrInvalidRoute, r.Name, len(r.Waypoints))
	}
	return nil
}

func (r Route) HasNextWaypoint(index int) bool {
	return index < len(r.Waypoints)
}

func (r Route) NextWaypoint(index int) Waypoint {
	return r.Waypoints[index]
}

func (r Route) Reached(index int) int {
	return index + 1
}

func (w Waypoint) radius() float64 {
	if w.Radius <= 0 {
		return DefaultRadius
	}
	return w.Radius
}

func (r Route) Legs() []Leg {
	legs := make([]Leg, 0, len(r.Waypoints)-1)
	for i := 1; i < len(r.Waypoints); i++ {
		from, to := r.Waypoints[i-1], r.Waypoints[i]
		legs = append(legs, Leg{
			From:           from.Name,
			To:             to.Name,
			Distance:       from.Latlon.DistanceTo(to.Latlon),
			InitialBearing: from.Latlon.InitialBearingTo(to.Latlon),
			FinalBearing:   from.Latlon.FinalBearingTo(to.Latlon),
		})
	}
	return legs
}

// Length is the sum of the leg distances.
func (r Route) Length() float64 {
	length := 0.0
	for _, l := range r.Legs() {
		length += l.Distance
	}
	return length
}

// Progress locates pos on the leg from waypoint index-1 to waypoint index.
// index must be in [1, len(Waypoints)).
func (r Route) Progress(index int, pos latlon.LatLon) Progress {
	from, to := r.Waypoints[index-1].Latlon, r.NextWaypoint(index)

	distanceTo := pos.DistanceTo(to.Latlon)

	return Progress{
		Waypoint:   to.Name,
		CrossTrack: pos.CrossTrackDistanceTo(from, to.Latlon),
		AlongTrack: pos.AlongTrackDistanceTo(from, to.Latlon),
		Track:      pos.CrossTrackPointTo(from, to.Latlon),
		DistanceTo: distanceTo,
		BearingTo:  pos.InitialBearingTo(to.Latlon),
		Reached:    distanceTo <= to.radius(),
	}
}
