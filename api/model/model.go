package model

import (
	"time"

	"github.com/softwarenerd/GreatCircle/latlon"
	"github.com/softwarenerd/GreatCircle/route"
)

type Pair struct {
	From latlon.LatLon `json:"from"`
	To   latlon.LatLon `json:"to"`
}

type Distance struct {
	Distance       float64 `json:"distance"`
	InitialBearing float64 `json:"initialBearing"`
	FinalBearing   float64 `json:"finalBearing"`
}

type Destination struct {
	From     latlon.LatLon `json:"from"`
	Bearing  float64       `json:"bearing"`
	Distance float64       `json:"distance"`
}

type Path struct {
	Latlon  latlon.LatLon `json:"latlon"`
	Bearing float64       `json:"bearing"`
}

type Intersection struct {
	First  Path `json:"first"`
	Second Path `json:"second"`
}

type CrossTrack struct {
	Point latlon.LatLon `json:"point"`
	Start latlon.LatLon `json:"start"`
	End   latlon.LatLon `json:"end"`
}

type CrossTrackResult struct {
	CrossTrack float64       `json:"crossTrack"`
	AlongTrack float64       `json:"alongTrack"`
	Location   latlon.LatLon `json:"location"`
}

type Route struct {
	route.Route
	Legs   []route.Leg `json:"legs"`
	Length float64     `json:"length"`
}

type Position struct {
	Route  string        `json:"route"`
	Latlon latlon.LatLon `json:"latlon"`
	Time   time.Time     `json:"time"`
}

type Error struct {
	Error string `json:"error"`
}
