// Package fleet tracks vessels along their routes and flags those drifting
// away from the great circle of their current leg.
package fleet

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/softwarenerd/GreatCircle/latlon"
	"github.com/softwarenerd/GreatCircle/metrics"
	"github.com/softwarenerd/GreatCircle/route"
)

var (
	ErrUnknownRoute  = errors.New("unknown route")
	ErrUnknownVessel = errors.New("unknown vessel")
	ErrRouteChanged  = errors.New("vessel already follows another route")
)

// Notifier delivers off-course alerts.
type Notifier interface {
	Send(message string) error
}

type Vessel struct {
	ID        string
	Route     string
	Position  latlon.LatLon
	Waypoint  int
	UpdatedAt time.Time
	offCourse bool
}

type Status struct {
	ID        string         `json:"id"`
	Route     string         `json:"route"`
	Position  latlon.LatLon  `json:"position"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Arrived   bool           `json:"arrived"`
	OffCourse bool           `json:"offCourse"`
	Progress  route.Progress `json:"progress"`
}

type Fleet struct {
	lock          sync.RWMutex
	routes        map[string]route.Route
	vessels       map[string]*Vessel
	maxCrossTrack float64
	notifier      Notifier
}

// New returns a fleet following routes. Vessels further than maxCrossTrack
// meters from their leg are off course. notifier may be nil.
func New(routes map[string]route.Route, maxCrossTrack float64, notifier Notifier) *Fleet {
	return &Fleet{
		routes:        routes,
		vessels:       make(map[string]*Vessel),
		maxCrossTrack: maxCrossTrack,
		notifier:      notifier,
	}
}

func (f *Fleet) Routes() []route.Route {
	f.lock.RLock()
	defer f.lock.RUnlock()

	routes := make([]route.Route, 0, len(f.routes))
	for _, r := range f.routes {
		routes = append(routes, r)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Name < routes[j].Name })
	return routes
}

// Report records the position of vessel id on routeName and advances it past
// every waypoint it has reached.
func (f *Fleet) Report(id, routeName string, pos latlon.LatLon, at time.Time) (Status, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	r, ok := f.routes[routeName]
	if !ok {
		return Status{}, fmt.Errorf("%w '%s'", ErrUnknownRoute, routeName)
	}

	v, ok := f.vessels[id]
	if !ok {
		v = &Vessel{ID: id, Route: routeName, Waypoint: 1}
		f.vessels[id] = v
		metrics.TrackedVessels.Set(float64(len(f.vessels)))
		log.WithFields(log.Fields{"vessel": id, "route": routeName}).Info("Track new vessel")
	} else if v.Route != routeName {
		return Status{}, fmt.Errorf("%w: '%s' follows '%s'", ErrRouteChanged, id, v.Route)
	}

	v.Position = pos
	v.UpdatedAt = at
	metrics.PositionsReported.WithLabelValues(routeName).Inc()

	for r.HasNextWaypoint(v.Waypoint) && r.Progress(v.Waypoint, pos).Reached {
		log.WithFields(log.Fields{"vessel": id, "route": routeName}).Infof("Waypoint %s reached", r.NextWaypoint(v.Waypoint).Name)
		v.Waypoint = r.Reached(v.Waypoint)
	}

	return f.status(v, r), nil
}

func (f *Fleet) Status(id string) (Status, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	v, ok := f.vessels[id]
	if !ok {
		return Status{}, fmt.Errorf("%w '%s'", ErrUnknownVessel, id)
	}
	return f.status(v, f.routes[v.Route]), nil
}

// Statuses returns every vessel, ordered by id.
func (f *Fleet) Statuses() []Status {
	f.lock.RLock()
	defer f.lock.RUnlock()

	statuses := make([]Status, 0, len(f.vessels))
	for _, v := range f.vessels {
		statuses = append(statuses, f.status(v, f.routes[v.Route]))
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}

// Check flags vessels off course and notifies once per excursion. It
// returns the statuses of the vessels currently off course.
func (f *Fleet) Check() []Status {
	offCourse, alerts := f.flag()

	for _, a := range alerts {
		log.Warn(a)
		if f.notifier == nil {
			continue
		}
		if err := f.notifier.Send(a); err != nil {
			log.WithError(err).Error("Send off-course alert")
		}
	}

	return offCourse
}

func (f *Fleet) flag() ([]Status, []string) {
	f.lock.Lock()
	defer f.lock.Unlock()

	var offCourse []Status
	var alerts []string
	for _, v := range f.vessels {
		s := f.status(v, f.routes[v.Route])
		if !s.OffCourse {
			if v.offCourse {
				log.WithField("vessel", v.ID).Info("Back on course")
			}
			v.offCourse = false
			continue
		}

		offCourse = append(offCourse, s)
		if v.offCourse {
			continue
		}
		v.offCourse = true

		metrics.OffCourseAlerts.WithLabelValues(v.Route).Inc()
		alerts = append(alerts, alertMessage(s))
	}
	sort.Slice(offCourse, func(i, j int) bool { return offCourse[i].ID < offCourse[j].ID })
	sort.Strings(alerts)

	return offCourse, alerts
}

func (f *Fleet) status(v *Vessel, r route.Route) Status {
	s := Status{
		ID:        v.ID,
		Route:     v.Route,
		Position:  v.Position,
		UpdatedAt: v.UpdatedAt,
	}

	if !r.HasNextWaypoint(v.Waypoint) {
		s.Arrived = true
		return s
	}

	s.Progress = r.Progress(v.Waypoint, v.Position)
	s.OffCourse = math.Abs(s.Progress.CrossTrack) > f.maxCrossTrack
	return s
}

func alertMessage(s Status) string {
	side := "right"
	if s.Progress.CrossTrack < 0 {
		side = "left"
	}
	return fmt.Sprintf("Vessel %s is off course on route %s: %.0f m %s of the track to %s",
		s.ID, s.Route, math.Abs(s.Progress.CrossTrack), side, s.Progress.Waypoint)
}
