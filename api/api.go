package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/softwarenerd/GreatCircle/api/model"
	"github.com/softwarenerd/GreatCircle/fleet"
	"github.com/softwarenerd/GreatCircle/latlon"
	"github.com/softwarenerd/GreatCircle/metrics"
)

type server struct {
	f *fleet.Fleet
}

var formulas = map[string]latlon.Navigator{
	"":          latlon.LatLonHaversine{},
	"haversine": latlon.LatLonHaversine{},
	"cosines":   latlon.LatLonCosines{},
}

func InitServer(f *fleet.Fleet) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)
	router.Use(metrics.Middleware)

	s := server{f: f}

	router.HandleFunc("/greatcircle/-/healthz", s.healthz).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/greatcircle/api/v1").Subrouter()
	apiV1.HandleFunc("/distance", s.distance).Methods(http.MethodPost)
	apiV1.HandleFunc("/midpoint", s.midpoint).Methods(http.MethodPost)
	apiV1.HandleFunc("/destination", s.destination).Methods(http.MethodPost)
	apiV1.HandleFunc("/intersection", s.intersection).Methods(http.MethodPost)
	apiV1.HandleFunc("/crosstrack", s.crossTrack).Methods(http.MethodPost)
	apiV1.HandleFunc("/routes", s.routes).Methods(http.MethodGet)
	apiV1.HandleFunc("/vessels", s.vessels).Methods(http.MethodGet)
	apiV1.HandleFunc("/vessels/{id}", s.vessel).Methods(http.MethodGet)
	apiV1.HandleFunc("/vessels/{id}/position", s.position).Methods(http.MethodPost)

	return router
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

func (s *server) distance(w http.ResponseWriter, req *http.Request) {
	formula := req.URL.Query().Get("formula")
	nav, ok := formulas[formula]
	if !ok {
		reply(w, http.StatusBadRequest, model.Error{Error: fmt.Sprintf("unknown formula '%s'", formula)})
		return
	}

	var p model.Pair
	if !decode(w, req, &p) {
		return
	}
	metrics.Operations.WithLabelValues("distance").Inc()

	distance, bearing := nav.DistanceAndBearingTo(p.From, p.To)
	reply(w, http.StatusOK, model.Distance{
		Distance:       distance,
		InitialBearing: bearing,
		FinalBearing:   p.From.FinalBearingTo(p.To),
	})
}

func (s *server) midpoint(w http.ResponseWriter, req *http.Request) {
	var p model.Pair
	if !decode(w, req, &p) {
		return
	}
	metrics.Operations.WithLabelValues("midpoint").Inc()

	reply(w, http.StatusOK, p.From.MidpointTo(p.To))
}

func (s *server) destination(w http.ResponseWriter, req *http.Request) {
	var d model.Destination
	if !decode(w, req, &d) {
		return
	}
	metrics.Operations.WithLabelValues("destination").Inc()

	reply(w, http.StatusOK, d.From.DestinationPoint(d.Bearing, d.Distance))
}

func (s *server) intersection(w http.ResponseWriter, req *http.Request) {
	var i model.Intersection
	if !decode(w, req, &i) {
		return
	}
	metrics.Operations.WithLabelValues("intersection").Inc()

	p, ok := latlon.Intersection(i.First.Latlon, i.First.Bearing, i.Second.Latlon, i.Second.Bearing)
	if !ok {
		metrics.IntersectionMisses.Inc()
		reply(w, http.StatusNotFound, model.Error{Error: "no intersection"})
		return
	}

	reply(w, http.StatusOK, p)
}

func (s *server) crossTrack(w http.ResponseWriter, req *http.Request) {
	var c model.CrossTrack
	if !decode(w, req, &c) {
		return
	}
	metrics.Operations.WithLabelValues("crosstrack").Inc()

	reply(w, http.StatusOK, model.CrossTrackResult{
		CrossTrack: c.Point.CrossTrackDistanceTo(c.Start, c.End),
		AlongTrack: c.Point.AlongTrackDistanceTo(c.Start, c.End),
		Location:   c.Point.CrossTrackPointTo(c.Start, c.End),
	})
}

func (s *server) routes(w http.ResponseWriter, req *http.Request) {
	rs := s.f.Routes()

	result := make([]model.Route, 0, len(rs))
	for _, r := range rs {
		result = append(result, model.Route{Route: r, Legs: r.Legs(), Length: r.Length()})
	}

	reply(w, http.StatusOK, result)
}

func (s *server) vessels(w http.ResponseWriter, req *http.Request) {
	reply(w, http.StatusOK, s.f.Statuses())
}

func (s *server) vessel(w http.ResponseWriter, req *http.Request) {
	status, err := s.f.Status(mux.Vars(req)["id"])
	if err != nil {
		fail(w, err)
		return
	}

	reply(w, http.StatusOK, status)
}

func (s *server) position(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	fields := log.Fields{
		"action": "position",
		"vessel": id,
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	requestLogger := log.WithFields(fields)

	var p model.Position
	if !decode(w, req, &p) {
		return
	}
	if p.Time.IsZero() {
		p.Time = time.Now()
	}

	status, err := s.f.Report(id, p.Route, p.Latlon, p.Time)
	if err != nil {
		requestLogger.WithError(err).Warn("Reject position")
		fail(w, err)
		return
	}

	requestLogger.Debugf("Position (%f,%f) on '%s', %.0f m off track", p.Latlon.Lat, p.Latlon.Lon, p.Route, status.Progress.CrossTrack)

	reply(w, http.StatusOK, status)
}

func decode(w http.ResponseWriter, req *http.Request, v interface{}) bool {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		reply(w, http.StatusBadRequest, model.Error{Error: err.Error()})
		return false
	}
	return true
}

func reply(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Encode response")
	}
}

func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fleet.ErrUnknownRoute), errors.Is(err, fleet.ErrUnknownVessel):
		status = http.StatusNotFound
	case errors.Is(err, fleet.ErrRouteChanged):
		status = http.StatusConflict
	}
	reply(w, status, model.Error{Error: err.Error()})
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
