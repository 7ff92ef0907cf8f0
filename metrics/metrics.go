// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greatcircle",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "greatcircle",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "path"})

	// Operations counts engine calls made on behalf of API clients.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greatcircle",
		Subsystem: "engine",
		Name:      "operations_total",
		Help:      "Total great-circle operations computed",
	}, []string{"operation"})

	IntersectionMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "greatcircle",
		Subsystem: "engine",
		Name:      "intersection_misses_total",
		Help:      "Intersections requested for paths that do not cross",
	})

	PositionsReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greatcircle",
		Subsystem: "fleet",
		Name:      "positions_reported_total",
		Help:      "Total vessel positions reported",
	}, []string{"route"})

	OffCourseAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greatcircle",
		Subsystem: "fleet",
		Name:      "off_course_alerts_total",
		Help:      "Total off-course alerts raised",
	}, []string{"route"})

	TrackedVessels = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "greatcircle",
		Subsystem: "fleet",
		Name:      "tracked_vessels",
		Help:      "Current number of tracked vessels",
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request count and latency per route template.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := "unmatched"
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
