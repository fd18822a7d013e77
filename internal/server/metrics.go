// metrics.go — Prometheus collectors and the per-route instrumentation wrapper.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sitelens/sitelens/internal/timeline"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

type metrics struct {
	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	exportPages       prometheus.Counter
	layoutCorrections *prometheus.CounterVec
}

// newMetrics registers the collectors with reg, or the default registerer
// when reg is nil. Collectors already registered by an earlier server in the
// same process are reused.
func newMetrics(reg *prometheus.Registry) *metrics {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	if reg != nil {
		registerer = reg
	}

	m := &metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitelens",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sitelens",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		exportPages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sitelens",
			Name:      "export_pages_total",
			Help:      "Number of PDF pages written",
		}),
		layoutCorrections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitelens",
			Name:      "layout_corrections_total",
			Help:      "Waterfall inputs clamped or substituted during layout",
		}, []string{"reason"}),
	}

	m.requestTotal = register(registerer, m.requestTotal)
	m.requestDuration = register(registerer, m.requestDuration)
	m.exportPages = register(registerer, m.exportPages)
	m.layoutCorrections = register(registerer, m.layoutCorrections)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &responseRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)
		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{
			"method": req.Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		s.metrics.requestTotal.With(labels).Inc()
		s.metrics.requestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) recordCorrections(cs []timeline.Correction) {
	for _, c := range cs {
		s.metrics.layoutCorrections.WithLabelValues(string(c.Reason)).Inc()
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.status = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if rr.status == 0 {
		rr.status = http.StatusOK
	}
	return rr.ResponseWriter.Write(b)
}
