// Package rest is the thin chi HTTP host around pkg/planner: it binds
// and validates the §6 request/response wire shapes, persists each
// result through pkg/planstore, and maps domain.Error kinds onto HTTP
// status codes and the §7 error record.
package rest

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics are the mesh-planning counters this host adds on top of the
// teacher's generic HTTP duration/status histograms (api/middlewares.go
// NewMetrics), generalized from shortest-path query counting to plan
// request counting.
type metrics struct {
	planRequests       *prometheus.CounterVec
	planNodesHistogram prometheus.Histogram
	planErrors         *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	responseStatusCode *prometheus.CounterVec
	totalRequests      *prometheus.CounterVec
}

// NewMetrics registers and returns the planning-request metrics.
func NewMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		planRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meshplanner",
			Name:      "plan_requests_total",
			Help:      "The total number of topology plan requests",
		}, []string{"outcome"}),
		planNodesHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meshplanner",
			Name:      "plan_nodes_histogram",
			Help:      "The number of nodes in each topology plan request",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		planErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meshplanner",
			Name:      "plan_errors_total",
			Help:      "The total number of topology plan failures by kind",
		}, []string{"kind"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "meshplanner",
			Name:      "request_duration_seconds",
			Help:      "The duration of request",
			Buckets:   []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3},
		}, []string{"method", "path"}),
		responseStatusCode: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meshplanner",
			Name:      "response_status_code",
			Help:      "The status code of http response",
		}, []string{"status", "method", "path"}),
		totalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meshplanner",
			Name:      "total_requests",
			Help:      "The total number of requests",
		}, []string{"path", "method", "status"}),
	}
	reg.MustRegister(m.planRequests, m.planNodesHistogram, m.planErrors,
		m.httpDuration, m.responseStatusCode, m.totalRequests)
	return m
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// PromeHttpMiddleware records the generic per-request duration/status
// series, identical in shape to the teacher's api.PromeHttpMiddleware.
func PromeHttpMiddleware(m *metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			rw := newResponseWriter(w)
			timer := prometheus.NewTimer(m.httpDuration.With(prometheus.Labels{"method": r.Method, "path": path}))

			next.ServeHTTP(rw, r)

			status := strconv.Itoa(rw.statusCode)
			m.responseStatusCode.With(prometheus.Labels{"status": status, "method": r.Method, "path": path}).Inc()
			m.totalRequests.With(prometheus.Labels{"path": path, "method": r.Method, "status": status}).Inc()
			timer.ObserveDuration()
		})
	}
}
