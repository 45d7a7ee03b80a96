package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP holds the request metrics for the API.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// New creates and registers the HTTP metrics with reg.
func New(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "primenum_http_requests_total",
			Help: "Total HTTP requests by route, method, and status code",
		}, []string{"route", "method", "code"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "primenum_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Middleware records one observation per request. Routes are labeled by
// their chi pattern so that path values do not explode cardinality.
func (m *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.Duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
