package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"primenum/internal/platform/metrics"
	"primenum/internal/primes/handler"
	"primenum/pkg/platform/httputil"
	"primenum/pkg/platform/middleware/metadata"
	"primenum/pkg/platform/middleware/requestid"
	"primenum/pkg/platform/middleware/requesttime"
)

// ReadyCheck reports whether a backend can serve traffic.
type ReadyCheck func(ctx context.Context) error

// NewRouter wires the public endpoints. Transport concerns stay here;
// handlers only translate HTTP to service calls. httpMetrics may be nil.
func NewRouter(primes *handler.Handler, httpMetrics *metrics.HTTP, checks ...ReadyCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{
					Error:            "not_ready",
					ErrorDescription: err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.Handler())

	primes.Register(r)
	return r
}
