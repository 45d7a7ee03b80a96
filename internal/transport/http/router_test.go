package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primenum/internal/platform/metrics"
	"primenum/internal/primes/handler"
	"primenum/internal/primes/registry"
	"primenum/internal/primes/service"
	"primenum/pkg/platform/middleware/requestid"
)

func newPrimesHandler(t *testing.T) *handler.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg, err := registry.New(true)
	require.NoError(t, err)
	svc, err := service.New(reg, service.WithLogger(logger))
	require.NoError(t, err)
	return handler.New(svc, logger)
}

func TestReadiness(t *testing.T) {
	t.Run("ready without checks", func(t *testing.T) {
		router := NewRouter(newPrimesHandler(t), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failing check makes the server unready", func(t *testing.T) {
		down := func(context.Context) error { return errors.New("redis ping failed") }
		up := func(context.Context) error { return nil }
		router := NewRouter(newPrimesHandler(t), nil, up, down)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "redis ping failed")
	})
}

func TestRouterMiddleware(t *testing.T) {
	httpMetrics := metrics.New(prometheus.NewRegistry())
	router := NewRouter(newPrimesHandler(t), httpMetrics)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/primes/97", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestid.Header))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpMetrics.Requests.WithLabelValues("/primes/{value}", "GET", "200")))
}
