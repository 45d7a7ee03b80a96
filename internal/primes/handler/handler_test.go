package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"primenum/internal/primes/factor"
	"primenum/internal/primes/handler/mocks"
	"primenum/internal/primes/registry"
	"primenum/internal/primes/service"
	"primenum/internal/primes/sieve"
	"primenum/pkg/platform/httputil"
	"primenum/pkg/platform/sentinel"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type HandlerSuite struct {
	suite.Suite
	mockService *mocks.MockService
	router      chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(ctrl)
	s.router = newRouter(s.mockService)
}

func newRouter(svc Service) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func (s *HandlerSuite) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (s *HandlerSuite) TestHandleList() {
	s.Run("max lists primes up to a bound", func() {
		s.mockService.EXPECT().Primes(gomock.Any(), uint64(20)).Return([]uint64{2, 3, 5, 7, 11, 13, 17, 19}, nil)

		w := s.do(http.MethodGet, "/primes?max=20")
		s.Equal(http.StatusOK, w.Code)
		var resp ListResponse
		s.decode(w, &resp)
		s.Equal(8, resp.Count)
		s.Equal([]uint64{2, 3, 5, 7, 11, 13, 17, 19}, resp.Primes)
	})

	s.Run("count lists the first primes", func() {
		s.mockService.EXPECT().FirstN(gomock.Any(), uint64(3)).Return([]uint64{2, 3, 5}, nil)

		w := s.do(http.MethodGet, "/primes?count=3")
		s.Equal(http.StatusOK, w.Code)
		var resp ListResponse
		s.decode(w, &resp)
		s.Equal([]uint64{2, 3, 5}, resp.Primes)
	})

	s.Run("service limits map to bad request", func() {
		s.mockService.EXPECT().Primes(gomock.Any(), uint64(1_000_000_000)).
			Return(nil, fmt.Errorf("list primes above limit: %w", sentinel.ErrInvalidInput))

		w := s.do(http.MethodGet, "/primes?max=1000000000")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("resource exhaustion maps to unavailable", func() {
		s.mockService.EXPECT().FirstN(gomock.Any(), uint64(100)).
			Return(nil, fmt.Errorf("sieve run: %w", sentinel.ErrResourceExhausted))

		w := s.do(http.MethodGet, "/primes?count=100")
		s.Equal(http.StatusServiceUnavailable, w.Code)
		var resp httputil.ErrorResponse
		s.decode(w, &resp)
		s.Equal("resource_exhausted", resp.Error)
	})
}

func (s *HandlerSuite) TestHandleListValidation() {
	tests := []struct {
		name   string
		target string
	}{
		{name: "neither parameter", target: "/primes"},
		{name: "both parameters", target: "/primes?max=10&count=3"},
		{name: "negative max", target: "/primes?max=-1"},
		{name: "non-numeric count", target: "/primes?count=ten"},
		{name: "max beyond uint64", target: "/primes?max=18446744073709551616"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodGet, tt.target)
			s.Equal(http.StatusBadRequest, w.Code)
			var resp httputil.ErrorResponse
			s.decode(w, &resp)
			s.Equal("bad_request", resp.Error)
			s.NotEmpty(resp.ErrorDescription)
		})
	}
}

func (s *HandlerSuite) TestHandleIsPrime() {
	s.Run("reports primality", func() {
		s.mockService.EXPECT().IsPrime(gomock.Any(), uint64(97)).Return(true, nil)

		w := s.do(http.MethodGet, "/primes/97")
		s.Equal(http.StatusOK, w.Code)
		var resp PrimalityResponse
		s.decode(w, &resp)
		s.Equal(PrimalityResponse{Value: 97, Prime: true}, resp)
	})

	s.Run("rejects malformed values", func() {
		w := s.do(http.MethodGet, "/primes/abc")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestHandleFactorize() {
	s.Run("returns factors and powers", func() {
		s.mockService.EXPECT().Factorize(gomock.Any(), uint64(360)).Return(&service.FactorResult{
			Value:   360,
			Factors: []uint64{2, 2, 2, 3, 3, 5},
			Powers:  factor.Powers([]uint64{2, 2, 2, 3, 3, 5}),
		}, nil)

		w := s.do(http.MethodGet, "/factors/360")
		s.Equal(http.StatusOK, w.Code)
		var resp service.FactorResult
		s.decode(w, &resp)
		s.Equal([]uint64{2, 2, 2, 3, 3, 5}, resp.Factors)
		s.Equal([]factor.Power{{Base: 2, Exponent: 3}, {Base: 3, Exponent: 2}, {Base: 5, Exponent: 1}}, resp.Powers)
	})

	s.Run("zero is invalid input", func() {
		s.mockService.EXPECT().Factorize(gomock.Any(), uint64(0)).
			Return(nil, fmt.Errorf("factorize 0: %w", sentinel.ErrInvalidInput))

		w := s.do(http.MethodGet, "/factors/0")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("storage failure maps to unavailable", func() {
		s.mockService.EXPECT().Factorize(gomock.Any(), uint64(1000)).
			Return(nil, fmt.Errorf("sieve run: %w", sentinel.ErrStorageExhausted))

		w := s.do(http.MethodGet, "/factors/1000")
		s.Equal(http.StatusServiceUnavailable, w.Code)
		var resp httputil.ErrorResponse
		s.decode(w, &resp)
		s.Equal("storage_exhausted", resp.Error)
	})

	s.Run("unexpected errors hide their description", func() {
		s.mockService.EXPECT().Factorize(gomock.Any(), uint64(12)).
			Return(nil, context.DeadlineExceeded)

		w := s.do(http.MethodGet, "/factors/12")
		s.Equal(http.StatusInternalServerError, w.Code)
		var resp httputil.ErrorResponse
		s.decode(w, &resp)
		s.Empty(resp.ErrorDescription)
	})
}

func (s *HandlerSuite) TestHandleRegistry() {
	s.mockService.EXPECT().Snapshot(gomock.Any()).Return(service.Stats{Count: 25, Largest: 97})

	w := s.do(http.MethodGet, "/registry")
	s.Equal(http.StatusOK, w.Code)
	var resp service.Stats
	s.decode(w, &resp)
	s.Equal(service.Stats{Count: 25, Largest: 97}, resp)
}

func (s *HandlerSuite) TestHandleSieve() {
	s.Run("runs a bounded sieve", func() {
		s.mockService.EXPECT().Sieve(gomock.Any(), sieve.AtCount(6)).Return(&service.SieveResult{
			RunID:   "run-1",
			Policy:  "count>=6",
			Found:   []uint64{11, 13},
			Tested:  3,
			Total:   6,
			Largest: 13,
		}, nil)

		w := s.do(http.MethodPost, "/sieve?count=6")
		s.Equal(http.StatusOK, w.Code)
		var resp service.SieveResult
		s.decode(w, &resp)
		s.Equal("run-1", resp.RunID)
		s.Equal([]uint64{11, 13}, resp.Found)
	})

	s.Run("requires a bound", func() {
		w := s.do(http.MethodPost, "/sieve")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("only accepts POST", func() {
		w := s.do(http.MethodGet, "/sieve?max=10")
		s.Equal(http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandlerWithService(t *testing.T) {
	reg, err := registry.New(true)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	svc, err := service.New(reg, service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/factors/9797", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp service.FactorResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Factors) != 2 || resp.Factors[0] != 97 || resp.Factors[1] != 101 {
		t.Fatalf("expected factors [97 101], got %v", resp.Factors)
	}

	req = httptest.NewRequest(http.MethodGet, "/registry", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var stats service.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.Largest != 9791 {
		t.Fatalf("expected largest prime 9791, got %d", stats.Largest)
	}
}
