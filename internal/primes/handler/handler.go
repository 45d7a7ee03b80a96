package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"primenum/internal/primes/service"
	"primenum/internal/primes/sieve"
	"primenum/pkg/platform/httputil"
	"primenum/pkg/requestcontext"
)

// Service defines the interface for prime operations.
type Service interface {
	Primes(ctx context.Context, upper uint64) ([]uint64, error)
	FirstN(ctx context.Context, n uint64) ([]uint64, error)
	IsPrime(ctx context.Context, value uint64) (bool, error)
	Factorize(ctx context.Context, value uint64) (*service.FactorResult, error)
	Snapshot(ctx context.Context) service.Stats
	Sieve(ctx context.Context, stop sieve.StopPolicy) (*service.SieveResult, error)
}

// Handler wires prime endpoints to the prime service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a prime handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts prime endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/primes", h.HandleList)
	r.Get("/primes/{value}", h.HandleIsPrime)
	r.Get("/factors/{value}", h.HandleFactorize)
	r.Get("/registry", h.HandleRegistry)
	r.Post("/sieve", h.HandleSieve)
}

// HandleList handles GET /primes?max=U or GET /primes?count=N.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stop, msg := parseStop(r)
	if msg != "" {
		httputil.BadRequest(w, msg)
		return
	}

	var (
		primes []uint64
		err    error
	)
	if stop.Kind == sieve.StopAtValue {
		primes, err = h.service.Primes(ctx, stop.Bound)
	} else {
		primes, err = h.service.FirstN(ctx, stop.Bound)
	}
	if err != nil {
		h.fail(ctx, "list primes", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListResponse{Count: len(primes), Primes: primes})
}

// HandleSieve handles POST /sieve?max=U or POST /sieve?count=N.
func (h *Handler) HandleSieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stop, msg := parseStop(r)
	if msg != "" {
		httputil.BadRequest(w, msg)
		return
	}

	result, err := h.service.Sieve(ctx, stop)
	if err != nil {
		h.fail(ctx, "sieve", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sieve requested",
		"request_id", requestcontext.RequestID(ctx),
		"client_ip", requestcontext.ClientIP(ctx),
		"run_id", result.RunID,
		"found", len(result.Found),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleIsPrime handles GET /primes/{value}.
func (h *Handler) HandleIsPrime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	value, err := parseUint(chi.URLParam(r, "value"))
	if err != nil {
		httputil.BadRequest(w, "value must be a non-negative integer")
		return
	}

	prime, err := h.service.IsPrime(ctx, value)
	if err != nil {
		h.fail(ctx, "primality test", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PrimalityResponse{Value: value, Prime: prime})
}

// HandleFactorize handles GET /factors/{value}.
func (h *Handler) HandleFactorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := requestcontext.Now(ctx)
	value, err := parseUint(chi.URLParam(r, "value"))
	if err != nil {
		httputil.BadRequest(w, "value must be a non-negative integer")
		return
	}

	result, err := h.service.Factorize(ctx, value)
	if err != nil {
		h.fail(ctx, "factorize", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "value factorized",
		"request_id", requestcontext.RequestID(ctx),
		"value", value,
		"factors", len(result.Factors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleRegistry handles GET /registry.
func (h *Handler) HandleRegistry(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Snapshot(r.Context()))
}

func (h *Handler) fail(ctx context.Context, op string, err error) {
	h.logger.ErrorContext(ctx, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"client_ip", requestcontext.ClientIP(ctx),
		"error", err,
	)
}

// parseStop reads exactly one of the max or count query parameters. A
// non-empty msg describes why the request is malformed.
func parseStop(r *http.Request) (stop sieve.StopPolicy, msg string) {
	q := r.URL.Query()
	maxRaw, countRaw := q.Get("max"), q.Get("count")
	switch {
	case maxRaw != "" && countRaw != "":
		return stop, "max and count are mutually exclusive"
	case maxRaw != "":
		upper, err := parseUint(maxRaw)
		if err != nil {
			return stop, "max must be a non-negative integer"
		}
		return sieve.AtValue(upper), ""
	case countRaw != "":
		n, err := parseUint(countRaw)
		if err != nil {
			return stop, "count must be a non-negative integer"
		}
		return sieve.AtCount(n), ""
	default:
		return stop, "one of max or count is required"
	}
}

func parseUint(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}
