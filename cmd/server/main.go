package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"primenum/internal/platform/config"
	"primenum/internal/platform/httpserver"
	"primenum/internal/platform/logger"
	platformmetrics "primenum/internal/platform/metrics"
	"primenum/internal/platform/otel"
	"primenum/internal/primes/handler"
	"primenum/internal/primes/metrics"
	"primenum/internal/primes/registry"
	"primenum/internal/primes/service"
	httptransport "primenum/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Prime logic lives in internal/primes.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "primenum")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	reg, err := registry.New(true, registry.WithCapacity(cfg.Limits.RegistryCapacity))
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}

	deps, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithLimits(service.Limits{
			MaxBound: cfg.Limits.MaxBound,
			MaxCount: cfg.Limits.MaxCount,
		}),
	}
	if deps.store != nil {
		opts = append(opts, service.WithStore(deps.store))
	}
	if deps.publisher != nil {
		opts = append(opts, service.WithPublisher(deps.publisher))
	}
	svc, err := service.New(reg, opts...)
	if err != nil {
		return err
	}
	if _, err := svc.Restore(ctx); err != nil {
		return err
	}

	router := httptransport.NewRouter(handler.New(svc, log), platformmetrics.New(prometheus.DefaultRegisterer), deps.checks...)
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting primenum", "addr", cfg.Server.Addr, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
