package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/commercekit/order-orchestrator/internal/config"
	"github.com/commercekit/order-orchestrator/internal/coordinator/runlog"
	runlogsqlite "github.com/commercekit/order-orchestrator/internal/coordinator/runlog/sqlite"
	"github.com/commercekit/order-orchestrator/internal/orchestrator/infra/adapters/rest"
	"github.com/commercekit/order-orchestrator/internal/orchestrator/infra/httpx"
	"github.com/commercekit/order-orchestrator/internal/orchestrator/infra/httpx/middlewares"
	"github.com/commercekit/order-orchestrator/internal/pkg/cache"
	"github.com/commercekit/order-orchestrator/internal/pkg/metrics"
	"github.com/commercekit/order-orchestrator/internal/pkg/telemetry"
)

const serviceName = "order-orchestrator"

func main() {
	telemetry.InitLogger()

	cfg := config.FromEnv()
	// Fail fast: refuse to serve traffic with incomplete configuration
	// instead of discovering it on the first request.
	if missing := cfg.Missing(); len(missing) > 0 {
		slog.Error("missing required environment variables", "missing", missing)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				slog.Warn("tracer shutdown failed", "error", err)
			}
		}()
	}

	metrics.Register(prometheus.DefaultRegisterer)

	var runLog runlog.Repository
	if cfg.RunLogPath != "" {
		repo, err := runlogsqlite.Open(cfg.RunLogPath)
		if err != nil {
			slog.Error("failed to open run log", "path", cfg.RunLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		runLog = repo
	}

	var replay cache.ReplayCache
	if cfg.RedisAddr != "" {
		replay = cache.NewRedisReplayCache(cfg.RedisAddr, serviceName)
	}

	customers := rest.NewCustomerClient(cfg.CustomersBase, cfg.ServiceToken, cfg.RequestTimeout)
	orders := rest.NewOrderClient(cfg.OrdersBase, cfg.RequestTimeout)

	handler := httpx.NewHandler(cfg, customers, orders, runLog, replay)
	router := httpx.NewRouter(handler, middlewares.NewRateLimiter(cfg.RateRPS, cfg.RateBurst))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("orchestrator running", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
