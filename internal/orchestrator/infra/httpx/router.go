package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/infra/httpx/middlewares"
)

// NewRouter mounts the orchestration entry point plus the operational
// surface: health, metrics, and the API docs.
func NewRouter(handler *Handler, limiter *middlewares.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.CaptureCorrelation)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.With(limiter.Middleware).
		Post("/orchestrator/create-and-confirm-order", handler.CreateAndConfirmOrder)

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())
	mountDocs(r)

	return r
}
