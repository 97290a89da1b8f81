package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/settleup/internal/adapter/http/handler"
	"github.com/iho/settleup/internal/adapter/http/middleware"
	"github.com/iho/settleup/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SettlementHandler *handler.SettlementHandler
	RPCHandler        *handler.RPCHandler
	HealthHandler     *handler.HealthHandler
	Logger            zerolog.Logger

	// Optional
	MetricsHandler   http.Handler
	HTTPMetrics      *middleware.HTTPMetrics
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Post("/rpc", cfg.RPCHandler.Handle)

		// API v1
		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/splits", cfg.SettlementHandler.Split)
			r.Post("/balances", cfg.SettlementHandler.Balances)

			r.Route("/settlements", func(r chi.Router) {
				r.Post("/simplify", cfg.SettlementHandler.Simplify)
				r.Post("/validate", cfg.SettlementHandler.Validate)
				r.Post("/plan", cfg.SettlementHandler.Plan)
			})
		})
	})

	return r
}
