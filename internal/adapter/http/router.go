package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/serenewealth/ledger/internal/adapter/http/handler"
	"github.com/serenewealth/ledger/internal/adapter/http/middleware"
	"github.com/serenewealth/ledger/internal/infrastructure/metrics"
	"github.com/serenewealth/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	EntryHandler     *handler.EntryHandler
	TransferHandler  *handler.TransferHandler
	StatementHandler *handler.StatementHandler
	BalanceHandler   *handler.BalanceHandler
	HealthHandler    *handler.HealthHandler

	// IdempotencyStore enables Idempotency-Key handling when set.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	// MetricsHandler serves /metrics. Defaults to the default registry.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.AllowContentType("application/json"))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
			r.Get("/{id}/health", cfg.AccountHandler.Health)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)

			r.Post("/{id}/balance/recompute", cfg.BalanceHandler.Recompute)
			r.Get("/{id}/balance/verify", cfg.BalanceHandler.Verify)
			r.Post("/{id}/balance/refresh", cfg.BalanceHandler.Refresh)
		})

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Patch("/{id}", cfg.EntryHandler.Update)
			r.Delete("/{id}", cfg.EntryHandler.Delete)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Patch("/{id}", cfg.TransferHandler.UpdateDescription)
			r.Delete("/{id}", cfg.TransferHandler.Delete)
		})

		// Statements
		r.Route("/statements", func(r chi.Router) {
			r.Post("/", cfg.StatementHandler.Create)
			r.Get("/{id}", cfg.StatementHandler.Get)
			r.Delete("/{id}", cfg.StatementHandler.Delete)
			r.Get("/{id}/lines", cfg.StatementHandler.Lines)
			r.Post("/{id}/batch", cfg.StatementHandler.ProcessBatch)
		})
		r.Post("/statement-lines/{lineID}/realize", cfg.StatementHandler.RealizeLine)

		// Reconciliation
		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/discrepancies", cfg.BalanceHandler.Discrepancies)
			r.Post("/report", cfg.BalanceHandler.Report)
		})
	})

	return r
}
