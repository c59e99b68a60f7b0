package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/payrail/payrail/internal/adapter/http/handler"
	"github.com/payrail/payrail/internal/adapter/http/middleware"
	"github.com/payrail/payrail/internal/infrastructure/metrics"
)

// LedgerRouterConfig holds dependencies for the ledger service router.
type LedgerRouterConfig struct {
	AccountHandler *handler.AccountHandler
	LedgerHandler  *handler.LedgerHandler
	HealthHandler  *handler.HealthHandler
	Metrics        *metrics.Metrics
}

// NewLedgerRouter creates the HTTP router for the ledger service.
func NewLedgerRouter(cfg LedgerRouterConfig) http.Handler {
	r := newBaseRouter(cfg.HealthHandler, cfg.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/entries", cfg.LedgerHandler.ListByAccount)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Post("/transfer", cfg.LedgerHandler.Apply)
			r.Get("/transfer/{id}/entries", cfg.LedgerHandler.ListByTransfer)
		})
	})

	return r
}

// TransferRouterConfig holds dependencies for the transfer service router.
type TransferRouterConfig struct {
	TransferHandler *handler.TransferHandler
	HealthHandler   *handler.HealthHandler
	Metrics         *metrics.Metrics
}

// NewTransferRouter creates the HTTP router for the transfer service.
func NewTransferRouter(cfg TransferRouterConfig) http.Handler {
	r := newBaseRouter(cfg.HealthHandler, cfg.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Initiate)
			r.Post("/batch", cfg.TransferHandler.InitiateBatch)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})
	})

	return r
}

func newBaseRouter(health *handler.HealthHandler, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	r.Get("/health", health.Liveness)
	r.Get("/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
