// Package handler wires the engine's HTTP surface: the payment webhook, the
// on-demand reconciliation trigger, health probes, and the metrics endpoint.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studiokit/entitlements/metrics"
	"github.com/studiokit/entitlements/payment"
	"github.com/studiokit/entitlements/pkg/httpserver"
	"github.com/studiokit/entitlements/provision"
	"github.com/studiokit/entitlements/reconcile"
)

// Deps holds everything the router serves.
type Deps struct {
	Verifier *payment.Verifier
	Service  *provision.Service
	Scanner  *reconcile.Scanner
	Log      *slog.Logger

	// ReadyProbes are dependency checks for the readiness endpoint,
	// typically the database ping.
	ReadyProbes []func(context.Context) error
}

// NewRouter builds the chi router for the engine.
func NewRouter(ctx context.Context, deps Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/webhooks/payment", Webhook(deps.Verifier, deps.Service, deps.Log))
	r.Post("/reconcile", Reconcile(deps.Scanner, deps.Log))

	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, deps.Log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, deps.Log, deps.ReadyProbes...))
	r.Method("GET", "/metrics", metrics.Handler())

	return r
}
