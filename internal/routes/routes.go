// Package routes defines the API routing configuration.
// It maps the REST surface onto the wallet handlers and applies the
// per-route middleware.
package routes

import (
	"walletbridge/internal/config"
	"walletbridge/internal/handlers"
	"walletbridge/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are built once at startup and shared by every request.
type Dependencies struct {
	Invoker handlers.Invoker
	Status  handlers.StatusReporter
	// LimiterStorage and Redis are nil when counters stay in memory.
	LimiterStorage fiber.Storage
	Redis          handlers.Pinger
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, cfg config.Config, deps Dependencies) {
	health := handlers.NewHealthHandler(deps.Status, deps.Redis)
	app.Get("/health", health.HealthCheck)

	if cfg.MetricsEnabled && deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	wallet := handlers.NewWalletHandler(deps.Invoker)

	api := app.Group("/api", middleware.Auth(cfg.JWTSecret))
	api.Post("/clients", middleware.RateLimit(cfg.RateLimit, deps.LimiterStorage), wallet.RegisterClient)

	w := api.Group("/wallet")
	w.Post("/recharge", wallet.RechargeWallet)
	w.Post("/pay", wallet.InitiatePayment)
	w.Post("/confirm", wallet.ConfirmPayment)
	w.Get("/balance", wallet.GetWalletBalance)
}
