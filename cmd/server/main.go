// Package main is the entry point for the wallet bridge.
// It loads the configuration, wires the SOAP adapter into the HTTP
// server and starts listening.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"walletbridge/internal/config"
	"walletbridge/internal/log"
	"walletbridge/internal/repositories/cache"
	"walletbridge/internal/routes"
	"walletbridge/internal/soap"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadEnv()
	cfg := config.Load()
	log.InitConfig(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// The SOAP client connects on the first request, not here.
	client := soap.NewClient(cfg.SOAP)
	deps := routes.Dependencies{
		Invoker:  soap.Instrument(client, soap.NewPrometheusMetrics(registry)),
		Status:   client,
		Gatherer: registry,
	}

	if cfg.Redis.Enabled() {
		storage := cache.NewRedisStorage(cache.NewRedisClient(cfg.Redis))
		if err := storage.Ping(ctx); err != nil {
			log.L(ctx).Warnf("Redis unavailable, rate limiter will retry on each request: %v", err)
		} else {
			log.L(ctx).Infof("Rate limiter using Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		deps.LimiterStorage = storage
		deps.Redis = storage
		defer func() {
			if err := storage.Close(); err != nil {
				log.L(ctx).Warnf("Failed to close Redis connection: %v", err)
			}
		}()
	}

	app := routes.NewApp(cfg, deps)

	go shutdownOnSignal(ctx, app)

	log.L(ctx).Infof("REST server running at http://localhost:%s (SOAP endpoint %s)", cfg.Port, cfg.SOAP.Endpoint)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.L(ctx).Fatalf("Failed to start server: %v", err)
	}
}

func shutdownOnSignal(ctx context.Context, app *fiber.App) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	sig := <-sigs

	log.L(ctx).Infof("Received %s, shutting down", sig)
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.L(ctx).Errorf("Graceful shutdown failed: %v", err)
	}
}
