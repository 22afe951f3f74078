package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const version = "1.0.0"

// StatusReporter reports the SOAP client state without connecting.
type StatusReporter interface {
	Status() string
}

// Pinger checks a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	soap  StatusReporter
	redis Pinger
}

// NewHealthHandler builds the liveness handler. redis may be nil when the
// limiter keeps its counters in memory.
func NewHealthHandler(soap StatusReporter, redis Pinger) *HealthHandler {
	return &HealthHandler{soap: soap, redis: redis}
}

// HealthCheck always answers 200 while the process is serving; the SOAP
// client is not connected by this call.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	services := fiber.Map{
		"soap": h.soap.Status(),
	}
	if h.redis != nil {
		if err := h.redis.Ping(c.UserContext()); err != nil {
			services["redis"] = "unavailable"
		} else {
			services["redis"] = "connected"
		}
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  version,
		"services": services,
	})
}
