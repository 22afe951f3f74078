package middleware

import (
	"walletbridge/internal/config"
	"walletbridge/internal/log"
	"walletbridge/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit allows cfg.Max requests per client IP in each cfg.Window.
// Counters live in storage, or in process memory when storage is nil.
// A Max of zero or less disables the limiter.
func RateLimit(cfg config.RateLimitConfig, storage fiber.Storage) fiber.Handler {
	if cfg.Max <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.L(c.UserContext()).Warnf("rate limit reached for %s on %s", c.IP(), c.Path())
			return utils.TooManyRequests(c, "Too many requests. Please try again later.")
		},
	})
}
