package middleware

import (
	"walletbridge/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestID tags every request with an X-Request-ID, reusing the caller's
// header when present.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	})
}

// LogContext puts a logger carrying the request id into the user context,
// so every log line of the request can be correlated. It must run after
// RequestID.
func LogContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && id != "" {
			ctx = log.WithLogField(ctx, "reqid", id)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
