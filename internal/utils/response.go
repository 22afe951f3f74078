package utils

import (
	"walletbridge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Respond sends an envelope with the specified status code.
func Respond(c *fiber.Ctx, status int, env *models.Envelope) error {
	return c.Status(status).JSON(env)
}

// Reply sends a service envelope: 200 when it succeeded, 400 otherwise.
func Reply(c *fiber.Ctx, env *models.Envelope) error {
	if env.Success {
		return Respond(c, fiber.StatusOK, env)
	}
	return Respond(c, fiber.StatusBadRequest, env)
}

// BadRequest sends a validation envelope with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, models.ValidationError(message))
}

// Unauthorized sends an envelope with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, models.ErrorEnvelope(models.CodeUnauthorized, message))
}

// TooManyRequests sends an envelope with status 429.
func TooManyRequests(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusTooManyRequests, models.ErrorEnvelope(models.CodeTooManyRequests, message))
}

// InternalError sends an envelope with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, models.InternalError(message))
}
