package handlers

import (
	"errors"

	"walletbridge/internal/log"
	"walletbridge/internal/models"
	"walletbridge/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler answers every error that escapes a handler with an
// envelope. Framework errors keep their status; anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}

	ctx := c.UserContext()
	if status >= fiber.StatusInternalServerError {
		log.L(ctx).Errorf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	} else {
		log.L(ctx).Debugf("%s %s: %v", c.Method(), c.Path(), err)
	}

	return utils.Respond(c, status, models.InternalError(err.Error()))
}
