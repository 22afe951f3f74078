// Package middleware provides HTTP middleware components for the application.
// It includes request correlation, bearer authentication and rate limiting
// for the fiber web framework.
package middleware

import (
	"strings"

	"walletbridge/internal/log"
	"walletbridge/internal/models"
	"walletbridge/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber local holding the authenticated *models.CallerClaims.
const ClaimsKey = "claims"

// Auth validates HS256 bearer tokens signed with secret and adds the
// caller claims to the request. An empty secret disables authentication.
func Auth(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.L(ctx).Debug("missing Authorization header")
			return utils.Unauthorized(c, "missing authorization header")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.L(ctx).Debug("invalid Authorization format")
			return utils.Unauthorized(c, "invalid authorization format")
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.L(ctx).Debugf("token validation error: %v", err)
			return utils.Unauthorized(c, "invalid token")
		}

		c.Locals(ClaimsKey, claims)
		c.SetUserContext(log.WithLogField(ctx, "caller", claims.Subject))
		return c.Next()
	}
}

// Claims returns the caller authenticated by Auth, if any.
func Claims(c *fiber.Ctx) (*models.CallerClaims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*models.CallerClaims)
	return claims, ok && claims != nil
}
