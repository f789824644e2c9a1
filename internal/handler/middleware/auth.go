package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biz-admin-carlo/bizchat-server/pkg/identity"
)

// Locals keys set by AuthMiddleware for downstream handlers.
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
)

// AuthMiddleware validates the Identity Service ID token carried by
// dashboard requests and stores the caller's UID and email in locals.
func AuthMiddleware(identityService identity.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header format",
			})
		}

		token := parts[1]
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing token",
			})
		}

		verified, err := identityService.VerifyToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals(LocalUserID, verified.UID)
		c.Locals(LocalUserEmail, verified.Email)

		return c.Next()
	}
}
