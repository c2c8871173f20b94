package middleware

import (
	"strings"

	"github.com/cloudvault/backend/internal/auth"
	"github.com/cloudvault/backend/internal/dto"
	"github.com/cloudvault/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// TokenProtected authenticates requests by the opaque bearer token in the
// Authorization header and stores the resolved user id in context locals.
func TokenProtected(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		key, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || key == "" {
			return unauthorized(c)
		}

		user, err := authService.AuthenticateToken(key)
		if err != nil {
			return unauthorized(c)
		}

		auth.SetUserID(c, user.ID)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized: invalid or missing token",
	})
}
