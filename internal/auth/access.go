package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/myhome/myhome-service/pkg/util/errorutil"
)

// RequireAuthenticated rejects requests the Gate left anonymous.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
