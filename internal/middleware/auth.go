package middleware

import (
	"errors"

	authsvc "ngo-connect-backend/internal/application/auth"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) != nil {
			return c.Next()
		}
		err, _ := c.Locals(authErrorLocal).(error)
		switch {
		case errors.Is(err, authsvc.ErrTokenRevoked):
			return response.ErrorCode(c, fiber.StatusUnauthorized, "token_revoked", "Token has been revoked", nil)
		case errors.Is(err, authsvc.ErrInvalidToken):
			return response.ErrorCode(c, fiber.StatusUnauthorized, "invalid_token", "Invalid or expired token", nil)
		case err != nil:
			return response.Internal(c, "auth_unavailable")
		}
		return response.Unauthorized(c, "Unauthorized")
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) *SessionUser {
	u, _ := c.Locals(userLocal).(*SessionUser)
	return u
}

// SetUser places u in Locals. Handlers tests use it in place of a real token.
func SetUser(c *fiber.Ctx, u *SessionUser) {
	c.Locals(userLocal, u)
}
