package middleware

import (
	"ngo-connect-backend/internal/constants"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission checks the session user's role against PermissionRoles.
// Unconfigured permission -> 500; role not allowed -> 403.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if user.Role == "" {
			return response.ErrorCode(c, fiber.StatusInternalServerError, "authorization_error", "Authorization error", nil)
		}
		allowed, ok := constants.PermissionRoles[permission]
		if !ok || len(allowed) == 0 {
			return response.ErrorCode(c, fiber.StatusInternalServerError, "permission_config_error", "Permission configuration error", nil)
		}
		if !constants.AllowedRole(permission, user.Role) {
			return response.Forbidden(c, "User is Forbidden from performing this action")
		}
		return c.Next()
	}
}
