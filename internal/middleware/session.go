package middleware

import (
	"errors"
	"strings"

	authsvc "ngo-connect-backend/internal/application/auth"
	roles "ngo-connect-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	userLocal      = "user"
	authErrorLocal = "auth_error"
)

// SessionUser is what the bearer token resolves to for the rest of the request.
type SessionUser struct {
	UserID uint
	Email  string
	Role   string
	Claims *authsvc.Claims
}

// IsAdmin reports whether the caller is an organisation admin.
func (u *SessionUser) IsAdmin() bool {
	return u != nil && u.Role == roles.Admin
}

// Session parses an optional "Authorization: Bearer" access token and stores the
// resolved user in Locals. Requests without a valid token continue anonymously;
// RequireAuth decides whether that is acceptable.
func Session(tokens *authsvc.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" || tokens == nil {
			return c.Next()
		}
		claims, err := tokens.Parse(c.UserContext(), raw, authsvc.TokenAccess)
		if err != nil {
			c.Locals(authErrorLocal, err)
			if !isTokenError(err) {
				log.Error().Err(err).Str("trace_id", GetTraceID(c)).Msg("token check failed")
			}
			return c.Next()
		}
		role := roles.Volunteer
		if claims.IsAdmin {
			role = roles.Admin
		}
		c.Locals(userLocal, &SessionUser{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   role,
			Claims: claims,
		})
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func isTokenError(err error) bool {
	return errors.Is(err, authsvc.ErrInvalidToken) || errors.Is(err, authsvc.ErrTokenRevoked)
}
