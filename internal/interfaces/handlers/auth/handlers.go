package auth

import (
	"errors"

	authsvc "ngo-connect-backend/internal/application/auth"
	"ngo-connect-backend/internal/middleware"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Signup POST /auth/signup
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req authsvc.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	id, err := h.Service.Signup(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user_id": id}, nil)
}

// Login POST /auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ErrorCode(c, fiber.StatusBadRequest, "missing_credentials", authsvc.ErrEmailPasswordRequired.Error(), nil)
	}
	pair, err := h.Service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "Login successful", pair, nil)
}

// Refresh POST /auth/refresh
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	pair, err := h.Service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "Token refreshed", pair, nil)
}

// Logout POST /auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.Logout(c.UserContext(), user.Claims); err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "Logged out successfully", nil, nil)
}

// CurrentUser GET /auth/user
func (h *Handlers) CurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	view, err := h.Service.CurrentUser(c.UserContext(), user.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": view}, nil)
}

func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, authsvc.ErrMissingFields):
		return response.ErrorCode(c, fiber.StatusBadRequest, "missing_fields", err.Error(), nil)
	case errors.Is(err, authsvc.ErrEmailPasswordRequired):
		return response.ErrorCode(c, fiber.StatusBadRequest, "missing_credentials", err.Error(), nil)
	case errors.Is(err, authsvc.ErrInvalidEmail):
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_email", err.Error(), nil)
	case errors.Is(err, authsvc.ErrInvalidName):
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_name", err.Error(), nil)
	case errors.Is(err, authsvc.ErrWeakPassword):
		return response.ErrorCode(c, fiber.StatusBadRequest, "weak_password", err.Error(), nil)
	case errors.Is(err, authsvc.ErrEmailTaken):
		return response.ErrorCode(c, fiber.StatusBadRequest, "email_taken", err.Error(), nil)
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return response.ErrorCode(c, fiber.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
	case errors.Is(err, authsvc.ErrInvalidToken):
		return response.ErrorCode(c, fiber.StatusUnauthorized, "invalid_token", err.Error(), nil)
	case errors.Is(err, authsvc.ErrTokenRevoked):
		return response.ErrorCode(c, fiber.StatusUnauthorized, "token_revoked", err.Error(), nil)
	case errors.Is(err, authsvc.ErrNotAuthenticated):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, authsvc.ErrUserNotFound):
		return response.ErrorCode(c, fiber.StatusNotFound, "user_not_found", err.Error(), nil)
	default:
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("auth request failed")
		return response.Internal(c, "")
	}
}
