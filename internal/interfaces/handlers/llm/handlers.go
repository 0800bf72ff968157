package llm

import (
	"errors"

	llmsvc "ngo-connect-backend/internal/application/llm"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles the content-generation proxy.
type Handlers struct {
	Service *llmsvc.Service
}

// Generate POST /claude/generate
func (h *Handlers) Generate(c *fiber.Ctx) error {
	var in llmsvc.GenerateInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	res, err := h.Service.Generate(c.UserContext(), in)
	switch {
	case err == nil:
		return response.Success(c, "Content generated", res, nil)
	case errors.Is(err, llmsvc.ErrMissingFields):
		return response.ErrorCode(c, fiber.StatusBadRequest, "missing_fields", err.Error(), nil)
	case errors.Is(err, llmsvc.ErrNotConfigured):
		return response.ErrorCode(c, fiber.StatusInternalServerError, "llm_not_configured", err.Error(), nil)
	case errors.Is(err, llmsvc.ErrProvider):
		return response.ErrorCode(c, fiber.StatusInternalServerError, "llm_api_error", err.Error(), nil)
	case errors.Is(err, llmsvc.ErrEmptyResponse):
		return response.ErrorCode(c, fiber.StatusInternalServerError, "llm_empty_response", err.Error(), nil)
	default:
		return response.Internal(c, "")
	}
}
