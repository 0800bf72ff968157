package health

import (
	healthsvc "ngo-connect-backend/internal/application/health"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Service        *healthsvc.Service
	HealthAdminKey string
}

// Check GET /main/health: database reachability only.
func (h *Handlers) Check(c *fiber.Ctx) error {
	body, ok := h.Service.Check(c.UserContext())
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.JSON(body)
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := h.Service.Collect(c.UserContext())
	return c.JSON(fiber.Map{
		"service":      "ngo-connect-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}

// Reset POST /health/reset?key=HEALTH_ADMIN_KEY
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if h.HealthAdminKey == "" || key != h.HealthAdminKey {
		return response.Forbidden(c, "Unauthorized")
	}
	if err := h.Service.Reset(c.UserContext()); err != nil {
		log.Error().Err(err).Msg("health: reset failed")
		return response.Internal(c, "health_reset_failed")
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}
