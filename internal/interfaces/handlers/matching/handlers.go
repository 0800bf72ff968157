package matching

import (
	"errors"
	"strconv"

	matchsvc "ngo-connect-backend/internal/application/matching"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles the public listing and matching endpoints.
type Handlers struct {
	Service *matchsvc.Service
}

// ListOrgs GET /main/orgs
func (h *Handlers) ListOrgs(c *fiber.Ctx) error {
	orgs, err := h.Service.ListOrgs(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("list orgs failed")
		return response.Internal(c, "persistence_error")
	}
	return response.Success(c, "Organisations loaded", fiber.Map{"orgs": orgs}, fiber.Map{"count": len(orgs)})
}

// MatchSkills GET /main/match-skills?user_id=
func (h *Handlers) MatchSkills(c *fiber.Ctx) error {
	raw := c.Query("user_id")
	if raw == "" {
		return response.ErrorCode(c, fiber.StatusBadRequest, "missing_user_id", "user_id is required", nil)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_user_id", "user_id must be a positive integer", nil)
	}

	orgs, err := h.Service.MatchSkills(c.UserContext(), uint(id))
	switch {
	case errors.Is(err, matchsvc.ErrVolunteerNotFound):
		return response.ErrorCode(c, fiber.StatusNotFound, "volunteer_not_found", err.Error(), nil)
	case err != nil:
		log.Error().Err(err).Uint64("user_id", id).Msg("match skills failed")
		return response.Internal(c, "persistence_error")
	}
	return response.Success(c, "Matching organisations loaded", fiber.Map{"orgs": orgs}, fiber.Map{"count": len(orgs)})
}
