package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"ngo-connect-backend/internal/application/catalog"
	profilesvc "ngo-connect-backend/internal/application/profile"
	"ngo-connect-backend/internal/middleware"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles organisation and volunteer profile endpoints.
type Handlers struct {
	Service *profilesvc.Service
	Catalog *catalog.Service
}

// CreateOrg POST /profile/org
func (h *Handlers) CreateOrg(c *fiber.Ctx) error {
	var in profilesvc.CreateOrgInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	org, err := h.Service.CreateOrgProfile(c.UserContext(), middleware.GetUser(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Organisation profile created successfully", fiber.Map{"orgProfile": org}, nil)
}

// StoreProjectsInitiatives POST /profile/org/projects_initiatives
func (h *Handlers) StoreProjectsInitiatives(c *fiber.Ctx) error {
	var in profilesvc.ProjectsInitiativesInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	counts, err := h.Service.StoreProjectsAndInitiatives(c.UserContext(), middleware.GetUser(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Organisation projects, initiatives and skills stored successfully", counts, nil)
}

// LoadOrg GET /profile/load_org?user_id= (defaults to the caller)
func (h *Handlers) LoadOrg(c *fiber.Ctx) error {
	userID, ok := targetUser(c)
	if !ok {
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_user_id", "user_id must be a positive integer", nil)
	}
	bundle, err := h.Service.LoadOrgProfile(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Organisation profile loaded", bundle, nil)
}

// EditBasicInfo POST /profile/edit_basic_info
func (h *Handlers) EditBasicInfo(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body == nil {
		return response.BadRequest(c, "Invalid request body")
	}
	org, err := h.Service.EditBasicInfo(c.UserContext(), middleware.GetUser(c).UserID, body)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Organisation profile updated", fiber.Map{"orgProfile": org}, nil)
}

// EditProjects POST /profile/edit_projects
func (h *Handlers) EditProjects(c *fiber.Ctx) error {
	var rows []profilesvc.ProjectRowInput
	if err := collection(c.Body(), "projects", &rows); err != nil {
		return response.BadRequest(c, "Body must be {\"projects\": [...]}")
	}
	res, err := h.Service.EditProjects(c.UserContext(), middleware.GetUser(c).UserID, rows)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Projects updated", res, nil)
}

// EditInitiatives POST /profile/edit_initiatives
func (h *Handlers) EditInitiatives(c *fiber.Ctx) error {
	var rows []profilesvc.InitiativeRowInput
	if err := collection(c.Body(), "initiatives", &rows); err != nil {
		return response.BadRequest(c, "Body must be {\"initiatives\": [...]}")
	}
	res, err := h.Service.EditInitiatives(c.UserContext(), middleware.GetUser(c).UserID, rows)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Initiatives updated", res, nil)
}

// EditSkills POST /profile/edit_skills
func (h *Handlers) EditSkills(c *fiber.Ctx) error {
	var rows []profilesvc.SkillRowInput
	if err := collection(c.Body(), "skills", &rows); err != nil {
		return response.BadRequest(c, "Body must be {\"skills\": [...]}")
	}
	res, err := h.Service.EditSkills(c.UserContext(), middleware.GetUser(c).UserID, rows)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Skills updated", res, nil)
}

// AllSkills GET /profile/all_skills
func (h *Handlers) AllSkills(c *fiber.Ctx) error {
	skills, err := h.Catalog.AllSkills(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Skills loaded", fiber.Map{"skills": skills}, nil)
}

// volunteerSkillsBody carries the legacy userId field; it must match the caller.
type volunteerSkillsBody struct {
	UserID json.Number `json:"userId"`
	profilesvc.VolunteerSkillsInput
}

// SubmitVolunteer POST /profile/volunteer
func (h *Handlers) SubmitVolunteer(c *fiber.Ctx) error {
	in, ok := h.volunteerBody(c)
	if !ok {
		return nil
	}
	view, err := h.Service.SubmitVolunteerSkills(c.UserContext(), middleware.GetUser(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Volunteer skills saved", fiber.Map{"volunteer": view}, nil)
}

// GetVolunteer GET /profile/volunteer?user_id= (defaults to the caller)
func (h *Handlers) GetVolunteer(c *fiber.Ctx) error {
	userID, ok := targetUser(c)
	if !ok {
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_user_id", "user_id must be a positive integer", nil)
	}
	view, err := h.Service.GetVolunteer(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Volunteer loaded", fiber.Map{"volunteer": view}, nil)
}

// EditVolunteer POST /profile/volunteer/edit
func (h *Handlers) EditVolunteer(c *fiber.Ctx) error {
	in, ok := h.volunteerBody(c)
	if !ok {
		return nil
	}
	res, err := h.Service.EditVolunteerSkills(c.UserContext(), middleware.GetUser(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Volunteer skills updated", res, nil)
}

// volunteerBody parses the skills body and writes the error response itself
// when it returns false.
func (h *Handlers) volunteerBody(c *fiber.Ctx) (profilesvc.VolunteerSkillsInput, bool) {
	var body volunteerSkillsBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		_ = response.BadRequest(c, "Invalid request body")
		return body.VolunteerSkillsInput, false
	}
	if body.UserID != "" {
		id, err := strconv.ParseUint(body.UserID.String(), 10, 64)
		if err != nil || uint(id) != middleware.GetUser(c).UserID {
			_ = response.Forbidden(c, "Cannot edit another user's skills")
			return body.VolunteerSkillsInput, false
		}
	}
	return body.VolunteerSkillsInput, true
}

// targetUser reads ?user_id=, falling back to the caller.
func targetUser(c *fiber.Ctx) (uint, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		if u := middleware.GetUser(c); u != nil {
			return u.UserID, true
		}
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// collection accepts {"<key>": [...]} or a bare JSON array.
func collection(body []byte, key string, dst interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		return json.Unmarshal(body, dst)
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return err
	}
	raw, ok := wrapper[key]
	if !ok {
		return errors.New("missing " + key)
	}
	return json.Unmarshal(raw, dst)
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrInvalidInput),
		errors.Is(err, catalog.ErrEmptySkill),
		errors.Is(err, catalog.ErrInvalidStatus),
		errors.Is(err, catalog.ErrEmptyFocus):
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_input", err.Error(), nil)
	case errors.Is(err, profilesvc.ErrNoUpdatableFields):
		return response.ErrorCode(c, fiber.StatusBadRequest, "no_updatable_fields", err.Error(), nil)
	case errors.Is(err, profilesvc.ErrOrgProfileExists):
		return response.ErrorCode(c, fiber.StatusBadRequest, "org_profile_exists", err.Error(), nil)
	case errors.Is(err, profilesvc.ErrNotAdmin):
		return response.ErrorCode(c, fiber.StatusForbidden, "admin_required", err.Error(), nil)
	case errors.Is(err, profilesvc.ErrAdminSkills):
		return response.ErrorCode(c, fiber.StatusForbidden, "volunteer_required", err.Error(), nil)
	case errors.Is(err, profilesvc.ErrOrgNotFound):
		return response.ErrorCode(c, fiber.StatusNotFound, "org_not_found", err.Error(), nil)
	case errors.Is(err, profilesvc.ErrVolunteerNotFound):
		return response.ErrorCode(c, fiber.StatusNotFound, "volunteer_not_found", err.Error(), nil)
	case errors.Is(err, profilesvc.ErrUserNotFound):
		return response.ErrorCode(c, fiber.StatusNotFound, "user_not_found", err.Error(), nil)
	default:
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("profile request failed")
		return response.Internal(c, "persistence_error")
	}
}
