package matching

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	matchsvc "ngo-connect-backend/internal/application/matching"
	"ngo-connect-backend/internal/application/profile"
	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orgsEnvelope struct {
	Data struct {
		Orgs []profile.OrgSummary `json:"orgs"`
	} `json:"data"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupMatchingTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db := testutil.NewDB(t)
	h := &Handlers{Service: &matchsvc.Service{DB: db}}
	app := fiber.New()
	app.Get("/main/orgs", h.ListOrgs)
	app.Get("/main/match-skills", h.MatchSkills)
	return app, db
}

func get(t *testing.T, app *fiber.App, path string) (int, orgsEnvelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	var env orgsEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestMatchSkills_HitAndMiss(t *testing.T) {
	app, db := setupMatchingTest(t)
	tech := testutil.CreateSkill(t, db, "Data analysis", domain.SkillTech)
	nonTech := testutil.CreateSkill(t, db, "Counselling", domain.SkillNonTech)
	other := testutil.CreateSkill(t, db, "Carpentry", domain.SkillNonTech)

	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	org := testutil.CreateOrg(t, db, admin.ID, "Maji Safi")
	require.NoError(t, db.Create(&domain.OrgSkill{OrgID: org.ID, SkillID: tech.ID}).Error)
	require.NoError(t, db.Create(&domain.OrgSkill{OrgID: org.ID, SkillID: nonTech.ID}).Error)

	hit := testutil.CreateUser(t, db, "hit@example.com", false)
	require.NoError(t, db.Create(&domain.UserSkill{UserID: hit.ID, SkillID: tech.ID}).Error)
	miss := testutil.CreateUser(t, db, "miss@example.com", false)
	require.NoError(t, db.Create(&domain.UserSkill{UserID: miss.ID, SkillID: other.ID}).Error)

	status, env := get(t, app, "/main/match-skills?user_id="+itoa(hit.ID))
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, env.Data.Orgs, 1)
	assert.Equal(t, "Maji Safi", env.Data.Orgs[0].OrgName)
	assert.Len(t, env.Data.Orgs[0].Skills, 2)

	status, env = get(t, app, "/main/match-skills?user_id="+itoa(miss.ID))
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, env.Data.Orgs)

	status, env = get(t, app, "/main/orgs")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, env.Data.Orgs, 1)
}

func TestMatchSkills_Errors(t *testing.T) {
	app, db := setupMatchingTest(t)

	status, env := get(t, app, "/main/match-skills")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "missing_user_id", env.Error.Code)

	status, env = get(t, app, "/main/match-skills?user_id=-3")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_user_id", env.Error.Code)

	status, env = get(t, app, "/main/match-skills?user_id=77")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "volunteer_not_found", env.Error.Code)

	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	status, env = get(t, app, "/main/match-skills?user_id="+itoa(admin.ID))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "volunteer_not_found", env.Error.Code)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	status, env = get(t, app, "/main/match-skills?user_id=1")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "persistence_error", env.Error.Code)

	status, env = get(t, app, "/main/orgs")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "persistence_error", env.Error.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
