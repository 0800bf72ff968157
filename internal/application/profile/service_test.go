package profile

import (
	"context"
	"testing"

	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProfileTest(t *testing.T) (*Service, *gorm.DB) {
	db := testutil.NewDB(t)
	svc := &Service{DB: db, PublicURL: func(name string) string { return "https://cdn.test/" + name }}
	return svc, db
}

func TestCreateOrgProfile(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", true)

	view, err := svc.CreateOrgProfile(ctx, admin.ID, CreateOrgInput{
		OrgDetails:       OrgDetailsInput{OrgName: "<b>Helping Hands</b>", AboutOrg: "We help", YearEstablished: 2010},
		MissionStatement: "Feed everyone",
		ContactInfo:      ContactInfoInput{Email: "Info@Helping.org", Phone: "0700"},
		OrgAddress:       OrgAddressInput{DistrictTown: "Kisumu", Country: "Kenya"},
		FocusAreas:       []string{"Education", "Health", "Education"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Helping Hands", view.OrgName)
	assert.Equal(t, "info@helping.org", view.OrgEmail)
	assert.Len(t, view.FocusAreas, 2)

	_, err = svc.CreateOrgProfile(ctx, admin.ID, CreateOrgInput{OrgDetails: OrgDetailsInput{OrgName: "Again"}})
	assert.ErrorIs(t, err, ErrOrgProfileExists)

	var count int64
	require.NoError(t, db.Model(&domain.OrgProfile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrgProfile_Rejections(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	vol := testutil.CreateUser(t, db, "vol@example.com", false)

	_, err := svc.CreateOrgProfile(ctx, vol.ID, CreateOrgInput{OrgDetails: OrgDetailsInput{OrgName: "X"}})
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = svc.CreateOrgProfile(ctx, vol.ID, CreateOrgInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateOrgProfile(ctx, 999, CreateOrgInput{OrgDetails: OrgDetailsInput{OrgName: "X"}})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStoreProjectsAndInitiatives_AndLoad(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	org := testutil.CreateOrg(t, db, admin.ID, "Helping Hands")
	require.NoError(t, db.Model(org).Update("org_logo_filename", "logo/abc.jpg").Error)

	counts, err := svc.StoreProjectsAndInitiatives(ctx, admin.ID, ProjectsInitiativesInput{
		OngoingProjects:    []ProjectInput{{ProjectName: "Wells", Description: "Dig"}},
		PreviousProjects:   []ProjectInput{{ProjectName: "Books"}},
		ProgramInitiatives: []InitiativeInput{{InitiativeName: "Mentors"}},
		SupportNeeds: SupportNeedsInput{
			TechSkills:    []SupportNeedInput{{Value: "Web Development", Description: "site rebuild"}},
			NonTechSkills: []SupportNeedInput{{Value: "Fundraising"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, &StoredCounts{Projects: 2, Initiatives: 1, Skills: 2}, counts)

	bundle, err := svc.LoadOrgProfile(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/logo/abc.jpg", bundle.OrgProfile.LogoURL)
	assert.Empty(t, bundle.OrgProfile.CoverPhotoURL)
	require.Len(t, bundle.OrgProjects, 2)
	assert.Equal(t, domain.ProjectOngoing, bundle.OrgProjects[0].ProjectStatus)
	assert.Equal(t, domain.ProjectCompleted, bundle.OrgProjects[1].ProjectStatus)
	require.Len(t, bundle.OrgInitiatives, 1)
	require.Len(t, bundle.OrgSkillsNeeded, 2)
	assert.Equal(t, "Web Development", bundle.OrgSkillsNeeded[0].Skill)
	assert.Equal(t, "site rebuild", bundle.OrgSkillsNeeded[0].Description)
	assert.Equal(t, domain.SkillNonTech, bundle.OrgSkillsNeeded[1].Status)
}

func TestLoadOrgProfile_NotFound(t *testing.T) {
	svc, db := setupProfileTest(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	_, err := svc.LoadOrgProfile(context.Background(), admin.ID)
	assert.ErrorIs(t, err, ErrOrgNotFound)
}

func TestEditProjects_UpdateInsertDelete(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	org := testutil.CreateOrg(t, db, admin.ID, "Helping Hands")
	keep := domain.OrgProject{OrgID: org.ID, ProjectName: "Wells", ProjectStatus: domain.ProjectOngoing}
	drop := domain.OrgProject{OrgID: org.ID, ProjectName: "Books", ProjectStatus: domain.ProjectCompleted}
	require.NoError(t, db.Create(&keep).Error)
	require.NoError(t, db.Create(&drop).Error)

	rows := []ProjectRowInput{
		{ID: keep.ID, ProjectName: "Wells", ProjectDescription: "Now with pumps", ProjectStatus: "ongoing"},
		{ProjectName: "Clinics", ProjectStatus: "upcoming"},
	}
	res, err := svc.EditProjects(ctx, admin.ID, rows)
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Inserted: 1, Updated: 1, Deleted: 1}, res.ChangeSummary)
	require.Len(t, res.Projects, 2)

	var count int64
	require.NoError(t, db.Model(&domain.OrgProject{}).Where("org_id = ?", org.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	var gone int64
	require.NoError(t, db.Model(&domain.OrgProject{}).Where("id = ?", drop.ID).Count(&gone).Error)
	assert.Zero(t, gone)

	// Resubmitting the resulting list changes nothing.
	again := make([]ProjectRowInput, 0, len(res.Projects))
	for _, p := range res.Projects {
		again = append(again, ProjectRowInput{ID: p.ID, ProjectName: p.ProjectName,
			ProjectDescription: p.ProjectDescription, ProjectStatus: p.ProjectStatus})
	}
	res2, err := svc.EditProjects(ctx, admin.ID, again)
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{}, res2.ChangeSummary)
	assert.Equal(t, res.Projects, res2.Projects)
}

func TestEditProjects_ForeignIDIsInsertedNotStolen(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a@example.com", true)
	b := testutil.CreateUser(t, db, "b@example.com", true)
	orgA := testutil.CreateOrg(t, db, a.ID, "A")
	testutil.CreateOrg(t, db, b.ID, "B")
	theirs := domain.OrgProject{OrgID: orgA.ID, ProjectName: "A's project", ProjectStatus: domain.ProjectOngoing}
	require.NoError(t, db.Create(&theirs).Error)

	res, err := svc.EditProjects(ctx, b.ID, []ProjectRowInput{{ID: theirs.ID, ProjectName: "Hijack"}})
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Inserted: 1}, res.ChangeSummary)

	var stillTheirs domain.OrgProject
	require.NoError(t, db.First(&stillTheirs, theirs.ID).Error)
	assert.Equal(t, "A's project", stillTheirs.ProjectName)
	assert.Equal(t, orgA.ID, stillTheirs.OrgID)
}

func TestEditProjects_ValidationRollsBackNothing(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	org := testutil.CreateOrg(t, db, admin.ID, "Org")
	require.NoError(t, db.Create(&domain.OrgProject{OrgID: org.ID, ProjectName: "Keep", ProjectStatus: "ongoing"}).Error)

	_, err := svc.EditProjects(ctx, admin.ID, []ProjectRowInput{{ProjectName: "x", ProjectStatus: "someday"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	var count int64
	require.NoError(t, db.Model(&domain.OrgProject{}).Where("org_id = ?", org.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEditProjects_NoOrg(t *testing.T) {
	svc, db := setupProfileTest(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	_, err := svc.EditProjects(context.Background(), admin.ID, nil)
	assert.ErrorIs(t, err, ErrOrgNotFound)
}

func TestEditInitiatives(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	org := testutil.CreateOrg(t, db, admin.ID, "Org")
	old := domain.OrgInitiative{OrgID: org.ID, InitiativeName: "Old"}
	require.NoError(t, db.Create(&old).Error)

	res, err := svc.EditInitiatives(ctx, admin.ID, []InitiativeRowInput{
		{ID: old.ID, InitiativeName: "Old", InitiativeDescription: "refreshed"},
		{InitiativeName: "New"},
	})
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Inserted: 1, Updated: 1}, res.ChangeSummary)
	require.Len(t, res.Initiatives, 2)
	assert.Equal(t, "refreshed", res.Initiatives[0].InitiativeDescription)

	res, err = svc.EditInitiatives(ctx, admin.ID, []InitiativeRowInput{})
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Deleted: 2}, res.ChangeSummary)
	assert.Empty(t, res.Initiatives)
}

func TestEditSkills_KeepsEdgeDescription(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	testutil.CreateOrg(t, db, admin.ID, "Org")

	res, err := svc.EditSkills(ctx, admin.ID, []SkillRowInput{
		{Skill: "Python", Status: "tech", Description: "data pipeline"},
		{Skill: "Cooking", Status: "non-tech"},
	})
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Inserted: 2}, res.ChangeSummary)
	require.Len(t, res.Skills, 2)
	python := res.Skills[0]
	assert.Equal(t, "data pipeline", python.Description)

	// Same list again, addressed by id: no changes.
	res, err = svc.EditSkills(ctx, admin.ID, []SkillRowInput{
		{SkillID: python.SkillID, Description: "data pipeline"},
		{Skill: "Cooking", Status: "non-tech"},
	})
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{}, res.ChangeSummary)

	// Description edit, Cooking removed.
	res, err = svc.EditSkills(ctx, admin.ID, []SkillRowInput{
		{SkillID: python.SkillID, Description: "ML models"},
	})
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Updated: 1, Deleted: 1}, res.ChangeSummary)
	require.Len(t, res.Skills, 1)
	assert.Equal(t, "ML models", res.Skills[0].Description)

	// Catalog rows survive edge deletion.
	var catalogCount int64
	require.NoError(t, db.Model(&domain.SkillNeeded{}).Count(&catalogCount).Error)
	assert.Equal(t, int64(2), catalogCount)
}

func TestEditSkills_InvalidStatus(t *testing.T) {
	svc, db := setupProfileTest(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	testutil.CreateOrg(t, db, admin.ID, "Org")
	_, err := svc.EditSkills(context.Background(), admin.ID, []SkillRowInput{{Skill: "Go", Status: "guru"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEditSkills_FailureMidListLeavesNothingBehind(t *testing.T) {
	svc, db := setupProfileTest(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	testutil.CreateOrg(t, db, admin.ID, "Org")

	_, err := svc.EditSkills(context.Background(), admin.ID, []SkillRowInput{
		{Skill: "Python", Status: "tech"},
		{Skill: "Go", Status: "guru"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	var catalogCount, edgeCount int64
	require.NoError(t, db.Model(&domain.SkillNeeded{}).Count(&catalogCount).Error)
	require.NoError(t, db.Model(&domain.OrgSkill{}).Count(&edgeCount).Error)
	assert.Zero(t, catalogCount)
	assert.Zero(t, edgeCount)
}

func TestEditBasicInfo(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	testutil.CreateOrg(t, db, admin.ID, "Org")

	view, err := svc.EditBasicInfo(ctx, admin.ID, map[string]interface{}{
		"org_overview":         "<script>x</script>Updated overview",
		"org_year_established": float64(1999),
		"org_website":          " https://org.example ",
		"verified":             true,
		"focus_areas":          []interface{}{"Water", "Health"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated overview", view.OrgOverview)
	assert.Equal(t, 1999, view.OrgYearEstablished)
	assert.Equal(t, "https://org.example", view.OrgWebsite)
	assert.False(t, view.Verified)
	assert.Len(t, view.FocusAreas, 2)

	view, err = svc.EditBasicInfo(ctx, admin.ID, map[string]interface{}{"focus_areas": []interface{}{}})
	require.NoError(t, err)
	assert.Empty(t, view.FocusAreas)

	_, err = svc.EditBasicInfo(ctx, admin.ID, map[string]interface{}{"verified": true})
	assert.ErrorIs(t, err, ErrNoUpdatableFields)

	_, err = svc.EditBasicInfo(ctx, admin.ID, map[string]interface{}{"org_name": ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.EditBasicInfo(ctx, admin.ID, map[string]interface{}{"org_email": "bad"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVolunteerSkills_SubmitGetEdit(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	vol := testutil.CreateUser(t, db, "vol@example.com", false)

	view, err := svc.SubmitVolunteerSkills(ctx, vol.ID, VolunteerSkillsInput{
		TechSkills: []string{"Python", "Python"}, NonTechSkills: []string{"Cooking"},
	})
	require.NoError(t, err)
	assert.Len(t, view.Skills, 2)

	// Additive.
	view, err = svc.SubmitVolunteerSkills(ctx, vol.ID, VolunteerSkillsInput{TechSkills: []string{"Go", "Python"}})
	require.NoError(t, err)
	assert.Len(t, view.Skills, 3)

	got, err := svc.GetVolunteer(ctx, vol.ID)
	require.NoError(t, err)
	assert.Equal(t, view, got)

	res, err := svc.EditVolunteerSkills(ctx, vol.ID, VolunteerSkillsInput{
		TechSkills: []string{"Go"}, NonTechSkills: []string{"Teaching"},
	})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "Teaching", res.Added[0].Skill)
	assert.Len(t, res.Removed, 2)
	assert.Len(t, res.Volunteer.Skills, 2)

	res, err = svc.EditVolunteerSkills(ctx, vol.ID, VolunteerSkillsInput{
		TechSkills: []string{"Go"}, NonTechSkills: []string{"Teaching"},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Removed)
}

func TestVolunteerSkills_AdminRejected(t *testing.T) {
	svc, db := setupProfileTest(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", true)

	_, err := svc.SubmitVolunteerSkills(ctx, admin.ID, VolunteerSkillsInput{TechSkills: []string{"Go"}})
	assert.ErrorIs(t, err, ErrAdminSkills)

	var edges int64
	require.NoError(t, db.Model(&domain.UserSkill{}).Count(&edges).Error)
	assert.Zero(t, edges)

	_, err = svc.GetVolunteer(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrVolunteerNotFound)
	_, err = svc.GetVolunteer(ctx, 12345)
	assert.ErrorIs(t, err, ErrVolunteerNotFound)
}
