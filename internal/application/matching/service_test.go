package matching

import (
	"context"
	"fmt"
	"testing"

	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func needs(t *testing.T, db *gorm.DB, orgID uint, skills ...*domain.SkillNeeded) {
	t.Helper()
	for _, s := range skills {
		require.NoError(t, db.Create(&domain.OrgSkill{OrgID: orgID, SkillID: s.ID, Description: "needs " + s.Skill}).Error)
	}
}

func holds(t *testing.T, db *gorm.DB, userID uint, skills ...*domain.SkillNeeded) {
	t.Helper()
	for _, s := range skills {
		require.NoError(t, db.Create(&domain.UserSkill{UserID: userID, SkillID: s.ID}).Error)
	}
}

func TestMatchSkills_OrSemanticsAndDedup(t *testing.T) {
	db := testutil.NewDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	py := testutil.CreateSkill(t, db, "Python", domain.SkillTech)
	cook := testutil.CreateSkill(t, db, "Cooking", domain.SkillNonTech)
	law := testutil.CreateSkill(t, db, "Law", domain.SkillNonTech)

	a1 := testutil.CreateUser(t, db, "a1@example.com", true)
	a2 := testutil.CreateUser(t, db, "a2@example.com", true)
	a3 := testutil.CreateUser(t, db, "a3@example.com", true)
	orgBoth := testutil.CreateOrg(t, db, a1.ID, "Both")
	orgCook := testutil.CreateOrg(t, db, a2.ID, "Cook")
	orgLaw := testutil.CreateOrg(t, db, a3.ID, "Law")
	needs(t, db, orgBoth.ID, py, cook)
	needs(t, db, orgCook.ID, cook)
	needs(t, db, orgLaw.ID, law)

	vol := testutil.CreateUser(t, db, "vol@example.com", false)
	holds(t, db, vol.ID, py, cook)

	got, err := svc.MatchSkills(ctx, vol.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, orgBoth.ID, got[0].ID)
	assert.Equal(t, orgCook.ID, got[1].ID)
	require.Len(t, got[0].Skills, 2)
	assert.Equal(t, "needs Python", got[0].Skills[0].Description)
}

func TestMatchSkills_NoSkillsNoMatches(t *testing.T) {
	db := testutil.NewDB(t)
	svc := &Service{DB: db}
	vol := testutil.CreateUser(t, db, "vol@example.com", false)
	got, err := svc.MatchSkills(context.Background(), vol.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestMatchSkills_UnknownVolunteer(t *testing.T) {
	db := testutil.NewDB(t)
	svc := &Service{DB: db}
	_, err := svc.MatchSkills(context.Background(), 404)
	assert.ErrorIs(t, err, ErrVolunteerNotFound)
}

func TestMatchSkills_AdminIsNotAVolunteer(t *testing.T) {
	db := testutil.NewDB(t)
	svc := &Service{DB: db}
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	_, err := svc.MatchSkills(context.Background(), admin.ID)
	assert.ErrorIs(t, err, ErrVolunteerNotFound)
}

// A volunteer appears in an organisation's result iff their skill sets intersect.
func TestMatchSkills_IntersectionProperty(t *testing.T) {
	db := testutil.NewDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	var catalog []*domain.SkillNeeded
	for i := 0; i < 4; i++ {
		catalog = append(catalog, testutil.CreateSkill(t, db, fmt.Sprintf("skill-%d", i), domain.SkillTech))
	}
	// Each org needs the skills whose bit is set in its mask.
	orgMasks := []int{0b0001, 0b0110, 0b1000, 0b0000}
	orgIDs := make([]uint, len(orgMasks))
	for i, mask := range orgMasks {
		admin := testutil.CreateUser(t, db, fmt.Sprintf("admin%d@example.com", i), true)
		org := testutil.CreateOrg(t, db, admin.ID, fmt.Sprintf("org-%d", i))
		orgIDs[i] = org.ID
		for b := 0; b < 4; b++ {
			if mask&(1<<b) != 0 {
				needs(t, db, org.ID, catalog[b])
			}
		}
	}

	for volMask := 0; volMask < 16; volMask++ {
		vol := testutil.CreateUser(t, db, fmt.Sprintf("vol%d@example.com", volMask), false)
		for b := 0; b < 4; b++ {
			if volMask&(1<<b) != 0 {
				holds(t, db, vol.ID, catalog[b])
			}
		}
		got, err := svc.MatchSkills(ctx, vol.ID)
		require.NoError(t, err)
		matched := map[uint]bool{}
		for _, o := range got {
			matched[o.ID] = true
		}
		for i, mask := range orgMasks {
			assert.Equal(t, mask&volMask != 0, matched[orgIDs[i]], "vol mask %04b org mask %04b", volMask, mask)
		}
	}
}

func TestListOrgs(t *testing.T) {
	db := testutil.NewDB(t)
	svc := &Service{DB: db, PublicURL: func(n string) string { return "https://cdn/" + n }}
	a := testutil.CreateUser(t, db, "a@example.com", true)
	org := testutil.CreateOrg(t, db, a.ID, "Org")
	require.NoError(t, db.Model(org).Update("org_logo_filename", "logo/x.jpg").Error)

	got, err := svc.ListOrgs(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn/logo/x.jpg", got[0].LogoURL)
	assert.NotNil(t, got[0].Skills)
	assert.NotNil(t, got[0].FocusAreas)
}
