package profile

import (
	"sort"

	"ngo-connect-backend/internal/application/catalog"
	"ngo-connect-backend/internal/domain"
)

// URLFunc turns a stored object name into a public URL.
type URLFunc func(objectName string) string

func (f URLFunc) url(name string) string {
	if name == "" {
		return ""
	}
	if f == nil {
		return name
	}
	return f(name)
}

type FocusAreaView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// OrgSkillView is one org↔skill edge with its per-edge description.
type OrgSkillView struct {
	SkillID     uint   `json:"skill_id"`
	Skill       string `json:"skill"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// OrgView is the full organisation profile.
type OrgView struct {
	domain.OrgProfile
	LogoURL       string          `json:"org_logo_url"`
	CoverPhotoURL string          `json:"org_cover_photo_url"`
	FocusAreas    []FocusAreaView `json:"focus_areas"`
}

// OrgBundle is the load_org payload.
type OrgBundle struct {
	OrgProfile      OrgView                `json:"orgProfile"`
	OrgProjects     []domain.OrgProject    `json:"orgProjects"`
	OrgInitiatives  []domain.OrgInitiative `json:"orgInitiatives"`
	OrgSkillsNeeded []OrgSkillView         `json:"orgSkillsNeeded"`
}

// OrgSummary is the listing/matching shape of an organisation.
type OrgSummary struct {
	ID              uint            `json:"id"`
	OrgName         string          `json:"org_name"`
	OrgOverview     string          `json:"org_overview"`
	OrgDistrictTown string          `json:"org_district_town"`
	OrgCounty       string          `json:"org_county"`
	OrgCountry      string          `json:"org_country"`
	OrgWebsite      string          `json:"org_website"`
	LogoURL         string          `json:"org_logo_url"`
	Verified        bool            `json:"verified"`
	FocusAreas      []FocusAreaView `json:"focus_areas"`
	Skills          []OrgSkillView  `json:"skills"`
}

// VolunteerView is a volunteer and their declared skills.
type VolunteerView struct {
	ID        uint                `json:"id"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Email     string              `json:"email"`
	Skills    []catalog.SkillView `json:"skills"`
}

func newFocusAreaViews(areas []domain.FocusArea) []FocusAreaView {
	out := make([]FocusAreaView, 0, len(areas))
	for _, a := range areas {
		out = append(out, FocusAreaView{ID: a.ID, Name: a.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NewOrgSkillViews renders edges ordered by skill id. Skill must be preloaded.
func NewOrgSkillViews(edges []domain.OrgSkill) []OrgSkillView {
	out := make([]OrgSkillView, 0, len(edges))
	for _, e := range edges {
		out = append(out, OrgSkillView{
			SkillID:     e.SkillID,
			Skill:       e.Skill.Skill,
			Status:      e.Skill.Status,
			Description: e.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	return out
}

func newOrgView(org *domain.OrgProfile, urls URLFunc) OrgView {
	return OrgView{
		OrgProfile:    *org,
		LogoURL:       urls.url(org.OrgLogoFilename),
		CoverPhotoURL: urls.url(org.OrgCoverPhotoFilename),
		FocusAreas:    newFocusAreaViews(org.FocusAreas),
	}
}

// NewOrgSummary renders org; FocusAreas and SkillsNeeded.Skill must be preloaded.
func NewOrgSummary(org *domain.OrgProfile, urls URLFunc) OrgSummary {
	return OrgSummary{
		ID:              org.ID,
		OrgName:         org.OrgName,
		OrgOverview:     org.OrgOverview,
		OrgDistrictTown: org.OrgDistrictTown,
		OrgCounty:       org.OrgCounty,
		OrgCountry:      org.OrgCountry,
		OrgWebsite:      org.OrgWebsite,
		LogoURL:         urls.url(org.OrgLogoFilename),
		Verified:        org.Verified,
		FocusAreas:      newFocusAreaViews(org.FocusAreas),
		Skills:          NewOrgSkillViews(org.SkillsNeeded),
	}
}

func newVolunteerView(u *domain.User) *VolunteerView {
	skills := append([]domain.SkillNeeded(nil), u.Skills...)
	sort.Slice(skills, func(i, j int) bool { return skills[i].ID < skills[j].ID })
	return &VolunteerView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Skills:    catalog.NewSkillViews(skills),
	}
}
