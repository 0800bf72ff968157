package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ngo-connect-backend/internal/application/catalog"
	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service manages organisation and volunteer profiles.
type Service struct {
	DB        *gorm.DB
	PublicURL URLFunc
}

type OrgDetailsInput struct {
	OrgName            string `json:"orgName"`
	AboutOrg           string `json:"aboutOrg"`
	RegistrationNumber string `json:"registrationNumber"`
	YearEstablished    int    `json:"yearEstablished"`
}

type ContactInfoInput struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type OrgAddressInput struct {
	DistrictTown        string `json:"districtTown"`
	County              string `json:"county"`
	PoBox               string `json:"poBox"`
	Country             string `json:"country"`
	PhysicalDescription string `json:"physicalDescription"`
	GoogleMapsLink      string `json:"googleMapsLink"`
}

type SocialMediaInput struct {
	Website   string `json:"website"`
	Facebook  string `json:"facebook"`
	X         string `json:"x"`
	Instagram string `json:"instagram"`
	Linkedin  string `json:"linkedin"`
	Youtube   string `json:"youtube"`
}

// CreateOrgInput is the onboarding form body.
type CreateOrgInput struct {
	OrgDetails       OrgDetailsInput  `json:"orgDetails"`
	MissionStatement string           `json:"missionStatement"`
	ContactInfo      ContactInfoInput `json:"contactInfo"`
	OrgAddress       OrgAddressInput  `json:"orgAddress"`
	SocialMedia      SocialMediaInput `json:"socialMedia"`
	FocusAreas       []string         `json:"focusAreas"`
}

// CreateOrgProfile creates the caller's organisation. One per admin.
func (s *Service) CreateOrgProfile(ctx context.Context, userID uint, in CreateOrgInput) (*OrgView, error) {
	org := &domain.OrgProfile{
		UserID:                userID,
		OrgName:               cleanText(in.OrgDetails.OrgName),
		OrgOverview:           cleanText(in.OrgDetails.AboutOrg),
		OrgRegistrationNumber: cleanText(in.OrgDetails.RegistrationNumber),
		OrgYearEstablished:    in.OrgDetails.YearEstablished,
		OrgMissionStatement:   cleanText(in.MissionStatement),
		OrgEmail:              domain.NormalizeEmail(in.ContactInfo.Email),
		OrgPhone:              cleanText(in.ContactInfo.Phone),
		OrgDistrictTown:       cleanText(in.OrgAddress.DistrictTown),
		OrgCounty:             cleanText(in.OrgAddress.County),
		OrgPoBox:              cleanText(in.OrgAddress.PoBox),
		OrgCountry:            cleanText(in.OrgAddress.Country),
		OrgPhysicalDesc:       cleanText(in.OrgAddress.PhysicalDescription),
		OrgGoogleMapsLink:     strings.TrimSpace(in.OrgAddress.GoogleMapsLink),
		OrgWebsite:            strings.TrimSpace(in.SocialMedia.Website),
		OrgFacebook:           strings.TrimSpace(in.SocialMedia.Facebook),
		OrgX:                  strings.TrimSpace(in.SocialMedia.X),
		OrgInstagram:          strings.TrimSpace(in.SocialMedia.Instagram),
		OrgLinkedin:           strings.TrimSpace(in.SocialMedia.Linkedin),
		OrgYoutube:            strings.TrimSpace(in.SocialMedia.Youtube),
	}
	if org.OrgName == "" {
		return nil, fmt.Errorf("%w: orgDetails.orgName is required", ErrInvalidInput)
	}
	if org.OrgEmail != "" && !validation.IsValidEmail(org.OrgEmail) {
		return nil, fmt.Errorf("%w: contactInfo.email is not a valid email", ErrInvalidInput)
	}
	if org.OrgYearEstablished < 0 || org.OrgYearEstablished > time.Now().Year() {
		return nil, fmt.Errorf("%w: orgDetails.yearEstablished is out of range", ErrInvalidInput)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, userID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&domain.OrgProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrOrgProfileExists
		}
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		areas, err := resolveFocusAreas(tx, in.FocusAreas)
		if err != nil {
			return err
		}
		if len(areas) > 0 {
			if err := tx.Model(org).Association("FocusAreas").Replace(areas); err != nil {
				return err
			}
		}
		org.FocusAreas = areas
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("org_id", org.ID).Uint("user_id", userID).Msg("organisation profile created")
	view := newOrgView(org, s.PublicURL)
	return &view, nil
}

type ProjectInput struct {
	ProjectName string `json:"projectName"`
	Description string `json:"description"`
}

type InitiativeInput struct {
	InitiativeName string `json:"initiativeName"`
	Description    string `json:"description"`
}

type SupportNeedInput struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

type SupportNeedsInput struct {
	TechSkills    []SupportNeedInput `json:"techSkills"`
	NonTechSkills []SupportNeedInput `json:"nonTechSkills"`
}

// ProjectsInitiativesInput is the second onboarding step.
type ProjectsInitiativesInput struct {
	OngoingProjects    []ProjectInput    `json:"ongoingProjects"`
	PreviousProjects   []ProjectInput    `json:"previousProjects"`
	ProgramInitiatives []InitiativeInput `json:"programInitiatives"`
	SupportNeeds       SupportNeedsInput `json:"supportNeeds"`
}

// StoredCounts reports what StoreProjectsAndInitiatives wrote.
type StoredCounts struct {
	Projects    int `json:"projects"`
	Initiatives int `json:"initiatives"`
	Skills      int `json:"skills"`
}

// StoreProjectsAndInitiatives appends projects, initiatives and support needs to
// the caller's organisation in one transaction.
func (s *Service) StoreProjectsAndInitiatives(ctx context.Context, userID uint, in ProjectsInitiativesInput) (*StoredCounts, error) {
	var projects []domain.OrgProject
	add := func(list []ProjectInput, status, field string) error {
		for i, p := range list {
			name := cleanText(p.ProjectName)
			if name == "" {
				return fmt.Errorf("%w: %s[%d].projectName is required", ErrInvalidInput, field, i)
			}
			projects = append(projects, domain.OrgProject{
				ProjectName:        name,
				ProjectDescription: cleanText(p.Description),
				ProjectStatus:      status,
			})
		}
		return nil
	}
	if err := add(in.OngoingProjects, domain.ProjectOngoing, "ongoingProjects"); err != nil {
		return nil, err
	}
	if err := add(in.PreviousProjects, domain.ProjectCompleted, "previousProjects"); err != nil {
		return nil, err
	}
	var initiatives []domain.OrgInitiative
	for i, it := range in.ProgramInitiatives {
		name := cleanText(it.InitiativeName)
		if name == "" {
			return nil, fmt.Errorf("%w: programInitiatives[%d].initiativeName is required", ErrInvalidInput, i)
		}
		initiatives = append(initiatives, domain.OrgInitiative{
			InitiativeName:        name,
			InitiativeDescription: cleanText(it.Description),
		})
	}
	var needs []SkillRowInput
	for _, n := range in.SupportNeeds.TechSkills {
		needs = append(needs, SkillRowInput{Skill: n.Value, Status: domain.SkillTech, Description: n.Description})
	}
	for _, n := range in.SupportNeeds.NonTechSkills {
		needs = append(needs, SkillRowInput{Skill: n.Value, Status: domain.SkillNonTech, Description: n.Description})
	}

	counts := &StoredCounts{Projects: len(projects), Initiatives: len(initiatives)}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ownOrg(tx, userID)
		if err != nil {
			return err
		}
		for i := range projects {
			projects[i].OrgID = org.ID
		}
		for i := range initiatives {
			initiatives[i].OrgID = org.ID
		}
		if len(projects) > 0 {
			if err := tx.Create(&projects).Error; err != nil {
				return err
			}
		}
		if len(initiatives) > 0 {
			if err := tx.Create(&initiatives).Error; err != nil {
				return err
			}
		}
		edges, err := resolveSkillRows(tx, needs)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if err := upsertOrgSkill(tx, org.ID, e.SkillID, e.Description); err != nil {
				return err
			}
		}
		counts.Skills = len(edges)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// LoadOrgProfile returns the organisation owned by userID with its collections.
func (s *Service) LoadOrgProfile(ctx context.Context, userID uint) (*OrgBundle, error) {
	db := s.DB.WithContext(ctx)
	var org domain.OrgProfile
	err := db.Preload("FocusAreas").Where("user_id = ?", userID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load org: %w", err)
	}
	return s.bundle(db, &org)
}

func (s *Service) bundle(db *gorm.DB, org *domain.OrgProfile) (*OrgBundle, error) {
	out := &OrgBundle{
		OrgProfile:      newOrgView(org, s.PublicURL),
		OrgProjects:     []domain.OrgProject{},
		OrgInitiatives:  []domain.OrgInitiative{},
		OrgSkillsNeeded: []OrgSkillView{},
	}
	if err := db.Where("org_id = ?", org.ID).Order("id").Find(&out.OrgProjects).Error; err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	if err := db.Where("org_id = ?", org.ID).Order("id").Find(&out.OrgInitiatives).Error; err != nil {
		return nil, fmt.Errorf("load initiatives: %w", err)
	}
	edges, err := loadOrgSkills(db, org.ID)
	if err != nil {
		return nil, err
	}
	out.OrgSkillsNeeded = NewOrgSkillViews(edges)
	return out, nil
}

// basicInfoFields is the allow-list for EditBasicInfo.
var basicInfoFields = map[string]bool{
	"org_name":                 true,
	"org_overview":             true,
	"org_mission_statement":    true,
	"org_registration_number":  true,
	"org_year_established":     true,
	"org_email":                true,
	"org_phone":                true,
	"org_district_town":        true,
	"org_county":               true,
	"org_po_box":               true,
	"org_country":              true,
	"org_physical_description": true,
	"org_google_maps_link":     true,
	"org_website":              true,
	"org_facebook":             true,
	"org_x":                    true,
	"org_instagram":            true,
	"org_linkedin":             true,
	"org_youtube":              true,
}

// linkFields are kept verbatim apart from trimming.
var linkFields = map[string]bool{
	"org_google_maps_link": true,
	"org_website":          true,
	"org_facebook":         true,
	"org_x":                true,
	"org_instagram":        true,
	"org_linkedin":         true,
	"org_youtube":          true,
}

// EditBasicInfo applies a partial update of allow-listed fields and, when
// "focus_areas" is present, replaces the focus-area set. Other keys are ignored.
func (s *Service) EditBasicInfo(ctx context.Context, userID uint, body map[string]interface{}) (*OrgView, error) {
	updates := map[string]interface{}{}
	for k, v := range body {
		if !basicInfoFields[k] {
			continue
		}
		if k == "org_year_established" {
			year, ok := asInt(v)
			if !ok || year < 0 || year > time.Now().Year() {
				return nil, fmt.Errorf("%w: org_year_established must be a year", ErrInvalidInput)
			}
			updates[k] = year
			continue
		}
		str, ok := v.(string)
		if !ok && v != nil {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidInput, k)
		}
		switch {
		case k == "org_email":
			str = domain.NormalizeEmail(str)
			if str != "" && !validation.IsValidEmail(str) {
				return nil, fmt.Errorf("%w: org_email is not a valid email", ErrInvalidInput)
			}
		case linkFields[k]:
			str = strings.TrimSpace(str)
		default:
			str = cleanText(str)
		}
		if k == "org_name" && str == "" {
			return nil, fmt.Errorf("%w: org_name cannot be empty", ErrInvalidInput)
		}
		updates[k] = str
	}

	var areaNames []string
	rawAreas, hasAreas := body["focus_areas"]
	if hasAreas {
		names, ok := asStrings(rawAreas)
		if !ok {
			return nil, fmt.Errorf("%w: focus_areas must be a list of names", ErrInvalidInput)
		}
		areaNames = names
	}
	if len(updates) == 0 && !hasAreas {
		return nil, ErrNoUpdatableFields
	}

	var org *domain.OrgProfile
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		org, err = ownOrg(tx, userID)
		if err != nil {
			return err
		}
		updates["updated_at"] = time.Now()
		if err := tx.Model(org).Updates(updates).Error; err != nil {
			return err
		}
		if hasAreas {
			areas, err := resolveFocusAreas(tx, areaNames)
			if err != nil {
				return err
			}
			assoc := tx.Model(org).Association("FocusAreas")
			if len(areas) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(areas)
			}
			if err != nil {
				return err
			}
		}
		return tx.Preload("FocusAreas").First(org, org.ID).Error
	})
	if err != nil {
		return nil, err
	}
	view := newOrgView(org, s.PublicURL)
	return &view, nil
}

func requireAdmin(tx *gorm.DB, userID uint) (*domain.User, error) {
	var u domain.User
	err := tx.First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin {
		return nil, ErrNotAdmin
	}
	return &u, nil
}

// ownOrg loads the organisation owned by userID.
func ownOrg(tx *gorm.DB, userID uint) (*domain.OrgProfile, error) {
	var org domain.OrgProfile
	err := tx.Where("user_id = ?", userID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func resolveFocusAreas(tx *gorm.DB, names []string) ([]domain.FocusArea, error) {
	seen := map[uint]bool{}
	var out []domain.FocusArea
	for _, n := range names {
		n = cleanText(n)
		if n == "" {
			continue
		}
		fa, err := catalog.FindOrCreateFocusArea(tx, n)
		if err != nil {
			return nil, err
		}
		if !seen[fa.ID] {
			seen[fa.ID] = true
			out = append(out, *fa)
		}
	}
	return out, nil
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case nil:
		return 0, true
	}
	return 0, false
}

func asStrings(v interface{}) ([]string, bool) {
	if v == nil {
		return nil, true
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case map[string]interface{}:
			name, _ := x["name"].(string)
			out = append(out, name)
		default:
			return nil, false
		}
	}
	return out, true
}
