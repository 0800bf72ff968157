package matching

import (
	"context"
	"errors"
	"fmt"

	"ngo-connect-backend/internal/application/profile"
	"ngo-connect-backend/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrVolunteerNotFound = errors.New("Volunteer not found")
)

// Service answers "which organisations need what this volunteer offers".
type Service struct {
	DB        *gorm.DB
	PublicURL profile.URLFunc
}

// MatchSkills returns every organisation that needs at least one of the
// volunteer's skills, deduplicated and ordered by organisation id. Admin ids
// are not volunteers and report ErrVolunteerNotFound.
func (s *Service) MatchSkills(ctx context.Context, volunteerID uint) ([]profile.OrgSummary, error) {
	db := s.DB.WithContext(ctx)

	var exists int64
	if err := db.Model(&domain.User{}).Where("id = ? AND is_admin = ?", volunteerID, false).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("load volunteer: %w", err)
	}
	if exists == 0 {
		return nil, ErrVolunteerNotFound
	}

	var skillIDs []uint
	if err := db.Model(&domain.UserSkill{}).Where("user_id = ?", volunteerID).
		Pluck("skill_id", &skillIDs).Error; err != nil {
		return nil, fmt.Errorf("load volunteer skills: %w", err)
	}
	if len(skillIDs) == 0 {
		return []profile.OrgSummary{}, nil
	}

	var orgIDs []uint
	if err := db.Model(&domain.OrgSkill{}).Where("skill_id IN ?", skillIDs).
		Distinct("org_id").Pluck("org_id", &orgIDs).Error; err != nil {
		return nil, fmt.Errorf("match org skills: %w", err)
	}
	if len(orgIDs) == 0 {
		return []profile.OrgSummary{}, nil
	}
	return s.summaries(db.Where("id IN ?", orgIDs))
}

// ListOrgs returns every organisation.
func (s *Service) ListOrgs(ctx context.Context) ([]profile.OrgSummary, error) {
	return s.summaries(s.DB.WithContext(ctx))
}

func (s *Service) summaries(scope *gorm.DB) ([]profile.OrgSummary, error) {
	var orgs []domain.OrgProfile
	if err := scope.
		Preload("FocusAreas").
		Preload("SkillsNeeded.Skill").
		Order("id").
		Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("load orgs: %w", err)
	}
	out := make([]profile.OrgSummary, 0, len(orgs))
	for i := range orgs {
		out = append(out, profile.NewOrgSummary(&orgs[i], s.PublicURL))
	}
	return out, nil
}
