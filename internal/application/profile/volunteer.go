package profile

import (
	"context"
	"errors"
	"fmt"

	"ngo-connect-backend/internal/application/catalog"
	"ngo-connect-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VolunteerSkillsInput names skills by catalog name, split by status.
type VolunteerSkillsInput struct {
	TechSkills    []string `json:"techSkills"`
	NonTechSkills []string `json:"nonTechSkills"`
}

// VolunteerEditResult is returned by EditVolunteerSkills.
type VolunteerEditResult struct {
	Added     []catalog.SkillView `json:"added"`
	Removed   []catalog.SkillView `json:"removed"`
	Volunteer *VolunteerView      `json:"volunteer"`
}

// SubmitVolunteerSkills adds skills to the volunteer's set. Existing skills are kept.
func (s *Service) SubmitVolunteerSkills(ctx context.Context, userID uint, in VolunteerSkillsInput) (*VolunteerView, error) {
	var view *VolunteerView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireVolunteer(tx, userID); err != nil {
			return err
		}
		skills, err := resolveVolunteerSkills(tx, in)
		if err != nil {
			return err
		}
		if len(skills) > 0 {
			rows := make([]domain.UserSkill, 0, len(skills))
			for _, sk := range skills {
				rows = append(rows, domain.UserSkill{UserID: userID, SkillID: sk.ID})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
				return err
			}
		}
		view, err = loadVolunteer(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetVolunteer returns a volunteer and their skills.
func (s *Service) GetVolunteer(ctx context.Context, userID uint) (*VolunteerView, error) {
	db := s.DB.WithContext(ctx)
	if _, err := requireVolunteer(db, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrAdminSkills) {
			return nil, ErrVolunteerNotFound
		}
		return nil, err
	}
	return loadVolunteer(db, userID)
}

// EditVolunteerSkills replaces the volunteer's skill set with the submitted one.
func (s *Service) EditVolunteerSkills(ctx context.Context, userID uint, in VolunteerSkillsInput) (*VolunteerEditResult, error) {
	out := &VolunteerEditResult{Added: []catalog.SkillView{}, Removed: []catalog.SkillView{}}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireVolunteer(tx, userID); err != nil {
			return err
		}
		desired, err := resolveVolunteerSkills(tx, in)
		if err != nil {
			return err
		}
		var current []domain.SkillNeeded
		if err := tx.Joins("JOIN user_skills ON user_skills.skill_id = skills_needed.id").
			Where("user_skills.user_id = ?", userID).Order("skills_needed.id").
			Find(&current).Error; err != nil {
			return err
		}

		plan := planDiff(current, desired,
			func(sk domain.SkillNeeded) uint { return sk.ID },
			func(a, b domain.SkillNeeded) bool { return false })

		if len(plan.Insert) > 0 {
			rows := make([]domain.UserSkill, 0, len(plan.Insert))
			for _, sk := range plan.Insert {
				rows = append(rows, domain.UserSkill{UserID: userID, SkillID: sk.ID})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
				return err
			}
		}
		if len(plan.Delete) > 0 {
			if err := tx.Where("user_id = ? AND skill_id IN ?", userID, ids(plan.Delete, func(sk domain.SkillNeeded) uint { return sk.ID })).
				Delete(&domain.UserSkill{}).Error; err != nil {
				return err
			}
		}
		out.Added = append(out.Added, catalog.NewSkillViews(plan.Insert)...)
		out.Removed = append(out.Removed, catalog.NewSkillViews(plan.Delete)...)
		out.Volunteer, err = loadVolunteer(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", userID).Int("added", len(out.Added)).Int("removed", len(out.Removed)).
		Msg("volunteer skills replaced")
	return out, nil
}

func requireVolunteer(tx *gorm.DB, userID uint) (*domain.User, error) {
	var u domain.User
	err := tx.First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.IsAdmin {
		return nil, ErrAdminSkills
	}
	return &u, nil
}

// resolveVolunteerSkills find-or-creates every named skill, deduplicated, in input order.
func resolveVolunteerSkills(tx *gorm.DB, in VolunteerSkillsInput) ([]domain.SkillNeeded, error) {
	seen := map[uint]bool{}
	var out []domain.SkillNeeded
	add := func(names []string, status string) error {
		for _, n := range names {
			n = cleanText(n)
			if n == "" {
				continue
			}
			sk, err := catalog.FindOrCreateSkill(tx, n, status)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
			}
			if !seen[sk.ID] {
				seen[sk.ID] = true
				out = append(out, *sk)
			}
		}
		return nil
	}
	if err := add(in.TechSkills, domain.SkillTech); err != nil {
		return nil, err
	}
	if err := add(in.NonTechSkills, domain.SkillNonTech); err != nil {
		return nil, err
	}
	return out, nil
}

func loadVolunteer(tx *gorm.DB, userID uint) (*VolunteerView, error) {
	var u domain.User
	if err := tx.Preload("Skills").First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, err
	}
	return newVolunteerView(&u), nil
}
