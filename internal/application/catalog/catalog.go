package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ngo-connect-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptySkill    = errors.New("skill name is required")
	ErrInvalidStatus = errors.New("skill status must be tech or non-tech")
	ErrEmptyFocus    = errors.New("focus area name is required")
)

// SkillView is a catalog skill as returned to clients.
type SkillView struct {
	ID     uint   `json:"id"`
	Skill  string `json:"skill"`
	Status string `json:"status"`
}

func NewSkillViews(skills []domain.SkillNeeded) []SkillView {
	out := make([]SkillView, 0, len(skills))
	for _, s := range skills {
		out = append(out, SkillView{ID: s.ID, Skill: s.Skill, Status: s.Status})
	}
	return out
}

// FindOrCreateSkill returns the catalog row for (name, status), inserting it if absent.
// The insert is ON CONFLICT DO NOTHING against the (skill, status) unique index, so
// concurrent callers converge on a single row.
func FindOrCreateSkill(tx *gorm.DB, name, status string) (*domain.SkillNeeded, error) {
	name = strings.TrimSpace(name)
	status = strings.TrimSpace(strings.ToLower(status))
	if name == "" {
		return nil, ErrEmptySkill
	}
	if !domain.ValidSkillStatus(status) {
		return nil, ErrInvalidStatus
	}

	row := &domain.SkillNeeded{Skill: name, Status: status}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "skill"}, {Name: "status"}},
		DoNothing: true,
	}).Create(row).Error; err != nil {
		return nil, fmt.Errorf("upsert skill: %w", err)
	}

	var found domain.SkillNeeded
	if err := tx.Where("skill = ? AND status = ?", name, status).First(&found).Error; err != nil {
		return nil, fmt.Errorf("load skill: %w", err)
	}
	return &found, nil
}

// FindOrCreateFocusArea is FindOrCreateSkill for focus areas, keyed by name.
func FindOrCreateFocusArea(tx *gorm.DB, name string) (*domain.FocusArea, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyFocus
	}
	row := &domain.FocusArea{Name: name}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(row).Error; err != nil {
		return nil, fmt.Errorf("upsert focus area: %w", err)
	}
	var found domain.FocusArea
	if err := tx.Where("name = ?", name).First(&found).Error; err != nil {
		return nil, fmt.Errorf("load focus area: %w", err)
	}
	return &found, nil
}

// Service exposes read access to the catalog.
type Service struct {
	DB *gorm.DB
}

// AllSkills lists every catalog skill ordered by status then name.
func (s *Service) AllSkills(ctx context.Context) ([]SkillView, error) {
	var rows []domain.SkillNeeded
	if err := s.DB.WithContext(ctx).Order("status, skill").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return NewSkillViews(rows), nil
}

// AllFocusAreas lists every focus area ordered by name.
func (s *Service) AllFocusAreas(ctx context.Context) ([]domain.FocusArea, error) {
	var rows []domain.FocusArea
	if err := s.DB.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list focus areas: %w", err)
	}
	return rows, nil
}
