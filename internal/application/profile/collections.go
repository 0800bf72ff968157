package profile

import (
	"context"
	"fmt"
	"strings"

	"ngo-connect-backend/internal/application/catalog"
	"ngo-connect-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectRowInput is one desired project. ID zero means new.
type ProjectRowInput struct {
	ID                 uint   `json:"id"`
	ProjectName        string `json:"project_name"`
	ProjectDescription string `json:"project_description"`
	ProjectStatus      string `json:"project_status"`
}

// InitiativeRowInput is one desired initiative. ID zero means new.
type InitiativeRowInput struct {
	ID                    uint   `json:"id"`
	InitiativeName        string `json:"initiative_name"`
	InitiativeDescription string `json:"initiative_description"`
}

// SkillRowInput is one desired skill need. SkillID, when it names a catalog row,
// wins over Skill/Status.
type SkillRowInput struct {
	SkillID     uint   `json:"skill_id"`
	Skill       string `json:"skill"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type ProjectsResult struct {
	ChangeSummary
	Projects []domain.OrgProject `json:"projects"`
}

type InitiativesResult struct {
	ChangeSummary
	Initiatives []domain.OrgInitiative `json:"initiatives"`
}

type SkillsResult struct {
	ChangeSummary
	Skills []OrgSkillView `json:"skills"`
}

// EditProjects replaces the caller's projects with rows by diff.
func (s *Service) EditProjects(ctx context.Context, userID uint, rows []ProjectRowInput) (*ProjectsResult, error) {
	desired := make([]domain.OrgProject, 0, len(rows))
	for i, r := range rows {
		p := domain.OrgProject{
			ID:                 r.ID,
			ProjectName:        cleanText(r.ProjectName),
			ProjectDescription: cleanText(r.ProjectDescription),
			ProjectStatus:      strings.ToLower(strings.TrimSpace(r.ProjectStatus)),
		}
		if p.ProjectName == "" {
			return nil, fmt.Errorf("%w: projects[%d].project_name is required", ErrInvalidInput, i)
		}
		if p.ProjectStatus == "" {
			p.ProjectStatus = domain.ProjectOngoing
		}
		if !domain.ValidProjectStatus(p.ProjectStatus) {
			return nil, fmt.Errorf("%w: projects[%d].project_status must be ongoing, completed or upcoming", ErrInvalidInput, i)
		}
		desired = append(desired, p)
	}

	out := &ProjectsResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ownOrg(tx, userID)
		if err != nil {
			return err
		}
		var stored []domain.OrgProject
		if err := tx.Where("org_id = ?", org.ID).Order("id").Find(&stored).Error; err != nil {
			return err
		}
		plan := planDiff(stored, desired,
			func(p domain.OrgProject) uint { return p.ID },
			func(a, b domain.OrgProject) bool {
				return a.ProjectName != b.ProjectName ||
					a.ProjectDescription != b.ProjectDescription ||
					a.ProjectStatus != b.ProjectStatus
			})

		for _, p := range plan.Update {
			if err := tx.Model(&domain.OrgProject{}).Where("id = ? AND org_id = ?", p.ID, org.ID).
				Updates(map[string]interface{}{
					"project_name":        p.ProjectName,
					"project_description": p.ProjectDescription,
					"project_status":      p.ProjectStatus,
				}).Error; err != nil {
				return err
			}
		}
		if len(plan.Insert) > 0 {
			for i := range plan.Insert {
				plan.Insert[i].ID = 0
				plan.Insert[i].OrgID = org.ID
			}
			if err := tx.Create(&plan.Insert).Error; err != nil {
				return err
			}
		}
		if len(plan.Delete) > 0 {
			if err := tx.Where("org_id = ? AND id IN ?", org.ID, ids(plan.Delete, func(p domain.OrgProject) uint { return p.ID })).
				Delete(&domain.OrgProject{}).Error; err != nil {
				return err
			}
		}
		out.ChangeSummary = plan.summary()
		return tx.Where("org_id = ?", org.ID).Order("id").Find(&out.Projects).Error
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", userID).Int("inserted", out.Inserted).Int("updated", out.Updated).
		Int("deleted", out.Deleted).Msg("projects reconciled")
	return out, nil
}

// EditInitiatives replaces the caller's initiatives with rows by diff.
func (s *Service) EditInitiatives(ctx context.Context, userID uint, rows []InitiativeRowInput) (*InitiativesResult, error) {
	desired := make([]domain.OrgInitiative, 0, len(rows))
	for i, r := range rows {
		it := domain.OrgInitiative{
			ID:                    r.ID,
			InitiativeName:        cleanText(r.InitiativeName),
			InitiativeDescription: cleanText(r.InitiativeDescription),
		}
		if it.InitiativeName == "" {
			return nil, fmt.Errorf("%w: initiatives[%d].initiative_name is required", ErrInvalidInput, i)
		}
		desired = append(desired, it)
	}

	out := &InitiativesResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ownOrg(tx, userID)
		if err != nil {
			return err
		}
		var stored []domain.OrgInitiative
		if err := tx.Where("org_id = ?", org.ID).Order("id").Find(&stored).Error; err != nil {
			return err
		}
		plan := planDiff(stored, desired,
			func(it domain.OrgInitiative) uint { return it.ID },
			func(a, b domain.OrgInitiative) bool {
				return a.InitiativeName != b.InitiativeName || a.InitiativeDescription != b.InitiativeDescription
			})

		for _, it := range plan.Update {
			if err := tx.Model(&domain.OrgInitiative{}).Where("id = ? AND org_id = ?", it.ID, org.ID).
				Updates(map[string]interface{}{
					"initiative_name":        it.InitiativeName,
					"initiative_description": it.InitiativeDescription,
				}).Error; err != nil {
				return err
			}
		}
		if len(plan.Insert) > 0 {
			for i := range plan.Insert {
				plan.Insert[i].ID = 0
				plan.Insert[i].OrgID = org.ID
			}
			if err := tx.Create(&plan.Insert).Error; err != nil {
				return err
			}
		}
		if len(plan.Delete) > 0 {
			if err := tx.Where("org_id = ? AND id IN ?", org.ID, ids(plan.Delete, func(it domain.OrgInitiative) uint { return it.ID })).
				Delete(&domain.OrgInitiative{}).Error; err != nil {
				return err
			}
		}
		out.ChangeSummary = plan.summary()
		return tx.Where("org_id = ?", org.ID).Order("id").Find(&out.Initiatives).Error
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", userID).Int("inserted", out.Inserted).Int("updated", out.Updated).
		Int("deleted", out.Deleted).Msg("initiatives reconciled")
	return out, nil
}

// EditSkills replaces the caller's skill needs by diff. Edges are keyed by
// catalog skill id; only the description can change on an existing edge.
func (s *Service) EditSkills(ctx context.Context, userID uint, rows []SkillRowInput) (*SkillsResult, error) {
	out := &SkillsResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ownOrg(tx, userID)
		if err != nil {
			return err
		}
		desired, err := resolveSkillRows(tx, rows)
		if err != nil {
			return err
		}
		stored, err := loadOrgSkills(tx, org.ID)
		if err != nil {
			return err
		}
		plan := planDiff(stored, desired,
			func(e domain.OrgSkill) uint { return e.SkillID },
			func(a, b domain.OrgSkill) bool { return a.Description != b.Description })

		for _, e := range plan.Update {
			if err := tx.Model(&domain.OrgSkill{}).Where("org_id = ? AND skill_id = ?", org.ID, e.SkillID).
				Update("description", e.Description).Error; err != nil {
				return err
			}
		}
		for _, e := range plan.Insert {
			if err := upsertOrgSkill(tx, org.ID, e.SkillID, e.Description); err != nil {
				return err
			}
		}
		if len(plan.Delete) > 0 {
			if err := tx.Where("org_id = ? AND skill_id IN ?", org.ID, ids(plan.Delete, func(e domain.OrgSkill) uint { return e.SkillID })).
				Delete(&domain.OrgSkill{}).Error; err != nil {
				return err
			}
		}
		out.ChangeSummary = plan.summary()
		edges, err := loadOrgSkills(tx, org.ID)
		if err != nil {
			return err
		}
		out.Skills = NewOrgSkillViews(edges)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", userID).Int("inserted", out.Inserted).Int("updated", out.Updated).
		Int("deleted", out.Deleted).Msg("skill needs reconciled")
	return out, nil
}

// resolveSkillRows maps rows onto catalog skills. Duplicate skills collapse into
// one edge; the last description wins.
func resolveSkillRows(tx *gorm.DB, rows []SkillRowInput) ([]domain.OrgSkill, error) {
	index := map[uint]int{}
	var out []domain.OrgSkill
	for i, r := range rows {
		var skill *domain.SkillNeeded
		if r.SkillID != 0 {
			var found domain.SkillNeeded
			res := tx.Limit(1).Find(&found, r.SkillID)
			if res.Error != nil {
				return nil, res.Error
			}
			if res.RowsAffected > 0 {
				skill = &found
			}
		}
		if skill == nil {
			var err error
			skill, err = catalog.FindOrCreateSkill(tx, cleanText(r.Skill), r.Status)
			if err != nil {
				return nil, fmt.Errorf("%w: skills[%d]: %s", ErrInvalidInput, i, err.Error())
			}
		}
		edge := domain.OrgSkill{SkillID: skill.ID, Description: cleanText(r.Description), Skill: *skill}
		if at, ok := index[skill.ID]; ok {
			out[at].Description = edge.Description
			continue
		}
		index[skill.ID] = len(out)
		out = append(out, edge)
	}
	return out, nil
}

// upsertOrgSkill creates the edge or overwrites its description.
func upsertOrgSkill(tx *gorm.DB, orgID, skillID uint, description string) error {
	edge := &domain.OrgSkill{OrgID: orgID, SkillID: skillID, Description: description}
	return tx.Omit("Skill").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "org_id"}, {Name: "skill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"description"}),
	}).Create(edge).Error
}

func loadOrgSkills(tx *gorm.DB, orgID uint) ([]domain.OrgSkill, error) {
	var edges []domain.OrgSkill
	if err := tx.Preload("Skill").Where("org_id = ?", orgID).Order("skill_id").Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("load org skills: %w", err)
	}
	return edges, nil
}

func ids[T any](rows []T, key func(T) uint) []uint {
	out := make([]uint, 0, len(rows))
	for _, r := range rows {
		out = append(out, key(r))
	}
	return out
}
