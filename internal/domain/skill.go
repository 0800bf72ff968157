package domain

const (
	SkillTech    = "tech"
	SkillNonTech = "non-tech"
)

// ValidSkillStatus reports whether s is a catalog status.
func ValidSkillStatus(s string) bool {
	return s == SkillTech || s == SkillNonTech
}

// SkillNeeded is the deduplicated skill catalog. (skill, status) is unique.
type SkillNeeded struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Skill  string `gorm:"column:skill;size:100;not null;uniqueIndex:idx_skill_status" json:"skill"`
	Status string `gorm:"column:status;size:20;not null;uniqueIndex:idx_skill_status" json:"status"`
}

func (SkillNeeded) TableName() string {
	return "skills_needed"
}

// OrgSkill is the org↔skill edge; Description belongs to the edge, not the skill.
type OrgSkill struct {
	OrgID       uint        `gorm:"column:org_id;primaryKey;autoIncrement:false" json:"org_id"`
	SkillID     uint        `gorm:"column:skill_id;primaryKey;autoIncrement:false;index" json:"skill_id"`
	Description string      `gorm:"column:description;type:text" json:"description"`
	Skill       SkillNeeded `gorm:"foreignKey:SkillID" json:"-"`
}

func (OrgSkill) TableName() string {
	return "org_skills"
}

// UserSkill is the volunteer↔skill join row, declared so it can be queried directly.
type UserSkill struct {
	UserID  uint `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	SkillID uint `gorm:"column:skill_id;primaryKey;autoIncrement:false;index"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}
