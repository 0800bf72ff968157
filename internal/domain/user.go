package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is an account. Admins own at most one OrgProfile; volunteers hold Skills.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	FirstName    string     `gorm:"column:first_name;size:50;not null" json:"first_name"`
	LastName     string     `gorm:"column:last_name;size:50;not null" json:"last_name"`
	Email        string     `gorm:"column:email;size:120;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null" json:"-"`
	IsAdmin      bool       `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login"`

	OrgProfile *OrgProfile   `gorm:"foreignKey:UserID" json:"-"`
	Skills     []SkillNeeded `gorm:"many2many:user_skills;joinForeignKey:UserID;joinReferences:SkillID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave normalises the email so the unique index is case-insensitive in practice.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// Role returns "admin" or "volunteer".
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleVolunteer
}

// HasOrgProfile reports whether the optional profile reference is loaded and present.
func (u *User) HasOrgProfile() bool {
	return u.OrgProfile != nil && u.OrgProfile.ID != 0
}

const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
