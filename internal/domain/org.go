package domain

import (
	"time"
)

// OrgProfile is the organization owned by one admin user.
type OrgProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`

	OrgName               string `gorm:"column:org_name;size:100;not null" json:"org_name"`
	OrgOverview           string `gorm:"column:org_overview;type:text" json:"org_overview"`
	OrgMissionStatement   string `gorm:"column:org_mission_statement;type:text" json:"org_mission_statement"`
	OrgRegistrationNumber string `gorm:"column:org_registration_number;size:50" json:"org_registration_number"`
	OrgYearEstablished    int    `gorm:"column:org_year_established" json:"org_year_established"`
	OrgLogoFilename       string `gorm:"column:org_logo_filename;size:255" json:"org_logo_filename"`
	OrgCoverPhotoFilename string `gorm:"column:org_cover_photo_filename;size:255" json:"org_cover_photo_filename"`

	OrgEmail            string `gorm:"column:org_email;size:120" json:"org_email"`
	OrgPhone            string `gorm:"column:org_phone;size:20" json:"org_phone"`
	OrgDistrictTown     string `gorm:"column:org_district_town;size:100" json:"org_district_town"`
	OrgCounty           string `gorm:"column:org_county;size:100" json:"org_county"`
	OrgPoBox            string `gorm:"column:org_po_box;size:50" json:"org_po_box"`
	OrgCountry          string `gorm:"column:org_country;size:100" json:"org_country"`
	OrgPhysicalDesc     string `gorm:"column:org_physical_description;type:text" json:"org_physical_description"`
	OrgGoogleMapsLink   string `gorm:"column:org_google_maps_link;size:255" json:"org_google_maps_link"`
	OrgWebsite          string `gorm:"column:org_website;size:255" json:"org_website"`
	OrgFacebook         string `gorm:"column:org_facebook;size:255" json:"org_facebook"`
	OrgX                string `gorm:"column:org_x;size:255" json:"org_x"`
	OrgInstagram        string `gorm:"column:org_instagram;size:255" json:"org_instagram"`
	OrgLinkedin         string `gorm:"column:org_linkedin;size:255" json:"org_linkedin"`
	OrgYoutube          string `gorm:"column:org_youtube;size:255" json:"org_youtube"`

	Verified  bool      `gorm:"column:verified;not null;default:false" json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Projects     []OrgProject    `gorm:"foreignKey:OrgID" json:"-"`
	Initiatives  []OrgInitiative `gorm:"foreignKey:OrgID" json:"-"`
	SkillsNeeded []OrgSkill      `gorm:"foreignKey:OrgID" json:"-"`
	FocusAreas   []FocusArea     `gorm:"many2many:org_focus_areas;joinForeignKey:OrgID;joinReferences:FocusAreaID" json:"-"`
}

func (OrgProfile) TableName() string {
	return "org_profiles"
}

const (
	ProjectOngoing   = "ongoing"
	ProjectCompleted = "completed"
	ProjectUpcoming  = "upcoming"
)

// ValidProjectStatus reports whether s is one of the project lifecycle states.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectOngoing, ProjectCompleted, ProjectUpcoming:
		return true
	}
	return false
}

type OrgProject struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	OrgID              uint   `gorm:"column:org_id;not null;index" json:"org_id"`
	ProjectName        string `gorm:"column:project_name;size:100;not null" json:"project_name"`
	ProjectDescription string `gorm:"column:project_description;type:text" json:"project_description"`
	ProjectStatus      string `gorm:"column:project_status;size:20;not null" json:"project_status"`
}

func (OrgProject) TableName() string {
	return "org_projects"
}

type OrgInitiative struct {
	ID                    uint   `gorm:"primaryKey" json:"id"`
	OrgID                 uint   `gorm:"column:org_id;not null;index" json:"org_id"`
	InitiativeName        string `gorm:"column:initiative_name;size:100;not null" json:"initiative_name"`
	InitiativeDescription string `gorm:"column:initiative_description;type:text" json:"initiative_description"`
}

func (OrgInitiative) TableName() string {
	return "org_initiatives"
}

// FocusArea is a catalog row shared between organizations.
type FocusArea struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (FocusArea) TableName() string {
	return "focus_areas"
}
