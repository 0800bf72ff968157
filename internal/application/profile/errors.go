package profile

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrOrgProfileExists  = errors.New("Organisation profile already exists for this user")
	ErrOrgNotFound       = errors.New("Organisation profile not found")
	ErrUserNotFound      = errors.New("User not found")
	ErrNotAdmin          = errors.New("Only organisation admins can manage an organisation profile")
	ErrAdminSkills       = errors.New("Admins cannot hold volunteer skills")
	ErrVolunteerNotFound = errors.New("Volunteer not found")
	ErrNoUpdatableFields = errors.New("No updatable fields supplied")
)
