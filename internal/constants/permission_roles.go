package constants

import roles "ngo-connect-backend/internal/pkg/constants"

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewProfiles:          {roles.Admin, roles.Volunteer},
	ManageOrgProfile:      {roles.Admin},
	UploadOrgMedia:        {roles.Admin},
	ManageVolunteerSkills: {roles.Volunteer},
	GenerateContent:       {roles.Admin, roles.Volunteer},
	GenerateDonationQR:    {roles.Admin, roles.Volunteer},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	allowed, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
