package constants

const (
	Admin     = "admin"
	Volunteer = "volunteer"
)

// ValidRoles is the set of roles a token may carry.
var ValidRoles = []string{Admin, Volunteer}

// IsValidRole returns true if role is one of ValidRoles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
