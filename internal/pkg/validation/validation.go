package validation

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Names: letters, spaces, hyphens, apostrophes and dots.
var nameRe = regexp.MustCompile(`^[\p{L}\s\-'.]+$`)

// Password length bounds. bcrypt rejects inputs longer than 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// IsValidPassword only enforces length; the signup form does the rest.
func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength && len(password) <= MaxPasswordBytes
}

func IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= 50 && nameRe.MatchString(name)
}

// MissingFields returns the keys whose values are blank, in the given order.
func MissingFields(fields map[string]string, order ...string) []string {
	var missing []string
	for _, k := range order {
		if strings.TrimSpace(fields[k]) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}
