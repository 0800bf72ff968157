package profile

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from user-supplied free text and trims it. Entities
// are decoded until stable before sanitising so encoded tags are stripped too.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	for i := 0; i < 4; i++ {
		u := html.UnescapeString(s)
		if u == s {
			break
		}
		s = u
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
