package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// SanitizeText strips every tag from input and collapses whitespace, for text
// that arrives from outside and is shown in chat messages.
func SanitizeText(input string) string {
	clean := html.UnescapeString(sanitizer.Sanitize(input))
	return strings.Join(strings.Fields(clean), " ")
}
