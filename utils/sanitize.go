package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all markup from user supplied display text. Nicknames are
// rendered verbatim by downstream bots, so nothing beyond plain text survives.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
