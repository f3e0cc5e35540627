package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans user-supplied HTML content to prevent XSS. Post and comment
// bodies pass through here before they are stored.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
