package html_parser

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StripTags removes HTML tags from a string and returns plain text. Used to
// turn stored article HTML into prompt-safe text before it is sent to a
// generative provider.
func StripTags(raw string) string {
	p := bluemonday.StrictPolicy()
	return normalizeWhitespace(p.Sanitize(raw))
}

// SanitizeContent keeps user-generated-content markup while dropping scripts
// and event handlers. Applied to enriched HTML coming back from a provider
// before it is persisted.
func SanitizeContent(raw string) string {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	return strings.TrimSpace(p.Sanitize(raw))
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
