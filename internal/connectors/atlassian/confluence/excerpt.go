package confluence

import (
	"regexp"
	"strings"
)

// excerptMaxLength bounds the plain-text excerpt taken from a page body.
const excerptMaxLength = 200

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// extractExcerpt strips HTML tags from rendered page content and returns
// a plain-text excerpt truncated at a word boundary.
func extractExcerpt(htmlContent string, maxLength int) string {
	text := htmlTagPattern.ReplaceAllString(htmlContent, " ")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	// Truncate on runes so a multi-byte character is never split.
	truncated := string(runes[:maxLength])
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated + "..."
}
