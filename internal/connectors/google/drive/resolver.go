// Package drive resolves Google Drive file references and wraps the Drive
// API for name lookup and deletion.
package drive

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/worklink/internal/core/domain"
)

// idPatterns match the ways a file ID appears in Google URLs, ordered from
// most to least specific. The first match wins, so the generic /d/ and id=
// forms must come after the editor and file viewer forms.
var idPatterns = []*regexp.Regexp{
	// Editor URLs: docs.google.com/spreadsheets/d/{id}/edit and friends.
	regexp.MustCompile(`/(?:spreadsheets|document|presentation|forms)/d/([a-zA-Z0-9-_]+)`),
	// Drive file viewer: drive.google.com/file/d/{id}/view.
	regexp.MustCompile(`/file/d/([a-zA-Z0-9-_]+)`),
	// Open-by-ID query parameter: drive.google.com/open?id={id}.
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9-_]+)`),
	// Generic /d/ path segment.
	regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`),
	// Bare id= anywhere in the reference.
	regexp.MustCompile(`id=([a-zA-Z0-9-_]+)`),
}

// ExtractID resolves a file reference to a Drive file ID.
//
// A reference that does not look like a Google URL is assumed to already be
// an ID and is returned unchanged. Google URLs are matched against the known
// URL shapes; a Google URL that matches none of them returns
// domain.ErrUnrecognizedReference.
func ExtractID(reference string) (string, error) {
	if !strings.Contains(reference, "google.com") {
		return reference, nil
	}

	for _, pattern := range idPatterns {
		if m := pattern.FindStringSubmatch(reference); m != nil {
			return m[1], nil
		}
	}

	return "", fmt.Errorf("%w: %s", domain.ErrUnrecognizedReference, reference)
}
