package atlassian

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/worklink/internal/core/domain"
)

// Config holds the connection settings for an Atlassian Cloud site.
// Authentication uses basic auth with an email address and API token.
type Config struct {
	// BaseURL is the site URL, e.g. https://yourcompany.atlassian.net.
	BaseURL string
	// Username is the account email address.
	Username string
	// APIToken is an API token created at id.atlassian.com.
	APIToken string
}

// Validate checks that all required settings are present.
func (c Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "base URL")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.APIToken == "" {
		missing = append(missing, "API token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// NormalizedBaseURL returns the base URL without a trailing slash.
func (c Config) NormalizedBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}
