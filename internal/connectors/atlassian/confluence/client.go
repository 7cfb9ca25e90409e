// Package confluence wraps the Confluence Cloud REST API for space
// listing and CQL content search. Responses are normalized into flat
// Page values instead of the deeply nested wire shape.
package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/worklink/internal/connectors/atlassian"
	"github.com/custodia-labs/worklink/internal/logger"
)

// requestTimeout bounds individual API calls.
const requestTimeout = 30 * time.Second

// Config holds the Confluence connection settings.
type Config struct {
	atlassian.Config

	// DefaultSpace scopes searches that do not name a space. Empty
	// means searches run site-wide.
	DefaultSpace string
}

// Client provides access to a Confluence Cloud site.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *atlassian.RateLimiter
}

// New creates a Confluence client for the configured site.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("confluence config: %w", err)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    atlassian.NewRateLimiter(),
	}, nil
}

// User describes the authenticated Confluence user.
type User struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Space describes a Confluence space.
type Space struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// TestConnection verifies the credentials by fetching the current user.
func (c *Client) TestConnection(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/rest/api/user/current", nil, &user); err != nil {
		return nil, err
	}
	logger.Debug("confluence: connected as %s", user.DisplayName)
	return &user, nil
}

// Spaces lists all spaces visible to the authenticated user.
func (c *Client) Spaces(ctx context.Context) ([]Space, error) {
	var response struct {
		Results []Space `json:"results"`
	}
	if err := c.get(ctx, "/rest/api/space", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	return response.Results, nil
}

// get performs an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.cfg.NormalizedBaseURL() + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")

	logger.Debug("confluence: GET %s", reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if rlErr := c.limiter.CheckRateLimit(resp); rlErr != nil {
		return rlErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &atlassian.APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			URL:        reqURL,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
