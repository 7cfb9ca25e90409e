// Package jira wraps the Jira Cloud REST API. Issue operations go through
// the go-jira SDK; endpoints the SDK does not model (issue types, groups,
// role actors, components) use its raw request plumbing with typed
// responses.
package jira

import (
	"context"
	"fmt"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/custodia-labs/worklink/internal/connectors/atlassian"
	"github.com/custodia-labs/worklink/internal/logger"
)

// Client provides access to a Jira Cloud site.
type Client struct {
	cfg     atlassian.Config
	jira    *gojira.Client
	limiter *atlassian.RateLimiter
}

// New creates a Jira client for the configured site.
func New(cfg atlassian.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jira config: %w", err)
	}

	transport := gojira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.APIToken,
	}
	client, err := gojira.NewClient(transport.Client(), cfg.NormalizedBaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{
		cfg:     cfg,
		jira:    client,
		limiter: atlassian.NewRateLimiter(),
	}, nil
}

// User describes a Jira user.
type User struct {
	AccountID   string `json:"accountId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"emailAddress"`
	Active      bool   `json:"active"`
}

// TestConnection verifies the credentials by fetching the current user.
func (c *Client) TestConnection(ctx context.Context) (*User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	self, resp, err := c.jira.User.GetSelfWithContext(ctx)
	if err != nil {
		return nil, c.wrapError(resp, err)
	}

	logger.Debug("jira: connected as %s", self.DisplayName)
	return &User{
		AccountID:   self.AccountID,
		Name:        self.Name,
		DisplayName: self.DisplayName,
		Email:       self.EmailAddress,
		Active:      self.Active,
	}, nil
}

// get performs a raw GET against a REST path the SDK does not model and
// decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, "GET", path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := c.jira.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	logger.Debug("jira: %s %s", method, path)
	resp, err := c.jira.Do(req, out)
	if err != nil {
		return c.wrapError(resp, err)
	}
	return nil
}

// wrapError converts SDK errors into typed connector errors, detecting
// rate limit responses along the way.
func (c *Client) wrapError(resp *gojira.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp == nil || resp.Response == nil {
		return err
	}

	if rlErr := c.limiter.CheckRateLimit(resp.Response); rlErr != nil {
		return rlErr
	}

	apiErr := &atlassian.APIError{
		StatusCode: resp.StatusCode,
		Message:    err.Error(),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		apiErr.URL = resp.Request.URL.String()
	}
	return apiErr
}
