package jira

import (
	"context"
	"strings"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/trivago/tgo/tcontainer"
)

// defaultSearchLimit caps JQL searches when the caller does not ask for
// a specific page size.
const defaultSearchLimit = 50

// SearchOptions controls a JQL search.
type SearchOptions struct {
	// MaxResults limits the number of returned issues. Zero means the
	// default of 50.
	MaxResults int
	// Fields restricts which issue fields are returned. Empty means the
	// server default.
	Fields []string
	// StartAt is the 0-based index of the first result for paging.
	StartAt int
}

// Issue fetches a single issue by key, e.g. "PROJ-123".
// An empty fields list returns the server's default field set.
func (c *Client) Issue(ctx context.Context, issueKey string, fields []string) (*gojira.Issue, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var opts *gojira.GetQueryOptions
	if len(fields) > 0 {
		opts = &gojira.GetQueryOptions{Fields: strings.Join(fields, ",")}
	}

	issue, resp, err := c.jira.Issue.GetWithContext(ctx, issueKey, opts)
	if err != nil {
		return nil, c.wrapError(resp, err)
	}
	return issue, nil
}

// SearchIssues runs a JQL query and returns the matching issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, opts SearchOptions) ([]gojira.Issue, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultSearchLimit
	}

	searchOpts := &gojira.SearchOptions{
		StartAt:    opts.StartAt,
		MaxResults: maxResults,
		Fields:     opts.Fields,
	}

	issues, resp, err := c.jira.Issue.SearchWithContext(ctx, jql, searchOpts)
	if err != nil {
		return nil, c.wrapError(resp, err)
	}
	return issues, nil
}

// CreateIssueRequest holds the fields for a new issue.
type CreateIssueRequest struct {
	ProjectKey  string
	Summary     string
	Description string
	// IssueType defaults to "Task" when empty.
	IssueType string
	// Extra carries additional fields by their API name, including
	// custom fields like "customfield_10011".
	Extra map[string]any
}

// CreateIssue creates a new issue and returns it with its assigned key.
func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (*gojira.Issue, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	issueType := req.IssueType
	if issueType == "" {
		issueType = "Task"
	}

	issue := &gojira.Issue{
		Fields: &gojira.IssueFields{
			Project:     gojira.Project{Key: req.ProjectKey},
			Summary:     req.Summary,
			Description: req.Description,
			Type:        gojira.IssueType{Name: issueType},
		},
	}
	if len(req.Extra) > 0 {
		issue.Fields.Unknowns = tcontainer.MarshalMap(req.Extra)
	}

	created, resp, err := c.jira.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		return nil, c.wrapError(resp, err)
	}
	return created, nil
}

// UpdateIssue updates fields of an existing issue. The fields map uses
// API field names, e.g. {"summary": "new title"}.
func (c *Client) UpdateIssue(ctx context.Context, issueKey string, fields map[string]any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.jira.Issue.UpdateIssueWithContext(ctx, issueKey, map[string]any{"fields": fields})
	if err != nil {
		return c.wrapError(resp, err)
	}
	return nil
}

// AddComment adds a comment to an issue.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) (*gojira.Comment, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	comment, resp, err := c.jira.Issue.AddCommentWithContext(ctx, issueKey, &gojira.Comment{Body: body})
	if err != nil {
		return nil, c.wrapError(resp, err)
	}
	return comment, nil
}
