package jira

import (
	"context"
	"fmt"
	"strings"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/custodia-labs/worklink/internal/logger"
)

// Project summarizes a Jira project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// IssueType describes an issue type available on the site.
type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subtask     bool   `json:"subtask"`
}

// Component describes a project component.
type Component struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	Lead                string `json:"-"`
	LeadAccountID       string `json:"-"`
	AssigneeType        string `json:"assigneeType"`
	IsAssigneeTypeValid bool   `json:"isAssigneeTypeValid"`
	ProjectKey          string `json:"project"`
}

// componentResponse is the wire shape of a component, with the nested
// lead object flattened into Component by toComponent.
type componentResponse struct {
	Component
	LeadObj *struct {
		AccountID   string `json:"accountId"`
		DisplayName string `json:"displayName"`
	} `json:"lead"`
}

func (r componentResponse) toComponent() Component {
	component := r.Component
	if r.LeadObj != nil {
		component.Lead = r.LeadObj.DisplayName
		component.LeadAccountID = r.LeadObj.AccountID
	}
	return component
}

// CustomField describes a custom field definition.
type CustomField struct {
	ID          string
	Name        string
	Searchable  bool
	Navigable   bool
	ClauseNames []string
	FieldType   string
	System      string
}

// Projects lists all projects visible to the authenticated user.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	list, resp, err := c.jira.Project.GetListWithContext(ctx)
	if err != nil {
		return nil, c.wrapError(resp, err)
	}

	projects := make([]Project, 0, len(*list))
	for _, p := range *list {
		projects = append(projects, Project{ID: p.ID, Key: p.Key, Name: p.Name})
	}
	return projects, nil
}

// Project returns a single project with its description, lead and roles.
func (c *Client) Project(ctx context.Context, projectKey string) (*gojira.Project, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	project, resp, err := c.jira.Project.GetWithContext(ctx, projectKey)
	if err != nil {
		return nil, c.wrapError(resp, err)
	}
	return project, nil
}

// IssueTypes lists the issue types available on the site.
func (c *Client) IssueTypes(ctx context.Context) ([]IssueType, error) {
	var types []IssueType
	if err := c.get(ctx, "rest/api/2/issuetype", &types); err != nil {
		return nil, fmt.Errorf("failed to list issue types: %w", err)
	}
	return types, nil
}

// Components lists the components of a project.
func (c *Client) Components(ctx context.Context, projectKey string) ([]Component, error) {
	var responses []componentResponse
	path := fmt.Sprintf("rest/api/2/project/%s/components", projectKey)
	if err := c.get(ctx, path, &responses); err != nil {
		return nil, fmt.Errorf("failed to list components for project %s: %w", projectKey, err)
	}

	components := make([]Component, 0, len(responses))
	for _, r := range responses {
		component := r.toComponent()
		component.ProjectKey = projectKey
		components = append(components, component)
	}
	return components, nil
}

// ComponentRequest holds the fields for creating or updating a component.
type ComponentRequest struct {
	ProjectKey  string
	Name        string
	Description string
	// LeadAccountID assigns a component lead by Atlassian account ID.
	LeadAccountID string
	// AssigneeType is one of UNASSIGNED, COMPONENT_LEAD, PROJECT_LEAD
	// or PROJECT_DEFAULT. Defaults to UNASSIGNED on create.
	AssigneeType string
}

func (r ComponentRequest) body() map[string]any {
	body := map[string]any{}
	if r.ProjectKey != "" {
		body["project"] = r.ProjectKey
	}
	if r.Name != "" {
		body["name"] = r.Name
	}
	if r.Description != "" {
		body["description"] = r.Description
	}
	if r.LeadAccountID != "" {
		body["leadAccountId"] = r.LeadAccountID
	}
	if r.AssigneeType != "" {
		body["assigneeType"] = r.AssigneeType
	}
	return body
}

// CreateComponent creates a component in a project.
func (c *Client) CreateComponent(ctx context.Context, req ComponentRequest) (*Component, error) {
	if req.AssigneeType == "" {
		req.AssigneeType = "UNASSIGNED"
	}

	var response componentResponse
	if err := c.do(ctx, "POST", "rest/api/2/component", req.body(), &response); err != nil {
		return nil, fmt.Errorf("failed to create component %q in project %s: %w", req.Name, req.ProjectKey, err)
	}

	component := response.toComponent()
	return &component, nil
}

// UpdateComponent updates an existing component. Empty request fields are
// left unchanged.
func (c *Client) UpdateComponent(ctx context.Context, componentID string, req ComponentRequest) (*Component, error) {
	var response componentResponse
	path := fmt.Sprintf("rest/api/2/component/%s", componentID)
	if err := c.do(ctx, "PUT", path, req.body(), &response); err != nil {
		return nil, fmt.Errorf("failed to update component %s: %w", componentID, err)
	}

	component := response.toComponent()
	return &component, nil
}

// CustomFields lists the custom fields used in a project.
//
// Field usage is determined by sampling recent issues; when the project
// has no issues (or none carry custom fields) the full set of custom
// field definitions is returned instead.
func (c *Client) CustomFields(ctx context.Context, projectKey string) ([]CustomField, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fields, resp, err := c.jira.Field.GetListWithContext(ctx)
	if err != nil {
		return nil, c.wrapError(resp, err)
	}

	var customFields []CustomField
	for _, field := range fields {
		if !strings.HasPrefix(field.ID, "customfield_") {
			continue
		}
		customFields = append(customFields, CustomField{
			ID:          field.ID,
			Name:        field.Name,
			Searchable:  field.Searchable,
			Navigable:   field.Navigable,
			ClauseNames: field.ClauseNames,
			FieldType:   field.Schema.Type,
			System:      field.Schema.System,
		})
	}

	usedIDs, err := c.sampleCustomFieldUsage(ctx, projectKey)
	if err != nil {
		logger.Warn("could not sample issues for custom field usage: %v", err)
		return customFields, nil
	}
	if len(usedIDs) == 0 {
		logger.Debug("jira: no custom fields in use in %s, returning all %d definitions", projectKey, len(customFields))
		return customFields, nil
	}

	used := make([]CustomField, 0, len(usedIDs))
	for _, field := range customFields {
		if usedIDs[field.ID] {
			used = append(used, field)
		}
	}
	return used, nil
}

// sampleCustomFieldUsage searches recent project issues and collects the
// custom field IDs that carry values.
func (c *Client) sampleCustomFieldUsage(ctx context.Context, projectKey string) (map[string]bool, error) {
	issues, err := c.SearchIssues(ctx, fmt.Sprintf("project = %s", projectKey), SearchOptions{
		MaxResults: 50,
		Fields:     []string{"*all"},
	})
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for _, issue := range issues {
		if issue.Fields == nil {
			continue
		}
		for fieldID, value := range issue.Fields.Unknowns {
			if value != nil && strings.HasPrefix(fieldID, "customfield_") {
				used[fieldID] = true
			}
		}
	}
	return used, nil
}
