package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/worklink/internal/logger"
)

const (
	// groupPageSize is the page size for group member listings.
	groupPageSize = 50

	// userSearchLimit caps the site-wide user listing.
	userSearchLimit = 1000
)

// Group describes a Jira group.
type Group struct {
	Name string `json:"name"`
}

// RoleUser is a user annotated with how they relate to a project or the
// site: via a project role, the user directory, or group membership.
type RoleUser struct {
	AccountID   string
	Name        string
	DisplayName string
	Email       string
	Active      bool
	// Source is "project_role", "global_user" or "group_member".
	Source string
	// Role and RoleID are set for project role members.
	Role   string
	RoleID string
	// ProjectKey is set for project role members.
	ProjectKey string
	// Groups lists group memberships when known.
	Groups []string
}

// Groups lists all groups on the site.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var picker struct {
		Groups []Group `json:"groups"`
		Total  int     `json:"total"`
	}
	if err := c.get(ctx, "rest/api/2/groups/picker?maxResults=200", &picker); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return picker.Groups, nil
}

// GroupMembers lists the members of a group, following pagination.
func (c *Client) GroupMembers(ctx context.Context, groupName string) ([]User, error) {
	var members []User
	startAt := 0
	for {
		var page struct {
			Values []User `json:"values"`
			IsLast bool   `json:"isLast"`
		}
		path := fmt.Sprintf("rest/api/2/group/member?groupname=%s&startAt=%d&maxResults=%d",
			url.QueryEscape(groupName), startAt, groupPageSize)
		if err := c.get(ctx, path, &page); err != nil {
			return nil, fmt.Errorf("failed to list members of group %q: %w", groupName, err)
		}

		members = append(members, page.Values...)
		if page.IsLast || len(page.Values) == 0 {
			break
		}
		startAt += len(page.Values)
	}
	return members, nil
}

// roleActorsResponse is the wire shape of a project role with its actors.
type roleActorsResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Actors []struct {
		Type        string `json:"type"`
		DisplayName string `json:"displayName"`
		ActorUser   *struct {
			AccountID string `json:"accountId"`
		} `json:"actorUser"`
	} `json:"actors"`
}

// UsersWithRoles lists users together with their role context.
//
// With a project key, users are collected from the project's role actors.
// Without one, the site user directory is listed; if that is not permitted
// for the authenticated user, membership is reconstructed from groups,
// deduplicated by account ID with group lists merged.
func (c *Client) UsersWithRoles(ctx context.Context, projectKey string) ([]RoleUser, error) {
	if projectKey != "" {
		return c.projectRoleUsers(ctx, projectKey)
	}

	users, err := c.globalUsers(ctx)
	if err == nil {
		return users, nil
	}

	logger.Warn("user directory listing failed, falling back to group membership: %v", err)
	return c.groupMemberUsers(ctx)
}

func (c *Client) projectRoleUsers(ctx context.Context, projectKey string) ([]RoleUser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	project, resp, err := c.jira.Project.GetWithContext(ctx, projectKey)
	if err != nil {
		return nil, c.wrapError(resp, err)
	}

	var users []RoleUser
	for roleName, roleURL := range project.Roles {
		roleID := roleURL[strings.LastIndex(roleURL, "/")+1:]
		if roleID == "" {
			logger.Warn("could not extract role ID for role %q", roleName)
			continue
		}

		var role roleActorsResponse
		path := fmt.Sprintf("rest/api/2/project/%s/role/%s", projectKey, roleID)
		if err := c.get(ctx, path, &role); err != nil {
			logger.Warn("could not get actors for role %q: %v", roleName, err)
			continue
		}

		for _, actor := range role.Actors {
			if actor.Type != "atlassian-user-role-actor" {
				continue
			}
			user := RoleUser{
				DisplayName: actor.DisplayName,
				Source:      "project_role",
				Role:        roleName,
				RoleID:      roleID,
				ProjectKey:  projectKey,
				Active:      true,
			}
			if actor.ActorUser != nil {
				user.AccountID = actor.ActorUser.AccountID
			}
			users = append(users, user)
		}
	}
	return users, nil
}

func (c *Client) globalUsers(ctx context.Context) ([]RoleUser, error) {
	var found []User
	path := fmt.Sprintf("rest/api/2/users/search?maxResults=%d", userSearchLimit)
	if err := c.get(ctx, path, &found); err != nil {
		return nil, err
	}

	users := make([]RoleUser, 0, len(found))
	for _, u := range found {
		users = append(users, RoleUser{
			AccountID:   u.AccountID,
			Name:        u.Name,
			DisplayName: u.DisplayName,
			Email:       u.Email,
			Active:      u.Active,
			Source:      "global_user",
		})
	}
	return users, nil
}

// groupMemberUsers collects users via group membership. A user in several
// groups appears once with all group names attached.
func (c *Client) groupMemberUsers(ctx context.Context) ([]RoleUser, error) {
	groups, err := c.Groups(ctx)
	if err != nil {
		return nil, err
	}

	var users []RoleUser
	seen := make(map[string]int)
	for _, group := range groups {
		members, err := c.GroupMembers(ctx, group.Name)
		if err != nil {
			logger.Warn("could not get members for group %q: %v", group.Name, err)
			continue
		}

		for _, member := range members {
			if idx, ok := seen[member.AccountID]; ok {
				users[idx].Groups = append(users[idx].Groups, group.Name)
				continue
			}
			seen[member.AccountID] = len(users)
			users = append(users, RoleUser{
				AccountID:   member.AccountID,
				Name:        member.Name,
				DisplayName: member.DisplayName,
				Email:       member.Email,
				Active:      member.Active,
				Source:      "group_member",
				Groups:      []string{group.Name},
			})
		}
	}
	return users, nil
}
