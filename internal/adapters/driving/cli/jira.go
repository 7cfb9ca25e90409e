package cli

import (
	"fmt"
	"strings"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/worklink/internal/connectors/atlassian/jira"
	"github.com/custodia-labs/worklink/internal/console"
)

var (
	jiraIssueFields   []string
	jiraSearchLimit   int
	jiraSearchStart   int
	jiraSearchFields  []string
	jiraCreateProject string
	jiraCreateSummary string
	jiraCreateDesc    string
	jiraCreateType    string
	jiraCreateSet     []string
	jiraUpdateSet     []string
	jiraUsersProject  string

	jiraComponentProject  string
	jiraComponentName     string
	jiraComponentDesc     string
	jiraComponentLead     string
	jiraComponentAssignee string
)

var jiraCmd = &cobra.Command{
	Use:   "jira",
	Short: "Work with Jira issues and projects",
	Long: `Query and update Jira Cloud.

Examples:
  worklink jira test
  worklink jira issue PROJ-123
  worklink jira search 'project = PROJ AND status = "In Progress"' --limit 10
  worklink jira create --project PROJ --summary "Fix the login page"
  worklink jira update PROJ-123 --set summary="New summary"
  worklink jira comment PROJ-123 "Deployed to staging"
  worklink jira users --project PROJ`,
}

var jiraTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify Jira credentials",
	RunE:  runJiraTest,
}

var jiraIssueCmd = &cobra.Command{
	Use:   "issue <key>",
	Short: "Show an issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runJiraIssue,
}

var jiraSearchCmd = &cobra.Command{
	Use:   "search <jql>",
	Short: "Search issues with JQL",
	Args:  cobra.ExactArgs(1),
	RunE:  runJiraSearch,
}

var jiraCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an issue",
	Long: `Create an issue. Extra fields, including custom fields, are set with
repeated --set flags:

  worklink jira create --project PROJ --summary "Fix login" --set labels=auth`,
	RunE: runJiraCreate,
}

var jiraUpdateCmd = &cobra.Command{
	Use:   "update <key>",
	Short: "Update issue fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runJiraUpdate,
}

var jiraCommentCmd = &cobra.Command{
	Use:   "comment <key> <body>",
	Short: "Add a comment to an issue",
	Args:  cobra.ExactArgs(2),
	RunE:  runJiraComment,
}

var jiraProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	RunE:  runJiraProjects,
}

var jiraProjectCmd = &cobra.Command{
	Use:   "project <key>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runJiraProject,
}

var jiraIssueTypesCmd = &cobra.Command{
	Use:   "issue-types",
	Short: "List issue types",
	RunE:  runJiraIssueTypes,
}

var jiraComponentsCmd = &cobra.Command{
	Use:   "components <project>",
	Short: "List the components of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runJiraComponents,
}

var jiraComponentCreateCmd = &cobra.Command{
	Use:   "component-create",
	Short: "Create a project component",
	RunE:  runJiraComponentCreate,
}

var jiraComponentUpdateCmd = &cobra.Command{
	Use:   "component-update <id>",
	Short: "Update a project component",
	Args:  cobra.ExactArgs(1),
	RunE:  runJiraComponentUpdate,
}

var jiraCustomFieldsCmd = &cobra.Command{
	Use:   "custom-fields <project>",
	Short: "List the custom fields a project uses",
	Long: `List custom fields, narrowed to those appearing on the project's recent
issues. Falls back to the full custom-field catalogue when sampling
finds nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runJiraCustomFields,
}

var jiraGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List user groups",
	RunE:  runJiraGroups,
}

var jiraGroupMembersCmd = &cobra.Command{
	Use:   "group-members <group>",
	Short: "List the members of a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runJiraGroupMembers,
}

var jiraUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users and their roles",
	Long: `List users. With --project, users are listed with their project role.
Without it, the site user directory is listed, falling back to group
membership when the directory is not accessible.`,
	RunE: runJiraUsers,
}

func init() {
	jiraIssueCmd.Flags().StringSliceVar(&jiraIssueFields, "fields", nil, "restrict the fields returned (comma-separated)")

	jiraSearchCmd.Flags().IntVar(&jiraSearchLimit, "limit", 0, "maximum issues to return")
	jiraSearchCmd.Flags().IntVar(&jiraSearchStart, "start", 0, "offset into the result set")
	jiraSearchCmd.Flags().StringSliceVar(&jiraSearchFields, "fields", nil, "restrict the fields returned (comma-separated)")

	jiraCreateCmd.Flags().StringVar(&jiraCreateProject, "project", "", "project key (required)")
	jiraCreateCmd.Flags().StringVar(&jiraCreateSummary, "summary", "", "issue summary (required)")
	jiraCreateCmd.Flags().StringVar(&jiraCreateDesc, "description", "", "issue description")
	jiraCreateCmd.Flags().StringVar(&jiraCreateType, "type", "", "issue type (default Task)")
	jiraCreateCmd.Flags().StringArrayVar(&jiraCreateSet, "set", nil, "extra field as name=value (repeatable)")

	jiraUpdateCmd.Flags().StringArrayVar(&jiraUpdateSet, "set", nil, "field to change as name=value (repeatable)")

	jiraComponentCreateCmd.Flags().StringVar(&jiraComponentProject, "project", "", "project key (required)")
	jiraComponentCreateCmd.Flags().StringVar(&jiraComponentName, "name", "", "component name (required)")
	jiraComponentCreateCmd.Flags().StringVar(&jiraComponentDesc, "description", "", "component description")
	jiraComponentCreateCmd.Flags().StringVar(&jiraComponentLead, "lead", "", "account ID of the component lead")
	jiraComponentCreateCmd.Flags().StringVar(&jiraComponentAssignee, "assignee-type", "", "default assignee (PROJECT_DEFAULT, COMPONENT_LEAD, PROJECT_LEAD, UNASSIGNED)")

	jiraComponentUpdateCmd.Flags().StringVar(&jiraComponentName, "name", "", "new component name")
	jiraComponentUpdateCmd.Flags().StringVar(&jiraComponentDesc, "description", "", "new component description")
	jiraComponentUpdateCmd.Flags().StringVar(&jiraComponentLead, "lead", "", "account ID of the component lead")
	jiraComponentUpdateCmd.Flags().StringVar(&jiraComponentAssignee, "assignee-type", "", "default assignee")

	jiraUsersCmd.Flags().StringVar(&jiraUsersProject, "project", "", "project key to list role actors for")

	jiraCmd.AddCommand(jiraTestCmd)
	jiraCmd.AddCommand(jiraIssueCmd)
	jiraCmd.AddCommand(jiraSearchCmd)
	jiraCmd.AddCommand(jiraCreateCmd)
	jiraCmd.AddCommand(jiraUpdateCmd)
	jiraCmd.AddCommand(jiraCommentCmd)
	jiraCmd.AddCommand(jiraProjectsCmd)
	jiraCmd.AddCommand(jiraProjectCmd)
	jiraCmd.AddCommand(jiraIssueTypesCmd)
	jiraCmd.AddCommand(jiraComponentsCmd)
	jiraCmd.AddCommand(jiraComponentCreateCmd)
	jiraCmd.AddCommand(jiraComponentUpdateCmd)
	jiraCmd.AddCommand(jiraCustomFieldsCmd)
	jiraCmd.AddCommand(jiraGroupsCmd)
	jiraCmd.AddCommand(jiraGroupMembersCmd)
	jiraCmd.AddCommand(jiraUsersCmd)
	rootCmd.AddCommand(jiraCmd)
}

func runJiraTest(cmd *cobra.Command, _ []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	user, err := client.TestConnection(cmd.Context())
	if err != nil {
		console.Fail("Jira connection failed: %v", err)
		return err
	}

	console.OK("Connected to Jira as %s (%s)", user.DisplayName, user.Email)
	return nil
}

func runJiraIssue(cmd *cobra.Command, args []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	issue, err := client.Issue(cmd.Context(), args[0], jiraIssueFields)
	if err != nil {
		return err
	}

	printIssue(cmd, issue)
	return nil
}

func runJiraSearch(cmd *cobra.Command, args []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	issues, err := client.SearchIssues(cmd.Context(), args[0], jira.SearchOptions{
		MaxResults: jiraSearchLimit,
		StartAt:    jiraSearchStart,
		Fields:     jiraSearchFields,
	})
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		cmd.Println("No issues found.")
		return nil
	}

	for _, issue := range issues {
		cmd.Printf("%-12s %-14s %s\n", issue.Key, issueStatus(&issue), issueSummary(&issue))
	}
	cmd.Printf("\n%d issues\n", len(issues))
	return nil
}

func runJiraCreate(cmd *cobra.Command, _ []string) error {
	if jiraCreateProject == "" || jiraCreateSummary == "" {
		return fmt.Errorf("--project and --summary are required")
	}

	extra, err := parseFieldArgs(jiraCreateSet)
	if err != nil {
		return err
	}

	client, err := jiraClient()
	if err != nil {
		return err
	}

	issue, err := client.CreateIssue(cmd.Context(), jira.CreateIssueRequest{
		ProjectKey:  jiraCreateProject,
		Summary:     jiraCreateSummary,
		Description: jiraCreateDesc,
		IssueType:   jiraCreateType,
		Extra:       extra,
	})
	if err != nil {
		return err
	}

	console.OK("Created %s", issue.Key)
	return nil
}

func runJiraUpdate(cmd *cobra.Command, args []string) error {
	fields, err := parseFieldArgs(jiraUpdateSet)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update: pass at least one --set name=value")
	}

	client, err := jiraClient()
	if err != nil {
		return err
	}

	if err := client.UpdateIssue(cmd.Context(), args[0], fields); err != nil {
		return err
	}

	console.OK("Updated %s", args[0])
	return nil
}

func runJiraComment(cmd *cobra.Command, args []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	comment, err := client.AddComment(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	console.OK("Added comment %s to %s", comment.ID, args[0])
	return nil
}

func runJiraProjects(cmd *cobra.Command, _ []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	projects, err := client.Projects(cmd.Context())
	if err != nil {
		return err
	}

	for _, p := range projects {
		cmd.Printf("%-12s %s\n", p.Key, p.Name)
	}
	return nil
}

func runJiraProject(cmd *cobra.Command, args []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	project, err := client.Project(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Key:  %s\n", project.Key)
	cmd.Printf("Name: %s\n", project.Name)
	if project.Lead.DisplayName != "" {
		cmd.Printf("Lead: %s\n", project.Lead.DisplayName)
	}
	if project.Description != "" {
		cmd.Printf("\n%s\n", project.Description)
	}
	return nil
}

func runJiraIssueTypes(cmd *cobra.Command, _ []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	types, err := client.IssueTypes(cmd.Context())
	if err != nil {
		return err
	}

	for _, t := range types {
		label := ""
		if t.Subtask {
			label = " (subtask)"
		}
		cmd.Printf("%-20s%s %s\n", t.Name, label, t.Description)
	}
	return nil
}

func runJiraComponents(cmd *cobra.Command, args []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	components, err := client.Components(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if len(components) == 0 {
		cmd.Printf("No components in %s.\n", args[0])
		return nil
	}

	for _, c := range components {
		lead := c.Lead
		if lead == "" {
			lead = "-"
		}
		cmd.Printf("%-10s %-30s lead: %s\n", c.ID, c.Name, lead)
	}
	return nil
}

func runJiraComponentCreate(cmd *cobra.Command, _ []string) error {
	if jiraComponentProject == "" || jiraComponentName == "" {
		return fmt.Errorf("--project and --name are required")
	}

	client, err := jiraClient()
	if err != nil {
		return err
	}

	component, err := client.CreateComponent(cmd.Context(), jira.ComponentRequest{
		ProjectKey:    jiraComponentProject,
		Name:          jiraComponentName,
		Description:   jiraComponentDesc,
		LeadAccountID: jiraComponentLead,
		AssigneeType:  jiraComponentAssignee,
	})
	if err != nil {
		return err
	}

	console.OK("Created component %s (%s)", component.Name, component.ID)
	return nil
}

func runJiraComponentUpdate(cmd *cobra.Command, args []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	component, err := client.UpdateComponent(cmd.Context(), args[0], jira.ComponentRequest{
		Name:          jiraComponentName,
		Description:   jiraComponentDesc,
		LeadAccountID: jiraComponentLead,
		AssigneeType:  jiraComponentAssignee,
	})
	if err != nil {
		return err
	}

	console.OK("Updated component %s", component.ID)
	return nil
}

func runJiraCustomFields(cmd *cobra.Command, args []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	fields, err := client.CustomFields(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	for _, f := range fields {
		cmd.Printf("%-20s %-30s %s\n", f.ID, f.Name, f.FieldType)
	}
	cmd.Printf("\n%d custom fields\n", len(fields))
	return nil
}

func runJiraGroups(cmd *cobra.Command, _ []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	groups, err := client.Groups(cmd.Context())
	if err != nil {
		return err
	}

	for _, g := range groups {
		cmd.Println(g.Name)
	}
	return nil
}

func runJiraGroupMembers(cmd *cobra.Command, args []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	members, err := client.GroupMembers(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	for _, m := range members {
		cmd.Printf("%-40s %s\n", m.DisplayName, m.Email)
	}
	return nil
}

func runJiraUsers(cmd *cobra.Command, _ []string) error {
	client, err := jiraClient()
	if err != nil {
		return err
	}

	users, err := client.UsersWithRoles(cmd.Context(), jiraUsersProject)
	if err != nil {
		return err
	}

	for _, u := range users {
		detail := u.Source
		switch {
		case u.Role != "":
			detail = u.Role
		case len(u.Groups) > 0:
			detail = strings.Join(u.Groups, ", ")
		}
		cmd.Printf("%-40s %-30s %s\n", u.DisplayName, u.Email, detail)
	}
	cmd.Printf("\n%d users\n", len(users))
	return nil
}

func printIssue(cmd *cobra.Command, issue *gojira.Issue) {
	cmd.Printf("%s: %s\n", issue.Key, issueSummary(issue))
	if issue.Fields == nil {
		return
	}
	cmd.Printf("Type:     %s\n", issue.Fields.Type.Name)
	cmd.Printf("Status:   %s\n", issueStatus(issue))
	if issue.Fields.Assignee != nil {
		cmd.Printf("Assignee: %s\n", issue.Fields.Assignee.DisplayName)
	}
	if issue.Fields.Description != "" {
		cmd.Printf("\n%s\n", issue.Fields.Description)
	}
}

func issueSummary(issue *gojira.Issue) string {
	if issue.Fields == nil {
		return ""
	}
	return issue.Fields.Summary
}

func issueStatus(issue *gojira.Issue) string {
	if issue.Fields == nil || issue.Fields.Status == nil {
		return ""
	}
	return issue.Fields.Status.Name
}

// parseFieldArgs turns repeated name=value flags into a field map.
func parseFieldArgs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q: expected name=value", pair)
		}
		fields[name] = value
	}
	return fields, nil
}
