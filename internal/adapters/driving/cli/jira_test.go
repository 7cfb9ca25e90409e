package cli

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJiraCmd_HasSubcommands(t *testing.T) {
	commands := jiraCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "test")
	assert.Contains(t, commandNames, "issue")
	assert.Contains(t, commandNames, "search")
	assert.Contains(t, commandNames, "create")
	assert.Contains(t, commandNames, "update")
	assert.Contains(t, commandNames, "comment")
	assert.Contains(t, commandNames, "projects")
	assert.Contains(t, commandNames, "project")
	assert.Contains(t, commandNames, "issue-types")
	assert.Contains(t, commandNames, "components")
	assert.Contains(t, commandNames, "custom-fields")
	assert.Contains(t, commandNames, "groups")
	assert.Contains(t, commandNames, "group-members")
	assert.Contains(t, commandNames, "users")
}

func TestJiraTestCmd_PrintsCurrentUser(t *testing.T) {
	silenceConsole(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/myself", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"accountId": "acc-1", "displayName": "Dev", "emailAddress": "dev@example.com"}`)
	})
	setupJiraService(t, mux)

	_, err := executeCommand(t, "jira", "test")

	assert.NoError(t, err)
}

func TestJiraIssueCmd_PrintsIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/issue/PROJ-1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, jiraIssueJSON("PROJ-1", "Fix the login page", "In Progress"))
	})
	setupJiraService(t, mux)

	out, err := executeCommand(t, "jira", "issue", "PROJ-1")

	assert.NoError(t, err)
	assert.Contains(t, out, "PROJ-1: Fix the login page")
	assert.Contains(t, out, "Status:   In Progress")
}

func TestJiraIssueCmd_RequiresKey(t *testing.T) {
	_, err := executeCommand(t, "jira", "issue")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestJiraSearchCmd_ListsIssues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "project = PROJ", r.URL.Query().Get("jql"))
		fmt.Fprintf(w, `{"issues": [%s, %s], "total": 2}`,
			jiraIssueJSON("PROJ-1", "First", "Open"),
			jiraIssueJSON("PROJ-2", "Second", "Done"))
	})
	setupJiraService(t, mux)

	out, err := executeCommand(t, "jira", "search", "project = PROJ")

	assert.NoError(t, err)
	assert.Contains(t, out, "PROJ-1")
	assert.Contains(t, out, "PROJ-2")
	assert.Contains(t, out, "2 issues")
}

func TestJiraSearchCmd_NoResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"issues": [], "total": 0}`)
	})
	setupJiraService(t, mux)

	out, err := executeCommand(t, "jira", "search", "project = EMPTY")

	assert.NoError(t, err)
	assert.Contains(t, out, "No issues found")
}

func TestJiraCreateCmd_RequiresProjectAndSummary(t *testing.T) {
	_, err := executeCommand(t, "jira", "create")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--project and --summary are required")
}

func TestJiraUpdateCmd_RequiresSetFlag(t *testing.T) {
	_, err := executeCommand(t, "jira", "update", "PROJ-1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestJiraProjectsCmd_ListsProjects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id": "1", "key": "PROJ", "name": "My Project"}]`)
	})
	setupJiraService(t, mux)

	out, err := executeCommand(t, "jira", "projects")

	assert.NoError(t, err)
	assert.Contains(t, out, "PROJ")
	assert.Contains(t, out, "My Project")
}

func TestJiraProjectCmd_PrintsProject(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project/PROJ", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"key": "PROJ",
			"name": "Main Project",
			"description": "The main line of work",
			"lead": {"accountId": "acc-1", "displayName": "Alice"}
		}`)
	})
	setupJiraService(t, mux)

	out, err := executeCommand(t, "jira", "project", "PROJ")

	assert.NoError(t, err)
	assert.Contains(t, out, "Key:  PROJ")
	assert.Contains(t, out, "Name: Main Project")
	assert.Contains(t, out, "Lead: Alice")
	assert.Contains(t, out, "The main line of work")
}

func TestJiraProjectCmd_RequiresKey(t *testing.T) {
	_, err := executeCommand(t, "jira", "project")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestJiraGroupsCmd_ListsGroups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/groups/picker", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"groups": [{"name": "developers"}, {"name": "admins"}]}`)
	})
	setupJiraService(t, mux)

	out, err := executeCommand(t, "jira", "groups")

	assert.NoError(t, err)
	assert.Contains(t, out, "developers")
	assert.Contains(t, out, "admins")
}

func TestParseFieldArgs(t *testing.T) {
	fields, err := parseFieldArgs([]string{"summary=New summary", "customfield_10020=5"})

	assert.NoError(t, err)
	assert.Equal(t, map[string]any{
		"summary":           "New summary",
		"customfield_10020": "5",
	}, fields)
}

func TestParseFieldArgs_Invalid(t *testing.T) {
	_, err := parseFieldArgs([]string{"no-equals-sign"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected name=value")
}

func TestParseFieldArgs_Empty(t *testing.T) {
	fields, err := parseFieldArgs(nil)

	assert.NoError(t, err)
	assert.Nil(t, fields)
}
