package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/custodia-labs/worklink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/worklink/internal/connectors/atlassian"
	"github.com/custodia-labs/worklink/internal/connectors/atlassian/confluence"
	"github.com/custodia-labs/worklink/internal/connectors/atlassian/jira"
	"github.com/custodia-labs/worklink/internal/console"
	driveapi "google.golang.org/api/drive/v3"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// executeCommand runs the root command with the given arguments and
// returns its combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func testAtlassianConfig(baseURL string) atlassian.Config {
	return atlassian.Config{
		BaseURL:  baseURL,
		Username: "dev@example.com",
		APIToken: "token",
	}
}

// setupJiraService points the jira service at a test server.
func setupJiraService(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)
	client, err := jira.New(testAtlassianConfig(server.URL))
	require.NoError(t, err)

	old := jiraService
	jiraService = client
	t.Cleanup(func() {
		jiraService = old
		server.Close()
	})
}

// setupConfluenceService points the confluence service at a test server.
func setupConfluenceService(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)
	client, err := confluence.New(confluence.Config{Config: testAtlassianConfig(server.URL)})
	require.NoError(t, err)

	old := confluenceService
	confluenceService = client
	t.Cleanup(func() {
		confluenceService = old
		server.Close()
	})
}

// setupSheetsService points the sheets service at a test server.
func setupSheetsService(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)
	svc, err := sheetsapi.NewService(context.Background(),
		option.WithoutAuthentication(), option.WithEndpoint(server.URL))
	require.NoError(t, err)

	old := sheetsService
	sheetsService = svc
	t.Cleanup(func() {
		sheetsService = old
		server.Close()
	})
}

// setupDriveService points the drive service at a test server.
func setupDriveService(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)
	svc, err := driveapi.NewService(context.Background(),
		option.WithoutAuthentication(), option.WithEndpoint(server.URL))
	require.NoError(t, err)

	old := driveService
	driveService = svc
	t.Cleanup(func() {
		driveService = old
		server.Close()
	})
}

// setupConfigStore points the config store at a temp directory.
func setupConfigStore(t *testing.T) *file.ConfigStore {
	t.Helper()

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	old := configStore
	configStore = store
	t.Cleanup(func() { configStore = old })
	return store
}

// silenceConsole discards the status lines commands print.
func silenceConsole(t *testing.T) {
	t.Helper()
	console.SetOutput(io.Discard)
	t.Cleanup(func() { console.SetOutput(os.Stdout) })
}

// jiraIssueJSON is a minimal issue payload for command output tests.
func jiraIssueJSON(key, summary, status string) string {
	return `{
		"key": "` + key + `",
		"fields": {
			"summary": "` + summary + `",
			"issuetype": {"name": "Task"},
			"status": {"name": "` + status + `"}
		}
	}`
}
