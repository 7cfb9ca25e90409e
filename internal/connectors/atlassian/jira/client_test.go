package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/worklink/internal/connectors/atlassian"
	"github.com/custodia-labs/worklink/internal/core/domain"
)

// newTestClient returns a Client pointed at a stub Jira server.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(atlassian.Config{
		BaseURL:  server.URL,
		Username: "user@example.com",
		APIToken: "api-token",
	})
	require.NoError(t, err)
	return client
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(atlassian.Config{BaseURL: "https://example.atlassian.net"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_TestConnection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/myself", func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user@example.com", username)
		assert.Equal(t, "api-token", password)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"accountId": "5b10a2844c20165700ede21g",
			"displayName": "Mia Krystof",
			"emailAddress": "user@example.com",
			"active": true
		}`)
	})

	client := newTestClient(t, mux)
	user, err := client.TestConnection(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "5b10a2844c20165700ede21g", user.AccountID)
	assert.Equal(t, "Mia Krystof", user.DisplayName)
	assert.True(t, user.Active)
}

func TestClient_TestConnection_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/myself", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages": ["Unauthorized"]}`, http.StatusUnauthorized)
	})

	client := newTestClient(t, mux)
	_, err := client.TestConnection(context.Background())

	require.Error(t, err)
	assert.True(t, atlassian.IsUnauthorized(err))
}
