//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func TestNewCallbackServer(t *testing.T) {
	server := NewCallbackServer(8080, "test-state-123")

	require.NotNil(t, server)
	assert.Equal(t, 8080, server.port)
	assert.Equal(t, "test-state-123", server.expectedState)
	assert.NotNil(t, server.codeChan)
	assert.NotNil(t, server.errChan)
	assert.Nil(t, server.server)
}

func TestCallbackServer_Start_RandomPort(t *testing.T) {
	server := startServer(t, "test-state")

	// Port 0 should be replaced with the actual listen port.
	assert.NotZero(t, server.Port())
	assert.Contains(t, server.RedirectURI(), fmt.Sprintf(":%d/callback", server.Port()))
}

func TestCallbackServer_Stop_NotStarted(t *testing.T) {
	server := NewCallbackServer(8080, "test-state")

	require.NoError(t, server.Stop())
}

func TestCallbackServer_HandleCallback_Success(t *testing.T) {
	expectedState := "test-state-abc123"
	expectedCode := "auth-code-xyz789"
	server := startServer(t, expectedState)

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/callback?code=%s&state=%s",
		server.Port(), expectedCode, expectedState))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))

	code, err := server.WaitForCode(1 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, expectedCode, code)
}

func TestCallbackServer_HandleCallback_StateMismatch(t *testing.T) {
	server := startServer(t, "correct-state")

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/callback?code=somecode&state=wrong-state",
		server.Port()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = server.WaitForCode(1 * time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
	assert.Contains(t, err.Error(), "correct-state")
	assert.Contains(t, err.Error(), "wrong-state")
}

func TestCallbackServer_HandleCallback_MissingCode(t *testing.T) {
	server := startServer(t, "test-state")

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/callback?state=test-state", server.Port()))
	require.NoError(t, err)
	defer resp.Body.Close()

	_, err = server.WaitForCode(1 * time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authorization code received")
}

func TestCallbackServer_HandleCallback_OAuthError(t *testing.T) {
	server := startServer(t, "test-state")

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/callback?error=%s&error_description=%s",
		server.Port(), url.QueryEscape("access_denied"), url.QueryEscape("User denied access")))
	require.NoError(t, err)
	defer resp.Body.Close()

	_, err = server.WaitForCode(1 * time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauth error")
	assert.Contains(t, err.Error(), "access_denied")
	assert.Contains(t, err.Error(), "User denied access")
}

func TestCallbackServer_WaitForCode_Timeout(t *testing.T) {
	server := NewCallbackServer(0, "test-state")

	code, err := server.WaitForCode(100 * time.Millisecond)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for authorization callback")
	assert.Empty(t, code)
}

func TestCallbackServer_InvalidPath(t *testing.T) {
	server := startServer(t, "test-state")

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/wrongpath", server.Port()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResultHTML(t *testing.T) {
	html := resultHTML("Authorization successful!", "You can close this window.")

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "Authorization successful!")
	assert.Contains(t, html, "You can close this window.")
	assert.Contains(t, html, "worklink - OAuth Callback")
}

func TestResultHTML_EscapesContent(t *testing.T) {
	html := resultHTML("<script>", "a & b")

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "a &amp; b")
}
