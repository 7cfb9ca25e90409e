package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently.
//
// The interactive OAuth provider (token file + refresh + browser consent) and
// the static provider (headless use) both satisfy this interface, so Google
// service construction never knows which flow produced the token.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// If the current token is expired, it will be refreshed automatically.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if valid authentication is available
	// without running an interactive flow.
	IsAuthenticated() bool
}
