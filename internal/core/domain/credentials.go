package domain

import "time"

// Credentials stores the OAuth tokens persisted between runs.
//
// The on-disk shape (see auth.TokenStore) is the standard oauth2 token JSON so
// a token file written by any other tool using the same client works unchanged.
type Credentials struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the access token has expired.
// A zero expiry means the token never expires.
func (c *Credentials) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// IsAuthenticated returns true if the credentials contain a usable token.
func (c *Credentials) IsAuthenticated() bool {
	return c.AccessToken != "" && !c.IsExpired()
}

// NeedsRefresh returns true if the token is expired but can be refreshed.
func (c *Credentials) NeedsRefresh() bool {
	return c.IsExpired() && c.RefreshToken != ""
}
