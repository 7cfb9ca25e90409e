// Package auth implements the Google OAuth credential lifecycle: loading
// persisted tokens, refreshing expired ones and running the interactive
// browser consent flow when no usable credential exists.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/worklink/internal/core/domain"
)

// TokenStore persists OAuth credentials as a JSON file.
// The file uses the standard oauth2 token shape so tokens written by other
// tools against the same client secret are interchangeable.
type TokenStore struct {
	path string
}

// NewTokenStore creates a token store backed by the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return s.path
}

// Load reads the persisted credentials.
// A missing token file means no consent has been granted yet and is
// reported as domain.ErrAuthRequired.
func (s *TokenStore) Load() (*domain.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no token file at %s", domain.ErrAuthRequired, s.path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", s.path, err)
	}
	return &creds, nil
}

// Save writes the credentials to disk with owner-only permissions.
func (s *TokenStore) Save(creds *domain.Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear removes the persisted credentials. Missing file is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
