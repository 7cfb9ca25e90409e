package auth

import (
	"context"
	"fmt"

	"github.com/custodia-labs/worklink/internal/core/domain"
	"github.com/custodia-labs/worklink/internal/core/ports/driven"
)

// Ensure StaticProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticProvider)(nil)

// StaticProvider serves a fixed access token. It is used in headless
// environments (CI, cron) where the interactive consent flow cannot run
// and a token is supplied externally.
type StaticProvider struct {
	token string
}

// NewStaticProvider creates a provider that always returns the given token.
func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

// GetToken returns the configured token.
func (p *StaticProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("%w: no static token configured", domain.ErrAuthRequired)
	}
	return p.token, nil
}

// IsAuthenticated returns true if a token is configured.
func (p *StaticProvider) IsAuthenticated() bool {
	return p.token != ""
}
