package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/custodia-labs/worklink/internal/adapters/driving/oauth"
	"github.com/custodia-labs/worklink/internal/console"
	"github.com/custodia-labs/worklink/internal/core/domain"
	"github.com/custodia-labs/worklink/internal/core/ports/driven"
	"github.com/custodia-labs/worklink/internal/logger"
)

// Ensure FlowProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*FlowProvider)(nil)

// defaultConsentTimeout bounds how long we wait for the user to complete
// the browser consent flow.
const defaultConsentTimeout = 5 * time.Minute

// Config holds the settings for the interactive OAuth flow.
type Config struct {
	// ClientSecretPath points at the OAuth client JSON downloaded from
	// the Google Cloud console.
	ClientSecretPath string
	// TokenPath is where granted credentials are persisted.
	TokenPath string
	// Scopes requested during consent.
	Scopes []string
	// ConsentTimeout overrides the default wait for the browser flow.
	ConsentTimeout time.Duration
}

// FlowProvider provides Google OAuth access tokens. It loads persisted
// credentials, refreshes them when expired and falls back to the full
// browser consent flow when refresh is not possible.
type FlowProvider struct {
	cfg   Config
	store *TokenStore

	mu    sync.Mutex
	token *oauth2.Token
}

// NewFlowProvider creates a provider for the interactive OAuth flow.
func NewFlowProvider(cfg Config) *FlowProvider {
	if cfg.ConsentTimeout == 0 {
		cfg.ConsentTimeout = defaultConsentTimeout
	}
	return &FlowProvider{
		cfg:   cfg,
		store: NewTokenStore(cfg.TokenPath),
	}
}

// GetToken returns a valid access token, acquiring one if necessary.
//
// The lifecycle is: persisted token that is still valid wins; an expired
// token with a refresh token is refreshed and re-persisted; if refresh
// fails (revoked grant, changed scopes) the flow degrades to a fresh
// browser consent rather than failing outright.
func (p *FlowProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Valid() {
		return p.token.AccessToken, nil
	}

	conf, err := p.oauthConfig()
	if err != nil {
		return "", err
	}

	tok := p.token
	if tok == nil {
		if creds, err := p.store.Load(); err == nil {
			tok = credsToToken(creds)
		} else {
			logger.Debug("no persisted token: %v", err)
		}
	}

	if tok.Valid() {
		p.token = tok
		return tok.AccessToken, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := conf.TokenSource(ctx, tok).Token()
		if err == nil {
			logger.Debug("refreshed access token, new expiry %s", refreshed.Expiry.Format(time.RFC3339))
			if err := p.persist(refreshed); err != nil {
				return "", err
			}
			p.token = refreshed
			return refreshed.AccessToken, nil
		}
		logger.Warn("token refresh failed, re-running consent flow: %v", err)
	}

	granted, err := p.consent(ctx, conf)
	if err != nil {
		return "", err
	}
	if err := p.persist(granted); err != nil {
		return "", err
	}
	p.token = granted
	return granted.AccessToken, nil
}

// IsAuthenticated returns true if a usable credential exists without
// triggering the interactive flow.
func (p *FlowProvider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Valid() {
		return true
	}
	creds, err := p.store.Load()
	if err != nil {
		return false
	}
	return creds.IsAuthenticated() || creds.NeedsRefresh()
}

// Credentials returns the persisted credentials for status display.
func (p *FlowProvider) Credentials() (*domain.Credentials, error) {
	return p.store.Load()
}

// Logout removes the persisted credentials.
func (p *FlowProvider) Logout() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = nil
	return p.store.Clear()
}

// oauthConfig loads the client secret file and builds the oauth2 config.
// A missing client secret file is fatal: there is no way to run the
// consent flow without it.
func (p *FlowProvider) oauthConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(p.cfg.ClientSecretPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: client secret file not found at %s", domain.ErrAuthRequired, p.cfg.ClientSecretPath)
		}
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}

	conf, err := google.ConfigFromJSON(data, p.cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file %s: %w", p.cfg.ClientSecretPath, err)
	}
	return conf, nil
}

// consent runs the browser authorization flow with PKCE and a loopback
// callback server, returning the granted token.
func (p *FlowProvider) consent(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	server := oauth.NewCallbackServer(0, state)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	conf.RedirectURL = server.RedirectURI()
	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	console.Print("Opening browser for Google authorization...")
	if err := oauth.OpenBrowser(authURL); err != nil {
		logger.Warn("could not open browser: %v", err)
		console.Print("Visit this URL to authorize:\n%s", authURL)
	}

	code, err := server.WaitForCode(p.cfg.ConsentTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConsentDenied, err)
	}

	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

func (p *FlowProvider) persist(tok *oauth2.Token) error {
	if err := p.store.Save(tokenToCreds(tok)); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	return nil
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func credsToToken(c *domain.Credentials) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

func tokenToCreds(t *oauth2.Token) *domain.Credentials {
	return &domain.Credentials{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}
