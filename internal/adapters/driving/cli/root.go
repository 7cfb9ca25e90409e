// Package cli implements the worklink command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/worklink/internal/adapters/driven/auth"
	"github.com/custodia-labs/worklink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/worklink/internal/connectors/atlassian"
	"github.com/custodia-labs/worklink/internal/connectors/atlassian/confluence"
	"github.com/custodia-labs/worklink/internal/connectors/atlassian/jira"
	"github.com/custodia-labs/worklink/internal/connectors/google"
	gdrive "github.com/custodia-labs/worklink/internal/connectors/google/drive"
	gsheets "github.com/custodia-labs/worklink/internal/connectors/google/sheets"
	"github.com/custodia-labs/worklink/internal/logger"
	driveapi "google.golang.org/api/drive/v3"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Package-level services. Populated lazily by the accessor functions
// below; tests inject fakes by assigning these directly.
var (
	configStore       *file.ConfigStore
	jiraService       *jira.Client
	confluenceService *confluence.Client
	googleProvider    *auth.FlowProvider
	driveService      *driveapi.Service
	sheetsService     *sheetsapi.Service
)

var rootCmd = &cobra.Command{
	Use:   "worklink",
	Short: "Command line client for Jira, Confluence and Google Sheets",
	Long: `worklink is a command line client for the tools a team's work lives in:
Jira issues, Confluence pages and Google Sheets.

Credentials are stored under ~/.worklink. Run 'worklink config set' to
configure Atlassian access and 'worklink auth login' for Google.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*file.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	store, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	configStore = store
	return configStore, nil
}

func atlassianConfig() (atlassian.Config, error) {
	store, err := loadConfig()
	if err != nil {
		return atlassian.Config{}, err
	}
	cfg := atlassian.Config{
		BaseURL:  store.GetString("atlassian.base_url"),
		Username: store.GetString("atlassian.username"),
		APIToken: store.GetString("atlassian.api_token"),
	}
	if err := cfg.Validate(); err != nil {
		return atlassian.Config{}, fmt.Errorf("%w (run 'worklink config set' to configure Atlassian access)", err)
	}
	return cfg, nil
}

func jiraClient() (*jira.Client, error) {
	if jiraService != nil {
		return jiraService, nil
	}
	cfg, err := atlassianConfig()
	if err != nil {
		return nil, err
	}
	client, err := jira.New(cfg)
	if err != nil {
		return nil, err
	}
	jiraService = client
	return jiraService, nil
}

func confluenceClient() (*confluence.Client, error) {
	if confluenceService != nil {
		return confluenceService, nil
	}
	cfg, err := atlassianConfig()
	if err != nil {
		return nil, err
	}
	store, _ := loadConfig()
	ccfg := confluence.Config{Config: cfg, DefaultSpace: store.GetString("confluence.default_space")}
	if base := store.GetString("confluence.base_url"); base != "" {
		ccfg.BaseURL = base
	}
	client, err := confluence.New(ccfg)
	if err != nil {
		return nil, err
	}
	confluenceService = client
	return confluenceService, nil
}

func tokenProvider() (*auth.FlowProvider, error) {
	if googleProvider != nil {
		return googleProvider, nil
	}
	store, err := loadConfig()
	if err != nil {
		return nil, err
	}
	configDir := filepath.Dir(store.Path())
	secretPath := store.GetString("google.client_secret")
	if secretPath == "" {
		secretPath = filepath.Join(configDir, "client_secret.json")
	}
	tokenPath := store.GetString("google.token_file")
	if tokenPath == "" {
		tokenPath = filepath.Join(configDir, "token.json")
	}
	googleProvider = auth.NewFlowProvider(auth.Config{
		ClientSecretPath: expandHome(secretPath),
		TokenPath:        expandHome(tokenPath),
		Scopes:           google.Scopes,
	})
	return googleProvider, nil
}

func driveClient(ctx context.Context) (*gdrive.Files, error) {
	if driveService == nil {
		provider, err := tokenProvider()
		if err != nil {
			return nil, err
		}
		svc, err := google.NewDriveService(ctx, google.NewTokenSource(ctx, provider))
		if err != nil {
			return nil, err
		}
		driveService = svc
	}
	return gdrive.NewFiles(driveService), nil
}

func sheetsClient(ctx context.Context, reference string) (*gsheets.Client, error) {
	svc, err := sheetsAPI(ctx)
	if err != nil {
		return nil, err
	}
	return gsheets.NewClient(svc, reference)
}

func sheetsAPI(ctx context.Context) (*sheetsapi.Service, error) {
	if sheetsService != nil {
		return sheetsService, nil
	}
	provider, err := tokenProvider()
	if err != nil {
		return nil, err
	}
	svc, err := google.NewSheetsService(ctx, google.NewTokenSource(ctx, provider))
	if err != nil {
		return nil, err
	}
	sheetsService = svc
	return sheetsService, nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
