package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/worklink/internal/console"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Google authentication",
	Long: `Manage Google OAuth credentials for the Sheets and Drive commands.

'worklink auth login' runs the browser consent flow and stores the granted
token under ~/.worklink. Subsequent commands refresh the token silently;
re-run login only if access has been revoked.

Examples:
  worklink auth login
  worklink auth status
  worklink auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Google",
	Long:  `Run the browser consent flow and store the granted OAuth token.`,
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Google credentials",
	RunE:  runAuthLogout,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	provider, err := tokenProvider()
	if err != nil {
		return err
	}

	if _, err := provider.GetToken(cmd.Context()); err != nil {
		console.Fail("Authentication failed: %v", err)
		return err
	}

	console.OK("Authenticated with Google")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	provider, err := tokenProvider()
	if err != nil {
		return err
	}

	if !provider.IsAuthenticated() {
		cmd.Println("Not authenticated. Run 'worklink auth login'.")
		return nil
	}

	creds, err := provider.Credentials()
	if err != nil {
		return fmt.Errorf("failed to read stored credentials: %w", err)
	}

	cmd.Println("Authenticated with Google.")
	if creds.Expiry.IsZero() {
		return nil
	}
	if creds.IsExpired() {
		cmd.Printf("Access token expired %s; it will be refreshed on next use.\n",
			creds.Expiry.Format(time.RFC3339))
	} else {
		cmd.Printf("Access token valid until %s.\n", creds.Expiry.Format(time.RFC3339))
	}
	return nil
}

func runAuthLogout(_ *cobra.Command, _ []string) error {
	provider, err := tokenProvider()
	if err != nil {
		return err
	}

	if err := provider.Logout(); err != nil {
		return fmt.Errorf("failed to remove stored credentials: %w", err)
	}
	console.OK("Logged out")
	return nil
}
