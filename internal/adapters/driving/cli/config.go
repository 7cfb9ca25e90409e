package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/worklink/internal/console"
)

// secretKeys are masked when displayed and prompted for without echo.
var secretKeys = map[string]bool{
	"atlassian.api_token": true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage worklink configuration",
	Long: `View and set configuration values stored in ~/.worklink/config.toml.

Recognized keys:
  atlassian.base_url        Atlassian site URL (https://yoursite.atlassian.net)
  atlassian.username        Atlassian account email
  atlassian.api_token       Atlassian API token
  confluence.base_url       Confluence URL, if different from the Jira site
  confluence.default_space  Space key applied to searches by default
  google.client_secret      Path to the Google OAuth client JSON
  google.token_file         Path where the Google token is stored

Examples:
  worklink config set atlassian.base_url https://yoursite.atlassian.net
  worklink config set atlassian.api_token
  worklink config get confluence.default_space
  worklink config show`,
	RunE: runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. If the value is omitted for a secret key
such as atlassian.api_token, it is prompted for without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all configuration values",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case secretKeys[key]:
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret()
		cmd.Println()
	default:
		return fmt.Errorf("no value given for %s", key)
	}

	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	console.OK("Set %s", key)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	value, ok := store.Get(key)
	if !ok {
		cmd.Printf("%s is not set\n", key)
		return nil
	}
	cmd.Printf("%s = %s\n", key, displayValue(key, value))
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := loadConfig()
	if err != nil {
		return err
	}

	values := store.All()
	if len(values) == 0 {
		cmd.Println("No configuration set. Run 'worklink config set <key> <value>'.")
		return nil
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		cmd.Printf("%s = %s\n", key, displayValue(key, values[key]))
	}
	return nil
}

func displayValue(key string, value any) string {
	s := fmt.Sprint(value)
	if secretKeys[key] {
		return maskSecret(s)
	}
	return s
}

func maskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
