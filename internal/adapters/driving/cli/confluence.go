package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/worklink/internal/connectors/atlassian/confluence"
	"github.com/custodia-labs/worklink/internal/console"
)

var (
	confluenceSpace       string
	confluenceContentType string
	confluenceLimit       int
	confluenceStart       int
	confluenceNoDefault   bool
)

var confluenceCmd = &cobra.Command{
	Use:   "confluence",
	Short: "Work with Confluence pages and spaces",
	Long: `Search and browse Confluence Cloud.

Searches are scoped to the configured default space unless --space names
another one or --no-default-space is given.

Examples:
  worklink confluence test
  worklink confluence spaces
  worklink confluence search "deployment runbook"
  worklink confluence search "deployment runbook" --space OPS --type page
  worklink confluence content OPS --limit 50`,
}

var confluenceTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify Confluence credentials",
	RunE:  runConfluenceTest,
}

var confluenceSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List spaces",
	RunE:  runConfluenceSpaces,
}

var confluenceSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search content with CQL text matching",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfluenceSearch,
}

var confluenceContentCmd = &cobra.Command{
	Use:   "content <space>",
	Short: "List the content of a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfluenceContent,
}

func init() {
	confluenceSearchCmd.Flags().StringVar(&confluenceSpace, "space", "", "restrict the search to a space key")
	confluenceSearchCmd.Flags().StringVar(&confluenceContentType, "type", "", "restrict to a content type (page, blogpost)")
	confluenceSearchCmd.Flags().IntVar(&confluenceLimit, "limit", 0, "maximum results (capped at 200)")
	confluenceSearchCmd.Flags().IntVar(&confluenceStart, "start", 0, "offset into the result set")
	confluenceSearchCmd.Flags().BoolVar(&confluenceNoDefault, "no-default-space", false, "search across all spaces, ignoring the configured default")

	confluenceContentCmd.Flags().StringVar(&confluenceContentType, "type", "", "content type to list (default page)")
	confluenceContentCmd.Flags().IntVar(&confluenceLimit, "limit", 0, "maximum results (capped at 200)")
	confluenceContentCmd.Flags().IntVar(&confluenceStart, "start", 0, "offset into the result set")

	confluenceCmd.AddCommand(confluenceTestCmd)
	confluenceCmd.AddCommand(confluenceSpacesCmd)
	confluenceCmd.AddCommand(confluenceSearchCmd)
	confluenceCmd.AddCommand(confluenceContentCmd)
	rootCmd.AddCommand(confluenceCmd)
}

func runConfluenceTest(cmd *cobra.Command, _ []string) error {
	client, err := confluenceClient()
	if err != nil {
		return err
	}

	user, err := client.TestConnection(cmd.Context())
	if err != nil {
		console.Fail("Confluence connection failed: %v", err)
		return err
	}

	console.OK("Connected to Confluence as %s (%s)", user.DisplayName, user.Email)
	return nil
}

func runConfluenceSpaces(cmd *cobra.Command, _ []string) error {
	client, err := confluenceClient()
	if err != nil {
		return err
	}

	spaces, err := client.Spaces(cmd.Context())
	if err != nil {
		return err
	}

	for _, s := range spaces {
		cmd.Printf("%-12s %-40s %s\n", s.Key, s.Name, s.Type)
	}
	return nil
}

func runConfluenceSearch(cmd *cobra.Command, args []string) error {
	client, err := confluenceClient()
	if err != nil {
		return err
	}

	result, err := client.SearchContent(cmd.Context(), args[0], confluence.SearchOptions{
		SpaceKey:       confluenceSpace,
		ContentType:    confluenceContentType,
		Limit:          confluenceLimit,
		Start:          confluenceStart,
		NoDefaultSpace: confluenceNoDefault,
	})
	if err != nil {
		return err
	}

	if len(result.Results) == 0 {
		cmd.Println("No content found.")
		return nil
	}

	for _, page := range result.Results {
		printPage(cmd, page)
	}
	cmd.Printf("%d results (offset %d)\n", len(result.Results), result.Start)
	return nil
}

func runConfluenceContent(cmd *cobra.Command, args []string) error {
	client, err := confluenceClient()
	if err != nil {
		return err
	}

	pages, err := client.SpaceContent(cmd.Context(), args[0], confluence.SearchOptions{
		ContentType: confluenceContentType,
		Limit:       confluenceLimit,
		Start:       confluenceStart,
	})
	if err != nil {
		return err
	}

	if len(pages) == 0 {
		cmd.Printf("No content in %s.\n", args[0])
		return nil
	}

	for _, page := range pages {
		printPage(cmd, page)
	}
	return nil
}

func printPage(cmd *cobra.Command, page confluence.Page) {
	cmd.Printf("%s [%s] %s\n", page.ID, page.SpaceKey, page.Title)
	if page.Excerpt != "" {
		cmd.Printf("    %s\n", page.Excerpt)
	}
	if page.URL != "" {
		cmd.Printf("    %s\n", page.URL)
	}
}
