package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	gdrive "github.com/custodia-labs/worklink/internal/connectors/google/drive"
	"github.com/custodia-labs/worklink/internal/console"
	"github.com/custodia-labs/worklink/internal/core/domain"
)

var (
	driveFindType string
	driveDeleteID string
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Work with Google Drive files",
	Long: `Look up and delete Google Drive files.

Examples:
  worklink drive find "Quarterly Report"
  worklink drive find "Quarterly Report" --type spreadsheet
  worklink drive delete "Quarterly Report"
  worklink drive delete --id 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms`,
}

var driveFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find a file by exact name",
	Long: `Find a Drive file by exact name and print its ID. Fails when the name
matches nothing; lists all candidates when it matches more than one.`,
	Args: cobra.ExactArgs(1),
	RunE: runDriveFind,
}

var driveDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a spreadsheet",
	Long: `Delete a spreadsheet by name, or by ID or URL with --id. When both are
given the ID wins. Asks for confirmation before deleting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDriveDelete,
}

func init() {
	driveFindCmd.Flags().StringVar(&driveFindType, "type", "", "restrict matches to a file type (spreadsheet, document, presentation, form, folder)")
	driveDeleteCmd.Flags().StringVar(&driveDeleteID, "id", "", "file ID or URL; skips the name lookup")

	driveCmd.AddCommand(driveFindCmd)
	driveCmd.AddCommand(driveDeleteCmd)
	rootCmd.AddCommand(driveCmd)
}

func runDriveFind(cmd *cobra.Command, args []string) error {
	files, err := driveClient(cmd.Context())
	if err != nil {
		return err
	}

	id, err := files.FindByName(cmd.Context(), args[0], gdrive.FileKind(driveFindType))
	if err != nil {
		var ambErr *gdrive.AmbiguityError
		if errors.As(err, &ambErr) {
			console.Fail("Multiple files named %q:", args[0])
			for _, c := range ambErr.Candidates {
				cmd.Printf("  %s  %s (%s)\n", c.ID, c.Name, c.MIMEType)
			}
			return err
		}
		return err
	}

	cmd.Println(id)
	return nil
}

func runDriveDelete(cmd *cobra.Command, args []string) error {
	if driveDeleteID == "" && len(args) == 0 {
		return fmt.Errorf("%w: a name or --id is required", domain.ErrInvalidInput)
	}

	files, err := driveClient(cmd.Context())
	if err != nil {
		return err
	}

	fileID := ""
	if driveDeleteID != "" {
		fileID, err = gdrive.ExtractID(driveDeleteID)
	} else {
		fileID, err = files.FindByName(cmd.Context(), args[0], gdrive.KindSpreadsheet)
	}
	if err != nil {
		var ambErr *gdrive.AmbiguityError
		if errors.As(err, &ambErr) {
			console.Fail("Multiple files named %q; re-run with --id:", args[0])
			for _, c := range ambErr.Candidates {
				cmd.Printf("  %s  %s (%s)\n", c.ID, c.Name, c.MIMEType)
			}
		}
		return err
	}

	name, err := files.Name(cmd.Context(), fileID)
	if err != nil {
		return fmt.Errorf("failed to look up file %s: %w", fileID, err)
	}

	if !console.Confirm(fmt.Sprintf("Delete %q (%s)? This cannot be undone.", name, fileID)) {
		return fmt.Errorf("%w: delete of %q", domain.ErrConfirmationDeclined, name)
	}

	if err := files.Delete(cmd.Context(), fileID); err != nil {
		return fmt.Errorf("failed to delete %q: %w", name, err)
	}

	console.OK("Deleted %q", name)
	return nil
}
