package cli

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	gsheets "github.com/custodia-labs/worklink/internal/connectors/google/sheets"
	"github.com/custodia-labs/worklink/internal/console"
	"github.com/custodia-labs/worklink/internal/export"
)

var (
	sheetsReadRange string
	sheetsReadCSV   string
	sheetsMaxRows   int
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Work with Google Sheets",
	Long: `Read and write Google Sheets.

Spreadsheets are addressed by URL or by bare spreadsheet ID; any Google
URL shape that embeds the ID is accepted.

Examples:
  worklink sheets create "Quarterly Report"
  worklink sheets info https://docs.google.com/spreadsheets/d/<id>/edit
  worklink sheets read <id> Sheet1
  worklink sheets read <id> Sheet1 --range A1:C10 --csv out.csv
  worklink sheets append <id> Sheet1 alice 42 done
  worklink sheets write-row <id> Sheet1 5 alice 42 done
  worklink sheets write-cell <id> Sheet1 B2 42`,
}

var sheetsCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runSheetsCreate,
}

var sheetsInfoCmd = &cobra.Command{
	Use:   "info <spreadsheet>",
	Short: "Show spreadsheet metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runSheetsInfo,
}

var sheetsTabsCmd = &cobra.Command{
	Use:   "tabs <spreadsheet>",
	Short: "List the sheets in a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runSheetsTabs,
}

var sheetsReadCmd = &cobra.Command{
	Use:   "read <spreadsheet> <sheet>",
	Short: "Read sheet data",
	Long: `Read a whole sheet, or a range of it with --range. Output is a
bounded table on stdout, or a CSV file with --csv.`,
	Args: cobra.ExactArgs(2),
	RunE: runSheetsRead,
}

var sheetsAppendCmd = &cobra.Command{
	Use:   "append <spreadsheet> <sheet> <value>...",
	Short: "Append a row after the last row with data",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runSheetsAppend,
}

var sheetsWriteRowCmd = &cobra.Command{
	Use:   "write-row <spreadsheet> <sheet> <row> <value>...",
	Short: "Write a row at a specific position",
	Long:  `Overwrite row <row> (1-based) of the sheet with the given values.`,
	Args:  cobra.MinimumNArgs(4),
	RunE:  runSheetsWriteRow,
}

var sheetsWriteCellCmd = &cobra.Command{
	Use:   "write-cell <spreadsheet> <sheet> <cell> <value>",
	Short: "Write a single cell",
	Args:  cobra.ExactArgs(4),
	RunE:  runSheetsWriteCell,
}

var sheetsWriteRangeCmd = &cobra.Command{
	Use:   "write-range <spreadsheet> <sheet> <range>",
	Short: "Write a block of cells from CSV on stdin",
	Long: `Write a rectangular block of cells starting at <range>. Rows are read
from stdin in CSV format.

Example:
  worklink sheets write-range <id> Sheet1 A1:C3 < data.csv`,
	Args: cobra.ExactArgs(3),
	RunE: runSheetsWriteRange,
}

func init() {
	sheetsReadCmd.Flags().StringVar(&sheetsReadRange, "range", "", "A1-notation range to read (default: whole sheet)")
	sheetsReadCmd.Flags().StringVar(&sheetsReadCSV, "csv", "", "write the data to a CSV file instead of printing")
	sheetsReadCmd.Flags().IntVar(&sheetsMaxRows, "max-rows", 0, "maximum rows to print")

	sheetsCmd.AddCommand(sheetsCreateCmd)
	sheetsCmd.AddCommand(sheetsInfoCmd)
	sheetsCmd.AddCommand(sheetsTabsCmd)
	sheetsCmd.AddCommand(sheetsReadCmd)
	sheetsCmd.AddCommand(sheetsAppendCmd)
	sheetsCmd.AddCommand(sheetsWriteRowCmd)
	sheetsCmd.AddCommand(sheetsWriteCellCmd)
	sheetsCmd.AddCommand(sheetsWriteRangeCmd)
	rootCmd.AddCommand(sheetsCmd)
}

func runSheetsCreate(cmd *cobra.Command, args []string) error {
	svc, err := sheetsAPI(cmd.Context())
	if err != nil {
		return err
	}

	client, url, err := gsheets.Create(cmd.Context(), svc, args[0])
	if err != nil {
		return fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	console.OK("Created spreadsheet %q", args[0])
	cmd.Printf("ID:  %s\n", client.SpreadsheetID())
	cmd.Printf("URL: %s\n", url)
	return nil
}

func runSheetsInfo(cmd *cobra.Command, args []string) error {
	client, err := sheetsClient(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	info, err := client.Info(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet info: %w", err)
	}

	cmd.Printf("Title:    %s\n", info.Title)
	cmd.Printf("ID:       %s\n", info.ID)
	cmd.Printf("URL:      %s\n", info.URL)
	cmd.Printf("Locale:   %s\n", info.Locale)
	cmd.Printf("Timezone: %s\n", info.TimeZone)
	cmd.Printf("Sheets:   %d\n", len(info.Sheets))
	for _, sheet := range info.Sheets {
		cmd.Printf("  %s (%d rows x %d columns)\n", sheet.Name, sheet.Rows, sheet.Columns)
	}
	return nil
}

func runSheetsTabs(cmd *cobra.Command, args []string) error {
	client, err := sheetsClient(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	tabs, err := client.Sheets(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sheets: %w", err)
	}

	for _, tab := range tabs {
		cmd.Printf("%d. %s (id %d, %d rows x %d columns)\n",
			tab.Index+1, tab.Name, tab.ID, tab.Rows, tab.Columns)
	}
	return nil
}

func runSheetsRead(cmd *cobra.Command, args []string) error {
	client, err := sheetsClient(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var data [][]any
	if sheetsReadRange != "" {
		data, err = client.ReadRange(cmd.Context(), args[1], sheetsReadRange)
	} else {
		data, err = client.ReadAll(cmd.Context(), args[1])
	}
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}

	if sheetsReadCSV != "" {
		if err := export.SaveCSV(data, sheetsReadCSV); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		console.OK("Wrote %d rows to %s", len(data), sheetsReadCSV)
		return nil
	}

	export.PrintTable(cmd.OutOrStdout(), data, export.TableOptions{MaxRows: sheetsMaxRows})
	return nil
}

func runSheetsAppend(cmd *cobra.Command, args []string) error {
	client, err := sheetsClient(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	updated, err := client.AppendRow(cmd.Context(), args[1], toRow(args[2:]))
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}

	console.OK("Appended row at %s", updated)
	return nil
}

func runSheetsWriteRow(cmd *cobra.Command, args []string) error {
	rowNumber, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid row number %q", args[2])
	}

	client, err := sheetsClient(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := client.WriteRow(cmd.Context(), args[1], rowNumber, toRow(args[3:])); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	console.OK("Wrote row %d of %s", rowNumber, args[1])
	return nil
}

func runSheetsWriteCell(cmd *cobra.Command, args []string) error {
	client, err := sheetsClient(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := client.WriteCell(cmd.Context(), args[1], args[2], args[3]); err != nil {
		return fmt.Errorf("failed to write cell: %w", err)
	}

	console.OK("Wrote %s!%s", args[1], args[2])
	return nil
}

func runSheetsWriteRange(cmd *cobra.Command, args []string) error {
	records, err := csv.NewReader(cmd.InOrStdin()).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read CSV from stdin: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no data on stdin")
	}

	data := make([][]any, len(records))
	for i, record := range records {
		data[i] = toRow(record)
	}

	client, err := sheetsClient(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cells, err := client.WriteRange(cmd.Context(), args[1], args[2], data)
	if err != nil {
		return fmt.Errorf("failed to write range: %w", err)
	}

	console.OK("Wrote %d cells", cells)
	return nil
}

// toRow converts CLI string values to the any-typed rows the Sheets
// facade takes. Values are sent as strings; the USER_ENTERED input
// option has the server parse numbers and dates the way typing them
// into the UI would.
func toRow(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
