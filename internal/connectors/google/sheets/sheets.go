// Package sheets wraps the Google Sheets API for reading and writing
// spreadsheet data. Spreadsheet references may be full Google URLs or
// bare IDs; they are resolved through the drive package.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	gerrors "github.com/custodia-labs/worklink/internal/connectors/google"
	"github.com/custodia-labs/worklink/internal/connectors/google/drive"
	"github.com/custodia-labs/worklink/internal/logger"
)

// valueInputOption makes written values parse as if typed by the user, so
// numbers, dates and formulas are interpreted rather than stored as text.
const valueInputOption = "USER_ENTERED"

// SheetInfo describes one sheet (tab) within a spreadsheet.
type SheetInfo struct {
	Name    string
	ID      int64
	Rows    int64
	Columns int64
	Index   int64
}

// Info describes a spreadsheet.
type Info struct {
	ID       string
	Title    string
	URL      string
	Locale   string
	TimeZone string
	Sheets   []SheetInfo
}

// Client operates on a single spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewClient creates a client for the referenced spreadsheet.
// The reference may be a spreadsheet URL or a bare ID.
func NewClient(svc *sheets.Service, reference string) (*Client, error) {
	id, err := drive.ExtractID(reference)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, spreadsheetID: id}, nil
}

// SpreadsheetID returns the resolved spreadsheet ID.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// Create creates a new spreadsheet with the given title and returns a
// client for it along with its web URL.
func Create(ctx context.Context, svc *sheets.Service, title string) (*Client, string, error) {
	created, err := svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create spreadsheet %q: %w", title, gerrors.WrapError(err))
	}

	logger.Debug("sheets: created spreadsheet %s at %s", created.SpreadsheetId, created.SpreadsheetUrl)
	return &Client{svc: svc, spreadsheetID: created.SpreadsheetId}, created.SpreadsheetUrl, nil
}

// Sheets lists the sheets in the spreadsheet in their display order.
func (c *Client) Sheets(ctx context.Context) ([]SheetInfo, error) {
	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", c.spreadsheetID, gerrors.WrapError(err))
	}

	infos := make([]SheetInfo, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		props := sheet.Properties
		if props == nil {
			continue
		}
		info := SheetInfo{
			Name:  props.Title,
			ID:    props.SheetId,
			Index: props.Index,
		}
		if grid := props.GridProperties; grid != nil {
			info.Rows = grid.RowCount
			info.Columns = grid.ColumnCount
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Info returns the spreadsheet's metadata.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", c.spreadsheetID, gerrors.WrapError(err))
	}

	info := &Info{
		ID:  spreadsheet.SpreadsheetId,
		URL: spreadsheet.SpreadsheetUrl,
	}
	if props := spreadsheet.Properties; props != nil {
		info.Title = props.Title
		info.Locale = props.Locale
		info.TimeZone = props.TimeZone
	}
	for _, sheet := range spreadsheet.Sheets {
		props := sheet.Properties
		if props == nil {
			continue
		}
		sheetInfo := SheetInfo{Name: props.Title, ID: props.SheetId, Index: props.Index}
		if grid := props.GridProperties; grid != nil {
			sheetInfo.Rows = grid.RowCount
			sheetInfo.Columns = grid.ColumnCount
		}
		info.Sheets = append(info.Sheets, sheetInfo)
	}
	return info, nil
}

// ReadAll reads every populated cell of the named sheet.
// Trailing empty rows and columns are not included.
func (c *Client) ReadAll(ctx context.Context, sheetName string) ([][]any, error) {
	result, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, gerrors.WrapError(err))
	}
	return result.Values, nil
}

// ReadRange reads the given A1 range (e.g. "A1:D10") from the named sheet.
func (c *Client) ReadRange(ctx context.Context, sheetName, rangeSpec string) ([][]any, error) {
	fullRange := sheetRange(sheetName, rangeSpec)
	result, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, fullRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %q: %w", fullRange, gerrors.WrapError(err))
	}
	return result.Values, nil
}

// AppendRow appends a row after the last populated row of the sheet and
// returns the range that was written.
func (c *Client) AppendRow(ctx context.Context, sheetName string, row []any) (string, error) {
	body := &sheets.ValueRange{Values: [][]any{row}}
	result, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheetRange(sheetName, "A:A"), body).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to append row to sheet %q: %w", sheetName, gerrors.WrapError(err))
	}
	if result.Updates == nil {
		return "", nil
	}
	return result.Updates.UpdatedRange, nil
}

// WriteRow overwrites the given 1-based row with the provided values.
func (c *Client) WriteRow(ctx context.Context, sheetName string, rowNumber int, row []any) error {
	if rowNumber < 1 {
		return fmt.Errorf("row number must be positive, got %d", rowNumber)
	}

	body := &sheets.ValueRange{Values: [][]any{row}}
	fullRange := rowRange(sheetName, rowNumber, len(row))
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fullRange, body).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write row %d of sheet %q: %w", rowNumber, sheetName, gerrors.WrapError(err))
	}
	return nil
}

// WriteCell writes a single value to a cell address like "B2".
func (c *Client) WriteCell(ctx context.Context, sheetName, cellAddress string, value any) error {
	body := &sheets.ValueRange{Values: [][]any{{value}}}
	fullRange := sheetRange(sheetName, cellAddress)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fullRange, body).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write cell %q: %w", fullRange, gerrors.WrapError(err))
	}
	return nil
}

// WriteRange writes a block of values to the given A1 range and returns
// the number of cells updated.
func (c *Client) WriteRange(ctx context.Context, sheetName, rangeSpec string, data [][]any) (int64, error) {
	body := &sheets.ValueRange{Values: data}
	fullRange := sheetRange(sheetName, rangeSpec)
	result, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fullRange, body).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to write range %q: %w", fullRange, gerrors.WrapError(err))
	}
	return result.UpdatedCells, nil
}
