package export

import (
	"fmt"
	"io"
	"strings"
)

const (
	// defaultMaxRows bounds how many data rows a table shows.
	defaultMaxRows = 50

	// defaultMaxCols bounds how many columns a table shows.
	defaultMaxCols = 10

	// cellWidth is the fixed display width of one cell.
	cellWidth = 15

	separatorWidth = 80
)

// TableOptions bounds the rendered table. Zero values use the defaults.
type TableOptions struct {
	MaxRows int
	MaxCols int
}

// PrintTable renders rows as a fixed-width table. The first row is the
// header; long cells are clipped, short rows padded, and output is cut
// off after the row limit with a note of how many rows were omitted.
func PrintTable(w io.Writer, data [][]any, opts TableOptions) {
	if len(data) == 0 {
		fmt.Fprintln(w, "No data to display.")
		return
	}

	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}
	maxCols := opts.MaxCols
	if maxCols <= 0 {
		maxCols = defaultMaxCols
	}

	separator := strings.Repeat("-", separatorWidth)
	fmt.Fprintf(w, "\nDisplaying data (%d rows, %d columns):\n", len(data), len(data[0]))
	fmt.Fprintln(w, separator)

	headers := clipRow(data[0], maxCols)
	fmt.Fprintln(w, formatRow(headers, len(headers)))
	fmt.Fprintln(w, separator)

	rows := data[1:]
	shown := rows
	if len(shown) > maxRows-1 {
		shown = shown[:maxRows-1]
	}
	for _, row := range shown {
		fmt.Fprintln(w, formatRow(clipRow(row, maxCols), len(headers)))
	}

	if len(data) > maxRows {
		fmt.Fprintf(w, "... and %d more rows\n", len(data)-maxRows)
	}
}

func clipRow(row []any, maxCols int) []any {
	if len(row) > maxCols {
		return row[:maxCols]
	}
	return row
}

// formatRow renders cells at fixed width, padding the row out to width
// cells so columns stay aligned under the header.
func formatRow(row []any, width int) string {
	cells := make([]string, width)
	for i := range cells {
		var value string
		if i < len(row) {
			value = cellString(row[i])
		}
		if len(value) > cellWidth {
			value = value[:cellWidth]
		}
		cells[i] = fmt.Sprintf("%-*s", cellWidth, value)
	}
	return strings.Join(cells, " | ")
}
