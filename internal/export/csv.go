// Package export writes tabular data to CSV files and renders it as
// bounded console tables. The row-of-cells shape matches what the sheets
// connector reads, so results can be piped straight through.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/custodia-labs/worklink/internal/logger"
)

// SaveCSV writes rows to a CSV file. The first row is treated as the
// header and written first like any other row. Cells are rendered with
// their default string form.
func SaveCSV(data [][]any, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, row := range data {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", filename, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filename, err)
	}

	logger.Debug("export: wrote %d rows to %s", len(data), filename)
	return nil
}

func cellString(cell any) string {
	if cell == nil {
		return ""
	}
	return fmt.Sprint(cell)
}
