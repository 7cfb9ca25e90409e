package sheets

import "fmt"

// columnName converts a 1-based column number to its A1 letter form.
// Columns past Z continue as AA, AB and so on.
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}

// rowRange builds the A1 range covering width cells of the given row.
func rowRange(sheetName string, row, width int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheetName, row, columnName(width), row)
}

// sheetRange qualifies a range spec with its sheet name.
func sheetRange(sheetName, rangeSpec string) string {
	return fmt.Sprintf("%s!%s", sheetName, rangeSpec)
}
