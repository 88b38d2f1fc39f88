package excel

// SheetName is the worksheet every export writes and every read inspects
const SheetName = "Sheet1"

// RawRowData represents one sheet row as header → cell text
type RawRowData map[string]string

// ExcelData represents a read-back sheet
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Column returns the cell text of header for every row, in row order
func (d *ExcelData) Column(header string) []string {
	out := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		out = append(out, row[header])
	}
	return out
}
