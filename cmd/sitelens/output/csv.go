// csv.go — CSV output formatter.
// Produces CSV output for spreadsheets and piping.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// CSVFormatter produces CSV output.
type CSVFormatter struct{}

// Format writes the result table as CSV (header + one row per table row).
// A result without a table is written as a single row of its data fields.
func (f *CSVFormatter) Format(w io.Writer, result *Result) error {
	columns, rows := result.Columns, result.Table
	if len(columns) == 0 {
		columns, rows = dataRow(result)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, r := range rows {
		record := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := r[c]; ok {
				record[i] = formatCell(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// dataRow flattens success, command, action, error and the sorted data keys
// into one row.
func dataRow(result *Result) ([]string, []map[string]any) {
	keys := make([]string, 0, len(result.Data))
	for k := range result.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := append([]string{"success", "command", "action", "error"}, keys...)
	row := map[string]any{
		"success": result.Success,
		"command": result.Command,
		"action":  result.Action,
		"error":   result.Error,
	}
	for k, v := range result.Data {
		row[k] = v
	}
	return columns, []map[string]any{row}
}

func formatCell(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

// GetFormatter returns the appropriate formatter for the given format string.
// The human formatter sizes itself to the terminal behind out.
func GetFormatter(format string, out io.Writer) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	case "csv":
		return &CSVFormatter{}
	default:
		return &HumanFormatter{Width: TerminalWidth(out)}
	}
}
