// json.go — JSON output formatter.
// Produces machine-parseable JSON output.
package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter produces JSON output.
type JSONFormatter struct{}

// Format writes a JSON representation of the result.
func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	out := map[string]any{
		"success": result.Success,
		"command": result.Command,
	}
	if result.Action != "" {
		out["action"] = result.Action
	}
	if result.Error != "" {
		out["error"] = result.Error
	}

	// Merge data fields into the output
	for k, v := range result.Data {
		out[k] = v
	}

	switch {
	case result.Waterfall != nil:
		out["waterfall"] = result.Waterfall
	case result.Table != nil:
		out["rows"] = result.Table
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
