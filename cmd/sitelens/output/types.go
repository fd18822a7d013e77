// types.go — Shared types for output formatting.
package output

import (
	"io"

	"github.com/sitelens/sitelens/internal/timeline"
)

// Result represents the outcome of a CLI command execution.
type Result struct {
	Success bool           `json:"success"`
	Command string         `json:"command"`
	Action  string         `json:"action,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	// Table is the tabular payload (waterfall rows, page slices, category
	// scores). Columns fixes the column order for every formatter.
	Columns []string         `json:"-"`
	Table   []map[string]any `json:"-"`
	// Waterfall, when set, is drawn as bars by the human formatter and
	// emitted whole by the JSON formatter.
	Waterfall *timeline.Waterfall `json:"-"`
}

// Formatter is the interface for all output formatters.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}
