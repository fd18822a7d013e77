// human.go — Human-readable output formatter.
// Draws waterfalls as character bars sized to the terminal, and tables as
// aligned columns.
package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/sitelens/sitelens/internal/report"
	"github.com/sitelens/sitelens/internal/timeline"
	"github.com/sitelens/sitelens/internal/types"
)

const (
	// DefaultWidth is used when output is not a terminal.
	DefaultWidth = 100

	nameColumn  = 30
	kindColumn  = 10
	minBarWidth = 10
)

// phaseGlyphs draws DNS, TCP, request and response in that order.
var phaseGlyphs = [types.PhaseCount]rune{'.', '-', '>', '#'}

// HumanFormatter produces human-readable output.
type HumanFormatter struct {
	// Width is the line width in columns; 0 means DefaultWidth.
	Width int
}

// TerminalWidth returns the column count of w when it is a terminal, else DefaultWidth.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultWidth
	}
	fd := int(f.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	cols, _, err := term.GetSize(fd)
	if err != nil || cols <= 0 {
		return DefaultWidth
	}
	return cols
}

// Format writes a human-readable representation of the result.
func (h *HumanFormatter) Format(w io.Writer, result *Result) error {
	var sb strings.Builder

	title := strings.TrimSpace(result.Command + " " + result.Action)
	if result.Success {
		sb.WriteString(fmt.Sprintf("[OK] %s\n", title))
	} else {
		sb.WriteString(fmt.Sprintf("[Error] %s — Failed\n", title))
		if result.Error != "" {
			sb.WriteString(fmt.Sprintf("   Error: %s\n", result.Error))
		}
	}

	keys := make([]string, 0, len(result.Data))
	for k := range result.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("   %s: %s\n", k, formatCell(result.Data[k])))
	}

	switch {
	case result.Waterfall != nil:
		sb.WriteString("\n")
		h.waterfall(&sb, *result.Waterfall)
	case len(result.Table) > 0:
		sb.WriteString("\n")
		if err := table(&sb, result.Columns, result.Table); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (h *HumanFormatter) width() int {
	if h.Width <= 0 {
		return DefaultWidth
	}
	return h.Width
}

// waterfall draws one line per row: name, kind, then the phases as glyphs
// across a bar spanning the axis.
func (h *HumanFormatter) waterfall(sb *strings.Builder, wf timeline.Waterfall) {
	barW := h.width() - nameColumn - kindColumn - 4
	if barW < minBarWidth {
		barW = minBarWidth
	}

	legend := make([]string, 0, types.PhaseCount)
	for _, e := range timeline.Legend() {
		legend = append(legend, fmt.Sprintf("%c %s", phaseGlyphs[e.Phase], e.Label))
	}
	sb.WriteString("Legend: " + strings.Join(legend, "  ") + "\n")

	axisEnd := fmt.Sprintf("%.0fms", wf.AxisMaxMs)
	pad := barW - len("0ms") - len(axisEnd)
	if pad < 1 {
		pad = 1
	}
	sb.WriteString(fmt.Sprintf("%-*s %-*s  0ms%s%s\n", nameColumn, "", kindColumn, "", strings.Repeat(" ", pad), axisEnd))

	for _, row := range wf.Rows {
		sb.WriteString(fmt.Sprintf("%-*s %-*s |%s|\n",
			nameColumn, report.DisplayName(row.Resource.Name),
			kindColumn, row.Resource.Kind,
			Bar(row.Layout, barW)))
	}
}

// Bar renders a layout as width glyphs. Phases with a non-zero width get at
// least one column so short phases stay visible.
func Bar(l timeline.Layout, width int) string {
	cells := []rune(strings.Repeat(" ", width))
	for k := 0; k < types.PhaseCount; k++ {
		if l.Widths[k] <= 0 {
			continue
		}
		c0 := int(math.Round(l.Offsets[k] / 100 * float64(width)))
		c1 := int(math.Round((l.Offsets[k] + l.Widths[k]) / 100 * float64(width)))
		if c1 <= c0 {
			c1 = c0 + 1
		}
		if c0 >= width {
			c0, c1 = width-1, width
		}
		if c1 > width {
			c1 = width
		}
		for i := c0; i < c1; i++ {
			cells[i] = phaseGlyphs[k]
		}
	}
	return string(cells)
}

func table(w io.Writer, columns []string, rows []map[string]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for _, r := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := r[c]; ok {
				cells[i] = formatCell(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
