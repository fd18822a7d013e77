// waterfall.go — Sorted, laid-out waterfall rows and type aggregates.
package timeline

import (
	"github.com/sitelens/sitelens/internal/types"
)

// Row is one resource and its bar geometry.
type Row struct {
	Resource types.ResourceTiming `json:"resource"`
	Layout   Layout               `json:"layout"`
}

// Waterfall is the render-ready result of Build.
type Waterfall struct {
	AxisMaxMs   float64      `json:"axis_max_ms"`
	SortKey     SortKey      `json:"sort_key"`
	Rows        []Row        `json:"rows"`
	Corrections []Correction `json:"corrections,omitempty"`
}

// Build sorts resources by key and lays out each row against axisMax.
// Correction indexes refer to positions in Rows.
func Build(resources []types.ResourceTiming, key SortKey, axisMax float64) Waterfall {
	axis, floored := normalizeAxis(axisMax)
	w := Waterfall{
		AxisMaxMs: axis,
		SortKey:   key,
		Rows:      make([]Row, 0, len(resources)),
	}
	if !w.SortKey.valid() {
		w.SortKey = SortByStartTime
	}
	if floored {
		w.Corrections = append(w.Corrections, Correction{Index: -1, Reason: ReasonAxisFloor})
	}

	for i, r := range Sort(resources, w.SortKey) {
		l, corrections := layout(r, axis, i)
		w.Rows = append(w.Rows, Row{Resource: r, Layout: l})
		w.Corrections = append(w.Corrections, corrections...)
	}
	return w
}

// Layouts returns the row layouts in row order.
func (w Waterfall) Layouts() []Layout {
	out := make([]Layout, len(w.Rows))
	for i, row := range w.Rows {
		out[i] = row.Layout
	}
	return out
}

// SummarizeByType aggregates count, size and total time per resource kind.
// Used when the payload does not carry a by_type aggregate.
func SummarizeByType(resources []types.ResourceTiming) map[types.ResourceKind]types.TypeSummary {
	out := make(map[types.ResourceKind]types.TypeSummary)
	for _, r := range resources {
		s := out[r.Kind]
		s.Count++
		s.Size += r.SizeBytes
		s.TimeMs += r.TotalTimeMs()
		out[r.Kind] = s
	}
	return out
}

// LegendEntry labels one phase for display.
type LegendEntry struct {
	Phase types.Phase `json:"-"`
	Key   string      `json:"phase"`
	Label string      `json:"label"`
}

// Legend returns the four phases in draw order.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Phase: types.PhaseDNS, Key: types.PhaseDNS.String(), Label: "DNS Lookup"},
		{Phase: types.PhaseTCP, Key: types.PhaseTCP.String(), Label: "TCP Connection"},
		{Phase: types.PhaseRequest, Key: types.PhaseRequest.String(), Label: "Request Send"},
		{Phase: types.PhaseResponse, Key: types.PhaseResponse.String(), Label: "Response Download"},
	}
}
