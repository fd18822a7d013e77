// layout.go — Scaled phase geometry for a single resource.
package timeline

import (
	"math"

	"github.com/sitelens/sitelens/internal/types"
)

// MinAxisMs is the smallest time axis a waterfall is drawn against.
const MinAxisMs = 1000.0

// overflowTolerance absorbs float noise when comparing the phase sum to the
// resource's total time.
const overflowTolerance = 1e-6

// Layout is the geometry of one waterfall bar, in percent of the time axis.
type Layout struct {
	Offsets [types.PhaseCount]float64 `json:"offsets"`
	Widths  [types.PhaseCount]float64 `json:"widths"`
}

// End is where the response phase ends.
func (l Layout) End() float64 {
	last := types.PhaseCount - 1
	return math.Min(l.Offsets[last]+l.Widths[last], 100)
}

// CorrectionReason names the kind of clamping applied to an input.
type CorrectionReason string

const (
	ReasonAxisFloor       CorrectionReason = "axis_floor"
	ReasonNegativePhase   CorrectionReason = "negative_phase"
	ReasonPhaseOverflow   CorrectionReason = "phase_overflow"
	ReasonStartBeyondAxis CorrectionReason = "start_beyond_axis"
	ReasonInvalidStart    CorrectionReason = "invalid_start"
)

// Correction records a non-fatal adjustment made while laying out a row.
// Index is the row index, or -1 when the correction applies to the whole waterfall.
type Correction struct {
	Index  int              `json:"index"`
	Name   string           `json:"name,omitempty"`
	Reason CorrectionReason `json:"reason"`
}

// DefaultAxisMax returns the latest EndTimeMs among resources, floored at MinAxisMs.
func DefaultAxisMax(resources []types.ResourceTiming) float64 {
	axis := MinAxisMs
	for _, r := range resources {
		if isFinite(r.EndTimeMs) && r.EndTimeMs > axis {
			axis = r.EndTimeMs
		}
	}
	return axis
}

// LayoutOf lays out a single resource against axisMax. A degenerate axis
// (zero, negative, NaN or infinite) is replaced by MinAxisMs.
func LayoutOf(r types.ResourceTiming, axisMax float64) (Layout, []Correction) {
	var corrections []Correction
	axis, floored := normalizeAxis(axisMax)
	if floored {
		corrections = append(corrections, Correction{Index: -1, Name: r.Name, Reason: ReasonAxisFloor})
	}
	l, more := layout(r, axis, 0)
	return l, append(corrections, more...)
}

// LayoutAll lays out every resource in input order, discarding corrections.
func LayoutAll(resources []types.ResourceTiming, axisMax float64) []Layout {
	axis, _ := normalizeAxis(axisMax)
	out := make([]Layout, len(resources))
	for i, r := range resources {
		out[i], _ = layout(r, axis, i)
	}
	return out
}

// layout assumes axis is already normalized.
func layout(r types.ResourceTiming, axis float64, index int) (Layout, []Correction) {
	var l Layout
	var corrections []Correction
	note := func(reason CorrectionReason) {
		corrections = append(corrections, Correction{Index: index, Name: r.Name, Reason: reason})
	}

	start := r.StartTimeMs
	switch {
	case !isFinite(start) || start < 0:
		note(ReasonInvalidStart)
		start = 0
	case start > axis:
		note(ReasonStartBeyondAxis)
	}

	phases := r.Phases
	negative := false
	sum := 0.0
	for k, d := range phases {
		if math.IsNaN(d) || d < 0 {
			phases[k] = 0
			negative = true
			continue
		}
		sum += d
	}
	if negative {
		note(ReasonNegativePhase)
	}
	if total := r.TotalTimeMs(); sum > total+overflowTolerance*math.Max(1, total) {
		note(ReasonPhaseOverflow)
	}

	offset := clamp(percent(start, axis), 0, 100)
	for k, d := range phases {
		l.Offsets[k] = offset
		l.Widths[k] = clamp(percent(d, axis), 0, 100-offset)
		offset = math.Min(offset+l.Widths[k], 100)
	}
	return l, corrections
}

func normalizeAxis(axisMax float64) (float64, bool) {
	if !isFinite(axisMax) || axisMax <= 0 {
		return MinAxisMs, true
	}
	return axisMax, false
}

// percent scales ms against axis as ms*100/axis; the order keeps round inputs exact.
func percent(ms, axis float64) float64 {
	return ms * 100 / axis
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
