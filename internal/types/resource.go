// resource.go — Resource timing types for the waterfall.
// A ResourceTiming is one network resource load, split into four contiguous
// phases that start at StartTimeMs in the fixed order dns → tcp → request → response.
//
// Wire fields: see WireResource in wire_waterfall.go
package types

import (
	"sort"
	"strings"
)

// ============================================
// Resource Kinds
// ============================================

// ResourceKind classifies a resource by what the page loaded it as.
type ResourceKind string

const (
	KindDocument   ResourceKind = "document"
	KindStylesheet ResourceKind = "stylesheet"
	KindScript     ResourceKind = "script"
	KindImage      ResourceKind = "image"
	KindFont       ResourceKind = "font"
	KindOther      ResourceKind = "other"
)

// AllKinds lists every resource kind in display order.
var AllKinds = []ResourceKind{KindDocument, KindStylesheet, KindScript, KindImage, KindFont, KindOther}

// ParseResourceKind maps a wire value to a ResourceKind.
// Unknown or empty values collapse to KindOther.
func ParseResourceKind(s string) ResourceKind {
	switch ResourceKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDocument:
		return KindDocument
	case KindStylesheet:
		return KindStylesheet
	case KindScript:
		return KindScript
	case KindImage:
		return KindImage
	case KindFont:
		return KindFont
	default:
		return KindOther
	}
}

// ============================================
// Phases
// ============================================

// Phase indexes the four timed sub-intervals of a resource load.
type Phase int

const (
	PhaseDNS Phase = iota
	PhaseTCP
	PhaseRequest
	PhaseResponse
)

// PhaseCount is the number of phases in a ResourceTiming.
const PhaseCount = 4

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDNS:
		return "dns"
	case PhaseTCP:
		return "tcp"
	case PhaseRequest:
		return "request"
	case PhaseResponse:
		return "response"
	default:
		return "unknown"
	}
}

// ============================================
// Resource Timing
// ============================================

// ResourceTiming is one network resource load on the page timeline.
type ResourceTiming struct {
	Name        string
	Kind        ResourceKind
	SizeBytes   int64
	StartTimeMs float64
	EndTimeMs   float64
	// Phases holds dns, tcp, request and response durations in that order.
	// Their sum may be less than TotalTimeMs when phases were not measured.
	Phases   [PhaseCount]float64
	Status   int
	MimeType string
}

// TotalTimeMs is the full load interval. Inverted intervals report zero.
func (r ResourceTiming) TotalTimeMs() float64 {
	if r.EndTimeMs < r.StartTimeMs {
		return 0
	}
	return r.EndTimeMs - r.StartTimeMs
}

// PhaseSumMs is the measured portion of the load interval.
func (r ResourceTiming) PhaseSumMs() float64 {
	sum := 0.0
	for _, d := range r.Phases {
		sum += d
	}
	return sum
}

// ============================================
// Aggregates
// ============================================

// TypeSummary is the per-kind aggregate shown under the waterfall.
type TypeSummary struct {
	Count  int     `json:"count"`
	Size   int64   `json:"size"`
	TimeMs float64 `json:"time"`
}

// WaterfallMetrics holds the aggregate metrics the analysis engine computes for the waterfall.
type WaterfallMetrics struct {
	TotalRequests      int                          `json:"total_requests"`
	TotalSizeKB        float64                      `json:"total_size_kb"`
	TotalTimeMs        float64                      `json:"total_time_ms"`
	PageLoadTimeMs     float64                      `json:"page_load_time_ms"`
	CriticalPathTimeMs float64                      `json:"critical_path_time"`
	ByType             map[ResourceKind]TypeSummary `json:"by_type,omitempty"`
}

// SortedKinds returns the kinds present in ByType, in AllKinds order.
func (m WaterfallMetrics) SortedKinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(m.ByType))
	for k := range m.ByType {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		ri, rj := kindRank(kinds[i]), kindRank(kinds[j])
		if ri != rj {
			return ri < rj
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

func kindRank(k ResourceKind) int {
	for i, known := range AllKinds {
		if k == known {
			return i
		}
	}
	return len(AllKinds)
}

// WaterfallResult is the waterfall section of the report.
type WaterfallResult struct {
	Score           int
	Grade           Grade
	Metrics         WaterfallMetrics
	Resources       []ResourceTiming
	Issues          []Issue
	Recommendations []string
	// Scored is true when the payload carried a score for the waterfall.
	Scored bool
}
