// wire_waterfall.go — Wire types for the waterfall section of the report.
// Defines the JSON fields the analysis engine emits for each resource and
// converts them to ResourceTiming.
//
// JSON CONVENTION: All fields use snake_case, matching the analysis engine.
package types

import (
	"encoding/json"
	"math"
)

// WireResource is the canonical wire format for one waterfall resource.
type WireResource struct {
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	Size         int64    `json:"size"`
	SizeKB       float64  `json:"size_kb,omitempty"`
	StartTime    float64  `json:"start_time"`
	EndTime      *float64 `json:"end_time,omitempty"`
	TotalTime    *float64 `json:"total_time,omitempty"`
	DNSTime      float64  `json:"dns_time"`
	TCPTime      float64  `json:"tcp_time"`
	RequestTime  float64  `json:"request_time"`
	ResponseTime float64  `json:"response_time"`
	Blocked      float64  `json:"blocked,omitempty"`
	Status       int      `json:"status,omitempty"`
	MimeType     string   `json:"mime_type,omitempty"`
}

// ToResourceTiming converts the wire form. A missing end_time is derived from
// total_time, then from the phase sum. Negative sizes read as zero.
func (w WireResource) ToResourceTiming() ResourceTiming {
	r := ResourceTiming{
		Name:        w.Name,
		Kind:        ParseResourceKind(w.Type),
		SizeBytes:   w.Size,
		StartTimeMs: w.StartTime,
		Phases:      [PhaseCount]float64{w.DNSTime, w.TCPTime, w.RequestTime, w.ResponseTime},
		Status:      w.Status,
		MimeType:    w.MimeType,
	}
	if r.SizeBytes < 0 {
		r.SizeBytes = 0
	}
	switch {
	case w.EndTime != nil:
		r.EndTimeMs = *w.EndTime
	case w.TotalTime != nil:
		r.EndTimeMs = w.StartTime + *w.TotalTime
	default:
		r.EndTimeMs = w.StartTime + r.PhaseSumMs()
	}
	return r
}

// WireFromResourceTiming builds the wire form, filling the derived fields
// (size_kb, end_time, total_time) the analysis engine would have emitted.
func WireFromResourceTiming(r ResourceTiming) WireResource {
	end := r.EndTimeMs
	total := r.TotalTimeMs()
	return WireResource{
		Type:         string(r.Kind),
		Name:         r.Name,
		Size:         r.SizeBytes,
		SizeKB:       math.Round(float64(r.SizeBytes)/1024*100) / 100,
		StartTime:    r.StartTimeMs,
		EndTime:      &end,
		TotalTime:    &total,
		DNSTime:      r.Phases[PhaseDNS],
		TCPTime:      r.Phases[PhaseTCP],
		RequestTime:  r.Phases[PhaseRequest],
		ResponseTime: r.Phases[PhaseResponse],
		Status:       r.Status,
		MimeType:     r.MimeType,
	}
}

// UnmarshalJSON decodes a ResourceTiming from its wire form.
func (r *ResourceTiming) UnmarshalJSON(data []byte) error {
	var w WireResource
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = w.ToResourceTiming()
	return nil
}

// MarshalJSON encodes a ResourceTiming in its wire form.
func (r ResourceTiming) MarshalJSON() ([]byte, error) {
	return json.Marshal(WireFromResourceTiming(r))
}

// ============================================
// Waterfall Section
// ============================================

// WireWaterfall is the wire format of report.waterfall.
type WireWaterfall struct {
	Score           *float64           `json:"score,omitempty"`
	Grade           string             `json:"grade,omitempty"`
	Metrics         WaterfallMetrics   `json:"metrics"`
	Waterfall       []ResourceTiming   `json:"waterfall"`
	Issues          []Issue            `json:"issues"`
	Recommendations recommendationList `json:"recommendations"`
}

// UnmarshalJSON decodes the waterfall section.
func (w *WaterfallResult) UnmarshalJSON(data []byte) error {
	var wire WireWaterfall
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*w = WaterfallResult{
		Score:           normalizeScore(wire.Score),
		Grade:           normalizeGrade(wire.Grade),
		Metrics:         wire.Metrics,
		Resources:       wire.Waterfall,
		Issues:          wire.Issues,
		Recommendations: []string(wire.Recommendations),
		Scored:          wire.Score != nil,
	}
	return nil
}

// MarshalJSON encodes the waterfall section; score is omitted when the
// payload never carried one.
func (w WaterfallResult) MarshalJSON() ([]byte, error) {
	wire := WireWaterfall{
		Grade:           string(w.Grade),
		Metrics:         w.Metrics,
		Waterfall:       w.Resources,
		Issues:          w.Issues,
		Recommendations: recommendationList(w.Recommendations),
	}
	if w.Scored {
		score := float64(w.Score)
		wire.Score = &score
	}
	return json.Marshal(wire)
}
