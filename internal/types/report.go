// report.go — Analysis report types: categories, grades, issues.
// The report is read-only input; nothing in sitelens mutates a decoded Report.
//
// Wire fields: see wire_report.go
package types

import (
	"encoding/json"
	"sort"
	"strings"
)

// ============================================
// Grades and Severities
// ============================================

// Grade is the letter grade the analysis engine assigns to a category.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Valid reports whether g is one of A, B, C, D, F.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF:
		return true
	}
	return false
}

// Severity ranks an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// AllSeverities lists severities from most to least severe.
var AllSeverities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity lowercases and trims s. Unknown values are kept verbatim so
// they can still be displayed; Rank sorts them after low.
func ParseSeverity(s string) Severity {
	return Severity(strings.ToLower(strings.TrimSpace(s)))
}

// Rank orders severities: critical=0 … low=3, anything else 4.
func (s Severity) Rank() int {
	for i, known := range AllSeverities {
		if s == known {
			return i
		}
	}
	return len(AllSeverities)
}

// ============================================
// Issues and Categories
// ============================================

// Issue is a single finding inside a category.
type Issue struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity,omitempty"`
}

// CategoryResult is one scored section of the report (performance, security, seo, …).
type CategoryResult struct {
	Score           int            `json:"score"`
	Grade           Grade          `json:"grade"`
	Metrics         map[string]any `json:"metrics,omitempty"`
	Issues          []Issue        `json:"issues"`
	Recommendations []string       `json:"recommendations"`
}

// ============================================
// Report
// ============================================

// Report is the full analysis payload keyed by category.
type Report struct {
	URL        string
	FormFactor string
	Categories map[string]CategoryResult
	Waterfall  *WaterfallResult
	// Extra keeps top-level members that are neither categories nor known
	// fields, so re-encoding a report does not lose them.
	Extra map[string]json.RawMessage
}

// Category returns the named category and whether it is present.
func (r Report) Category(name string) (CategoryResult, bool) {
	c, ok := r.Categories[name]
	return c, ok
}

// CategoryKeys returns the category keys in lexical order.
func (r Report) CategoryKeys() []string {
	keys := make([]string, 0, len(r.Categories))
	for k := range r.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resources returns the waterfall resources, or nil when the report has no waterfall.
func (r Report) Resources() []ResourceTiming {
	if r.Waterfall == nil {
		return nil
	}
	return r.Waterfall.Resources
}
