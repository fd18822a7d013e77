// summary.go — One-call summary of a report for outputs and exports.
package report

import (
	"github.com/sitelens/sitelens/internal/types"
)

// Summary is the headline view of a report.
type Summary struct {
	URL          string                 `json:"url,omitempty"`
	FormFactor   string                 `json:"form_factor,omitempty"`
	OverallScore int                    `json:"overall_score"`
	OverallGrade types.Grade            `json:"overall_grade"`
	Categories   []Entry                `json:"categories"`
	IssueCounts  map[types.Severity]int `json:"issue_counts"`
}

// Summarize computes the headline view of r.
func Summarize(r types.Report) Summary {
	entries := Categories(r)
	overall := OverallScore(r)
	return Summary{
		URL:          r.URL,
		FormFactor:   r.FormFactor,
		OverallScore: overall,
		OverallGrade: GradeFor(overall),
		Categories:   entries,
		IssueCounts:  CountBySeverity(AllIssues(entries)),
	}
}
