// summary.go — The summary command: overall score, category grades, issue counts.
package commands

import (
	"github.com/sitelens/sitelens/cmd/sitelens/output"
	"github.com/sitelens/sitelens/internal/report"
	"github.com/sitelens/sitelens/internal/types"
)

var summaryColumns = []string{"category", "score", "grade", "issues"}

// Summary handles: sitelens summary <report.json|->.
func Summary(env Env, args []string) (*output.Result, error) {
	path, err := positional(args, "report path")
	if err != nil {
		return nil, err
	}
	rep, err := LoadReport(env, path)
	if err != nil {
		return nil, err
	}

	s := report.Summarize(rep)
	data := map[string]any{
		"url":           s.URL,
		"overall_score": s.OverallScore,
		"overall_grade": string(s.OverallGrade),
	}
	if s.FormFactor != "" {
		data["form_factor"] = s.FormFactor
	}
	for _, sev := range types.AllSeverities {
		data["issues_"+string(sev)] = s.IssueCounts[sev]
	}

	rows := make([]map[string]any, 0, len(s.Categories))
	for _, e := range s.Categories {
		rows = append(rows, map[string]any{
			"category": e.Label,
			"score":    e.Result.Score,
			"grade":    string(e.Result.Grade),
			"issues":   len(e.Result.Issues),
		})
	}
	return &output.Result{Success: true, Command: "summary", Data: data, Columns: summaryColumns, Table: rows}, nil
}
