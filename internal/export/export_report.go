// export_report.go — JSON and CSV exports of a whole report.
// JSON wraps the payload as {export_id, url, timestamp, overall_score,
// analysis_data}; CSV lists category scores followed by the report metadata.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sitelens/sitelens/internal/report"
	"github.com/sitelens/sitelens/internal/types"
	"github.com/sitelens/sitelens/internal/util"
)

// ReportExport is the exported JSON document.
type ReportExport struct {
	ExportID     string       `json:"export_id"`
	URL          string       `json:"url"`
	Timestamp    string       `json:"timestamp"`
	OverallScore int          `json:"overall_score"`
	AnalysisData types.Report `json:"analysis_data"`
}

// NewReportExport wraps r for export at time now with a fresh export ID.
func NewReportExport(r types.Report, now time.Time) ReportExport {
	return ReportExport{
		ExportID:     uuid.NewString(),
		URL:          r.URL,
		Timestamp:    util.FormatTimestamp(now),
		OverallScore: report.OverallScore(r),
		AnalysisData: r,
	}
}

// ReportJSON writes the JSON export of r, indented.
func ReportJSON(w io.Writer, r types.Report, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReportExport(r, now)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// ReportCSV writes one Category,Score,Grade row per scored section, a blank
// line, then the URL, timestamp and overall score.
func ReportCSV(w io.Writer, r types.Report, now time.Time) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"Category", "Score", "Grade"}}
	for _, e := range report.Categories(r) {
		rows = append(rows, []string{e.Label, strconv.Itoa(e.Result.Score), string(e.Result.Grade)})
	}
	rows = append(rows,
		[]string{""},
		[]string{"URL", r.URL},
		[]string{"Timestamp", util.FormatTimestamp(now)},
		[]string{"Overall Score", strconv.Itoa(report.OverallScore(r)) + "%"},
	)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
