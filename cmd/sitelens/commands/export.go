// export.go — The export command: pdf, json, csv, har and sarif files.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sitelens/sitelens/cmd/sitelens/output"
	"github.com/sitelens/sitelens/internal/export"
	"github.com/sitelens/sitelens/internal/render"
	"github.com/sitelens/sitelens/internal/timeline"
	"github.com/sitelens/sitelens/internal/types"
	"github.com/sitelens/sitelens/internal/util"
)

// ExportFormats lists the accepted export formats.
var ExportFormats = []string{"pdf", "json", "csv", "har", "sarif"}

// Export handles: sitelens export <format> <report.json> --out path.
func Export(env Env, format string, args []string) (*output.Result, error) {
	format = strings.ToLower(format)
	known := false
	for _, f := range ExportFormats {
		known = known || f == format
	}
	if !known {
		return nil, usagef("unknown export format %q (valid: %s)", format, strings.Join(ExportFormats, ", "))
	}

	out, remaining := parseFlag(args, "--out")
	if out == "" {
		return nil, usagef("--out is required")
	}
	path, err := positional(remaining, "report path")
	if err != nil {
		return nil, err
	}
	rep, err := LoadReport(env, path)
	if err != nil {
		return nil, err
	}

	data := map[string]any{"url": rep.URL}
	var saved export.FileResult
	switch format {
	case "pdf":
		saved, err = exportPDF(env, rep, out, data)
	case "json":
		var buf bytes.Buffer
		if err = export.ReportJSON(&buf, rep, env.now()); err == nil {
			saved, err = export.WriteFile(out, buf.Bytes())
		}
	case "csv":
		var buf bytes.Buffer
		if err = export.ReportCSV(&buf, rep, env.now()); err == nil {
			saved, err = export.WriteFile(out, buf.Bytes())
		}
	case "har":
		saved, err = export.WriteHARFile(rep.Resources(), rep.URL, harBase(env, rep), out)
		data["entries"] = len(rep.Resources())
	case "sarif":
		data["results"] = len(export.IssuesToSARIF(rep).Runs[0].Results)
		saved, err = export.WriteSARIFFile(rep, out)
	}
	if err != nil {
		return nil, err
	}

	data["saved_to"] = saved.SavedTo
	data["file_size_bytes"] = saved.FileSizeBytes
	return &output.Result{Success: true, Command: "export", Action: format, Data: data}, nil
}

func exportPDF(env Env, rep types.Report, out string, data map[string]any) (export.FileResult, error) {
	resources := rep.Resources()
	wf := timeline.Build(resources, env.Config.SortKey(), timeline.DefaultAxisMax(resources))
	logCorrections(env, wf.Corrections)

	surface, err := render.NewSurface(rep, wf, render.Options{WidthPx: env.Config.SurfaceWidthPx, GeneratedAt: env.now()})
	if err != nil {
		return export.FileResult{}, err
	}

	var buf bytes.Buffer
	plan, err := render.WritePDF(&buf, surface, render.PDFOptions{
		PageSize: env.Config.PageSize,
		MarginMm: env.Config.MarginMm,
		Title:    "Website Analysis Report",
	})
	if err != nil {
		return export.FileResult{}, fmt.Errorf("export pdf: %w", err)
	}
	data["pages"] = plan.PageCount()
	return export.WriteFile(out, buf.Bytes())
}

// harBase is the page start time for HAR entries: the report timestamp when
// it carries one, otherwise now.
func harBase(env Env, rep types.Report) time.Time {
	if raw, ok := rep.Extra["timestamp"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if t := util.ParseTimestamp(s); !t.IsZero() {
				return t
			}
		}
	}
	return env.now()
}
