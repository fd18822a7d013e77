// waterfall.go — The waterfall command: sort and lay out a report's resources.
package commands

import (
	"github.com/sitelens/sitelens/cmd/sitelens/output"
	"github.com/sitelens/sitelens/internal/timeline"
)

// waterfallColumns is the CSV and table layout of one row.
var waterfallColumns = []string{
	"name", "type", "size_bytes", "start_ms", "end_ms", "total_ms",
	"dns_offset", "dns_width", "tcp_offset", "tcp_width",
	"request_offset", "request_width", "response_offset", "response_width",
}

// Waterfall handles: sitelens waterfall <report.json|file.har|-> [--axis-max ms].
func Waterfall(env Env, args []string) (*output.Result, error) {
	axis, hasAxis, remaining, err := parseFlagFloat(args, "--axis-max")
	if err != nil {
		return nil, err
	}
	path, err := positional(remaining, "report path")
	if err != nil {
		return nil, err
	}

	rep, err := LoadReport(env, path)
	if err != nil {
		return nil, err
	}
	resources := rep.Resources()
	if !hasAxis {
		axis = timeline.DefaultAxisMax(resources)
	}

	wf := timeline.Build(resources, env.Config.SortKey(), axis)
	logCorrections(env, wf.Corrections)

	rows := make([]map[string]any, 0, len(wf.Rows))
	for _, row := range wf.Rows {
		r, l := row.Resource, row.Layout
		rows = append(rows, map[string]any{
			"name":            r.Name,
			"type":            string(r.Kind),
			"size_bytes":      r.SizeBytes,
			"start_ms":        r.StartTimeMs,
			"end_ms":          r.EndTimeMs,
			"total_ms":        r.TotalTimeMs(),
			"dns_offset":      l.Offsets[0],
			"dns_width":       l.Widths[0],
			"tcp_offset":      l.Offsets[1],
			"tcp_width":       l.Widths[1],
			"request_offset":  l.Offsets[2],
			"request_width":   l.Widths[2],
			"response_offset": l.Offsets[3],
			"response_width":  l.Widths[3],
		})
	}

	return &output.Result{
		Success: true,
		Command: "waterfall",
		Data: map[string]any{
			"url":         rep.URL,
			"resources":   len(wf.Rows),
			"axis_max_ms": wf.AxisMaxMs,
			"sort":        string(wf.SortKey),
			"corrections": len(wf.Corrections),
		},
		Columns:   waterfallColumns,
		Table:     rows,
		Waterfall: &wf,
	}, nil
}
