// import.go — The import command: HAR captures into report payloads.
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sitelens/sitelens/cmd/sitelens/output"
	"github.com/sitelens/sitelens/internal/export"
	"github.com/sitelens/sitelens/internal/types"
)

// Import handles: sitelens import har <file.har|-> [--out report.json].
// Without --out the report JSON is written to stdout and no result is
// formatted.
func Import(env Env, kind string, args []string) (*output.Result, error) {
	if strings.ToLower(kind) != "har" {
		return nil, usagef("unknown import source %q (valid: har)", kind)
	}
	out, remaining := parseFlag(args, "--out")
	path, err := positional(remaining, "HAR path")
	if err != nil {
		return nil, err
	}

	rc, err := openInput(env, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only
	h, err := export.ParseHAR(rc)
	if err != nil {
		return nil, err
	}

	wf := export.WaterfallFromHAR(h)
	rep := types.Report{URL: export.PageURL(h), Waterfall: &wf}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	if out == "" {
		_, err := env.Stdout.Write(data)
		return nil, err
	}
	saved, err := export.WriteFile(out, data)
	if err != nil {
		return nil, err
	}
	return &output.Result{
		Success: true,
		Command: "import",
		Action:  "har",
		Data: map[string]any{
			"url":             rep.URL,
			"resources":       len(wf.Resources),
			"total_size_kb":   wf.Metrics.TotalSizeKB,
			"saved_to":        saved.SavedTo,
			"file_size_bytes": saved.FileSizeBytes,
		},
	}, nil
}
