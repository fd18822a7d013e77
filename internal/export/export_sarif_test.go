// export_sarif_test.go — Tests for SARIF export of report issues.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sitelens/sitelens/internal/types"
)

func sarifReport() types.Report {
	return types.Report{
		URL: "https://example.com",
		Categories: map[string]types.CategoryResult{
			"security": {Score: 40, Grade: types.GradeD, Issues: []types.Issue{
				{Title: "Missing CSP", Description: "No Content-Security-Policy header", Severity: types.SeverityMedium},
				{Title: "Mixed content", Severity: types.SeverityCritical},
			}},
			"seo": {Score: 80, Grade: types.GradeB, Issues: []types.Issue{
				{Title: "Missing CSP", Severity: types.SeverityLow},
				{Title: "Missing CSP", Severity: types.SeverityHigh},
			}},
		},
		Waterfall: &types.WaterfallResult{Issues: []types.Issue{{Title: "Too many requests"}}},
	}
}

func TestIssuesToSARIF(t *testing.T) {
	t.Parallel()

	log := IssuesToSARIF(sarifReport())
	if log.Version != sarifSpecVersion || log.Schema != sarifSchemaURL {
		t.Errorf("header = %s %s", log.Version, log.Schema)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "sitelens" {
		t.Errorf("driver = %q", run.Tool.Driver.Name)
	}

	// security: 2 rules, seo: 1 deduplicated rule, waterfall: 1.
	if len(run.Tool.Driver.Rules) != 4 {
		t.Fatalf("expected 4 rules, got %d: %+v", len(run.Tool.Driver.Rules), run.Tool.Driver.Rules)
	}
	if len(run.Results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(run.Results))
	}

	want := []struct {
		ruleID string
		level  string
	}{
		{"security/mixed-content", "error"},
		{"security/missing-csp", "warning"},
		{"seo/missing-csp", "error"},
		{"seo/missing-csp", "note"},
		{"waterfall/too-many-requests", "warning"},
	}
	for i, w := range want {
		got := run.Results[i]
		if got.RuleID != w.ruleID || got.Level != w.level {
			t.Errorf("result[%d] = %s/%s, want %s/%s", i, got.RuleID, got.Level, w.ruleID, w.level)
		}
		if run.Tool.Driver.Rules[got.RuleIndex].ID != got.RuleID {
			t.Errorf("result[%d] ruleIndex points at %q", i, run.Tool.Driver.Rules[got.RuleIndex].ID)
		}
		if got.Locations[0].PhysicalLocation.ArtifactLocation.URI != "https://example.com" {
			t.Errorf("result[%d] location = %+v", i, got.Locations)
		}
	}
	if run.Results[1].Message.Text != "Missing CSP: No Content-Security-Policy header" {
		t.Errorf("message = %q", run.Results[1].Message.Text)
	}
}

func TestIssuesToSARIFEmpty(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(IssuesToSARIF(types.Report{}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded struct {
		Runs []struct {
			Results []any `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Runs[0].Results == nil {
		t.Error("results must encode as [] not null")
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Missing CSP":          "missing-csp",
		"  Render-blocking  CSS!": "render-blocking-css",
		"???":                  "issue",
		"Größe über 1MB":       "größe-über-1mb",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteSARIFFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.sarif")
	if _, err := WriteSARIFFile(sarifReport(), path); err != nil {
		t.Fatalf("WriteSARIFFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}
