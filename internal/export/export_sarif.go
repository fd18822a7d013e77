// export_sarif.go — SARIF 2.1.0 export of report issues.
// Converts every category issue into the Static Analysis Results Interchange
// Format so findings can be uploaded to GitHub Code Scanning and other
// SARIF-consuming tools.
// Design: one rule per (category, issue title); one result per issue, located
// at the analysed URL.
//
// JSON CONVENTION: SARIF 2.1.0 fields use camelCase (OASIS schema).
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/sitelens/sitelens/internal/report"
	"github.com/sitelens/sitelens/internal/types"
)

// version is set at build time via -ldflags "-X ...internal/export.version=..."
// Fallback used for `go run` (no ldflags).
var version = "dev"

// SARIF 2.1.0 schema constants
const (
	sarifSpecVersion = "2.1.0"
	sarifSchemaURL   = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
)

// ============================================
// SARIF 2.1.0 Types
// ============================================

// SARIFLog is the top-level SARIF 2.1.0 object.
type SARIFLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the tool driver (primary component).
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"` // SARIF 2.1.0
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a single analysis rule.
type SARIFRule struct {
	ID               string               `json:"id"`
	ShortDescription SARIFMessage         `json:"shortDescription"` // SARIF 2.1.0
	FullDescription  SARIFMessage         `json:"fullDescription"`  // SARIF 2.1.0
	Properties       *SARIFRuleProperties `json:"properties,omitempty"`
}

// SARIFRuleProperties holds additional rule metadata.
type SARIFRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

// SARIFResult represents a single analysis finding.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`    // SARIF 2.1.0
	RuleIndex int             `json:"ruleIndex"` // SARIF 2.1.0
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage is a simple text message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation represents a finding location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"` // SARIF 2.1.0
}

// SARIFPhysicalLocation describes the physical location of a finding.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"` // SARIF 2.1.0
}

// SARIFArtifactLocation identifies the analysed page.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// ============================================
// Conversion
// ============================================

// IssuesToSARIF converts every issue in r to a SARIF result. Categories are
// visited in display order and issues by descending severity.
func IssuesToSARIF(r types.Report) *SARIFLog {
	log := &SARIFLog{
		Schema:  sarifSchemaURL,
		Version: sarifSpecVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:           "sitelens",
					Version:        version,
					InformationURI: "https://github.com/sitelens/sitelens",
					Rules:          []SARIFRule{},
				},
			},
			Results: []SARIFResult{},
		}},
	}

	run := &log.Runs[0]
	ruleIndices := make(map[string]int)
	for _, e := range issueSections(r) {
		for _, issue := range report.SortIssues(e.Result.Issues) {
			idx := ensureRule(run, ruleIndices, e.Key, issue)
			run.Results = append(run.Results, issueToResult(run.Tool.Driver.Rules[idx].ID, idx, issue, r.URL))
		}
	}
	return log
}

// WriteSARIFFile writes the SARIF log for r to path.
func WriteSARIFFile(r types.Report, path string) (FileResult, error) {
	data, err := json.MarshalIndent(IssuesToSARIF(r), "", "  ")
	if err != nil {
		return FileResult{}, fmt.Errorf("marshal SARIF: %w", err)
	}
	return WriteFile(path, data)
}

// issueSections lists the scored categories plus an unscored waterfall,
// whose issues would otherwise be dropped.
func issueSections(r types.Report) []report.Entry {
	entries := report.Categories(r)
	if r.Waterfall != nil && !r.Waterfall.Scored && len(r.Waterfall.Issues) > 0 {
		entries = append(entries, report.Entry{
			Key:    report.WaterfallKey,
			Label:  report.Label(report.WaterfallKey),
			Result: types.CategoryResult{Issues: r.Waterfall.Issues},
		})
	}
	return entries
}

// ensureRule adds a rule to the driver rules if not already present, returns the index.
func ensureRule(run *SARIFRun, indices map[string]int, category string, issue types.Issue) int {
	id := category + "/" + slug(issue.Title)
	if idx, exists := indices[id]; exists {
		return idx
	}

	full := issue.Description
	if full == "" {
		full = issue.Title
	}
	rule := SARIFRule{
		ID:               id,
		ShortDescription: SARIFMessage{Text: issue.Title},
		FullDescription:  SARIFMessage{Text: full},
		Properties:       &SARIFRuleProperties{Tags: []string{category}},
	}

	idx := len(run.Tool.Driver.Rules)
	run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
	indices[id] = idx
	return idx
}

func issueToResult(ruleID string, ruleIndex int, issue types.Issue, pageURL string) SARIFResult {
	msg := issue.Title
	if issue.Description != "" {
		msg = issue.Title + ": " + issue.Description
	}
	return SARIFResult{
		RuleID:    ruleID,
		RuleIndex: ruleIndex,
		Level:     severityToLevel(issue.Severity),
		Message:   SARIFMessage{Text: msg},
		Locations: []SARIFLocation{{
			PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: pageURL},
			},
		}},
	}
}

// severityToLevel maps issue severities to SARIF levels.
func severityToLevel(s types.Severity) string {
	switch s {
	case types.SeverityCritical, types.SeverityHigh:
		return "error"
	case types.SeverityMedium:
		return "warning"
	case types.SeverityLow:
		return "note"
	default:
		return "warning"
	}
}

// slug lowercases s and joins its alphanumeric runs with '-'.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "issue"
	}
	return b.String()
}
