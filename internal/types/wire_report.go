// wire_report.go — Wire decoding for the analysis report payload.
// The analysis engine emits a JSON object keyed by category. Each category is
// {score, grade, metrics, issues, recommendations}. Older engine versions emit
// issues as {type, message, severity} or as bare strings, and scores as floats;
// both are normalized here.
//
// JSON CONVENTION: All fields use snake_case, matching the analysis engine.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// wrapperKeys name the member that holds the payload in an exported report
// ({url, timestamp, overall_score, analysis_data}).
var wrapperKeys = []string{"analysis_data", "analysisData"}

// ============================================
// Issues
// ============================================

type wireIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	// Legacy shape.
	Type    string `json:"type"`
	Message string `json:"message"`
}

// UnmarshalJSON accepts {title, description, severity}, the legacy
// {type, message, severity}, or a bare string used as the title.
func (i *Issue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*i = Issue{Title: s}
		return nil
	}

	var w wireIssue
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return err
	}
	title := w.Title
	if title == "" {
		title = strings.ReplaceAll(w.Type, "_", " ")
	}
	desc := w.Description
	if desc == "" {
		desc = w.Message
	}
	*i = Issue{Title: title, Description: desc, Severity: ParseSeverity(w.Severity)}
	return nil
}

// ============================================
// Recommendations
// ============================================

// recommendationList decodes recommendations that are usually strings but are
// occasionally objects carrying the text under title, message or text.
type recommendationList []string

func (l *recommendationList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Title   string `json:"title"`
			Message string `json:"message"`
			Text    string `json:"text"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		switch {
		case obj.Title != "":
			out = append(out, obj.Title)
		case obj.Message != "":
			out = append(out, obj.Message)
		case obj.Text != "":
			out = append(out, obj.Text)
		}
	}
	*l = out
	return nil
}

// ============================================
// Categories
// ============================================

type wireCategory struct {
	Score           *float64           `json:"score"`
	Grade           string             `json:"grade"`
	Metrics         map[string]any     `json:"metrics"`
	Issues          []Issue            `json:"issues"`
	Recommendations recommendationList `json:"recommendations"`
}

// UnmarshalJSON rounds fractional scores and clamps them to 0-100.
func (c *CategoryResult) UnmarshalJSON(data []byte) error {
	var w wireCategory
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = CategoryResult{
		Score:           normalizeScore(w.Score),
		Grade:           normalizeGrade(w.Grade),
		Metrics:         w.Metrics,
		Issues:          w.Issues,
		Recommendations: []string(w.Recommendations),
	}
	return nil
}

func normalizeScore(score *float64) int {
	if score == nil || math.IsNaN(*score) {
		return 0
	}
	s := math.Round(*score)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return int(s)
}

func normalizeGrade(g string) Grade {
	return Grade(strings.ToUpper(strings.TrimSpace(g)))
}

// ============================================
// Report
// ============================================

// UnmarshalJSON decodes the category-keyed payload. An exported report
// wrapping the payload under analysis_data is unwrapped transparently.
func (r *Report) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}

	for _, key := range wrapperKeys {
		inner, ok := raw[key]
		if !ok || !isJSONObject(inner) {
			continue
		}
		var wrapped Report
		if err := json.Unmarshal(inner, &wrapped); err != nil {
			return err
		}
		if wrapped.URL == "" {
			if err := decodeOptionalString(raw["url"], &wrapped.URL); err != nil {
				return fmt.Errorf("decode report url: %w", err)
			}
		}
		*r = wrapped
		return nil
	}

	out := Report{Categories: make(map[string]CategoryResult)}
	for key, msg := range raw {
		switch key {
		case "url":
			if err := decodeOptionalString(msg, &out.URL); err != nil {
				return fmt.Errorf("decode report url: %w", err)
			}
		case "form_factor":
			if err := decodeOptionalString(msg, &out.FormFactor); err != nil {
				return fmt.Errorf("decode report form_factor: %w", err)
			}
		case "waterfall":
			if !isJSONObject(msg) {
				out.addExtra(key, msg)
				continue
			}
			var wf WaterfallResult
			if err := json.Unmarshal(msg, &wf); err != nil {
				return fmt.Errorf("decode waterfall: %w", err)
			}
			out.Waterfall = &wf
		default:
			if !isCategory(msg) {
				out.addExtra(key, msg)
				continue
			}
			var c CategoryResult
			if err := json.Unmarshal(msg, &c); err != nil {
				return fmt.Errorf("decode category %q: %w", key, err)
			}
			out.Categories[key] = c
		}
	}
	*r = out
	return nil
}

// MarshalJSON re-encodes the report in the category-keyed shape.
func (r Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Categories)+len(r.Extra)+3)
	for k, v := range r.Extra {
		out[k] = v
	}
	for k, v := range r.Categories {
		out[k] = v
	}
	if r.URL != "" {
		out["url"] = r.URL
	}
	if r.FormFactor != "" {
		out["form_factor"] = r.FormFactor
	}
	if r.Waterfall != nil {
		out["waterfall"] = r.Waterfall
	}
	return json.Marshal(out)
}

func (r *Report) addExtra(key string, msg json.RawMessage) {
	if r.Extra == nil {
		r.Extra = make(map[string]json.RawMessage)
	}
	r.Extra[key] = msg
}

// isCategory reports whether msg is an object carrying a score or a grade.
func isCategory(msg json.RawMessage) bool {
	if !isJSONObject(msg) {
		return false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(msg, &probe); err != nil {
		return false
	}
	_, hasScore := probe["score"]
	_, hasGrade := probe["grade"]
	return hasScore || hasGrade
}

func isJSONObject(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeOptionalString decodes a JSON string; a missing member or null leaves dst untouched.
func decodeOptionalString(msg json.RawMessage, dst *string) error {
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, dst)
}
