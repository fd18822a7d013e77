// issues.go — Issue ordering, severity counts and display helpers.
package report

import (
	"sort"

	"github.com/sitelens/sitelens/internal/types"
)

// maxDisplayName is the longest resource name shown untruncated.
const maxDisplayName = 30

// SortIssues returns a copy of issues ordered critical, high, medium, low,
// then unknown severities. Issues of equal severity keep their order.
func SortIssues(issues []types.Issue) []types.Issue {
	out := make([]types.Issue, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

// CountBySeverity counts issues per severity. Issues without a known
// severity are not counted.
func CountBySeverity(issues []types.Issue) map[types.Severity]int {
	out := make(map[types.Severity]int, len(types.AllSeverities))
	for _, sev := range types.AllSeverities {
		out[sev] = 0
	}
	for _, i := range issues {
		if _, ok := out[i.Severity]; ok {
			out[i.Severity]++
		}
	}
	return out
}

// AllIssues collects the issues of every entry in order.
func AllIssues(entries []Entry) []types.Issue {
	var out []types.Issue
	for _, e := range entries {
		out = append(out, e.Result.Issues...)
	}
	return out
}

// DisplayName shortens long resource names to 27 characters plus "...".
func DisplayName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxDisplayName {
		return name
	}
	return string(runes[:maxDisplayName-3]) + "..."
}
