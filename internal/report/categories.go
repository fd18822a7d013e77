// categories.go — Canonical category order, display labels and the overall score.
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/sitelens/sitelens/internal/types"
)

// WaterfallKey is the report member holding the resource waterfall.
const WaterfallKey = "waterfall"

// CoreCategories are the categories every full analysis carries, in display order.
var CoreCategories = []string{
	"performance",
	"security",
	"seo",
	"coding_standards",
	"user_friendliness",
	"user_behavior",
	"mobile_optimization",
	"accessibility",
	"advanced_metrics",
}

var labels = map[string]string{
	"performance":         "Performance",
	"security":            "Security",
	"seo":                 "SEO",
	"coding_standards":    "Code Standards",
	"user_friendliness":   "User-Friendliness",
	"user_behavior":       "User Behavior",
	"mobile_optimization": "Mobile Optimization",
	"accessibility":       "Accessibility",
	"advanced_metrics":    "Advanced Metrics",
	"core_web_vitals":     "Core Web Vitals",
	"device_simulation":   "Device Simulation",
	"multi_location":      "Multi-Location",
	WaterfallKey:          "Waterfall",
}

// Label returns the display label for a category key. Unknown keys are
// title-cased with underscores as spaces.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Entry is one scored category in display order.
type Entry struct {
	Key    string               `json:"key"`
	Label  string               `json:"label"`
	Result types.CategoryResult `json:"result"`
}

// Categories lists the scored sections of r: the core categories in canonical
// order, then any other category (and a scored waterfall) alphabetically.
// Missing grades are filled in from the score.
func Categories(r types.Report) []Entry {
	present := make(map[string]types.CategoryResult, len(r.Categories)+1)
	for k, c := range r.Categories {
		present[k] = c
	}
	if r.Waterfall != nil && r.Waterfall.Scored {
		present[WaterfallKey] = types.CategoryResult{
			Score:           r.Waterfall.Score,
			Grade:           r.Waterfall.Grade,
			Issues:          r.Waterfall.Issues,
			Recommendations: r.Waterfall.Recommendations,
		}
	}

	out := make([]Entry, 0, len(present))
	add := func(key string) {
		c := present[key]
		if !c.Grade.Valid() {
			c.Grade = GradeFor(c.Score)
		}
		out = append(out, Entry{Key: key, Label: Label(key), Result: c})
		delete(present, key)
	}

	for _, key := range CoreCategories {
		if _, ok := present[key]; ok {
			add(key)
		}
	}
	rest := make([]string, 0, len(present))
	for key := range present {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}
	return out
}

// OverallScore is the rounded mean score of the scored sections of r, or 0
// when there are none.
func OverallScore(r types.Report) int {
	entries := Categories(r)
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Result.Score
	}
	return int(math.Round(float64(sum) / float64(len(entries))))
}

// GradeFor maps a 0-100 score to a letter grade.
func GradeFor(score int) types.Grade {
	switch {
	case score >= 85:
		return types.GradeA
	case score >= 70:
		return types.GradeB
	case score >= 55:
		return types.GradeC
	case score >= 40:
		return types.GradeD
	default:
		return types.GradeF
	}
}
