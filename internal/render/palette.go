// palette.go — Colours for resource kinds, timing phases and grades.
package render

import (
	"image/color"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sitelens/sitelens/internal/types"
)

var (
	colorBackground = drawing.ColorFromHex("ffffff")
	colorHeader     = drawing.ColorFromHex("1f2937")
	colorText       = drawing.ColorFromHex("111827")
	colorMuted      = drawing.ColorFromHex("6b7280")
	colorOnDark     = drawing.ColorFromHex("f9fafb")
	colorGrid       = drawing.ColorFromHex("e5e7eb")
	colorRowAlt     = drawing.ColorFromHex("f9fafb")
)

var phaseColors = [types.PhaseCount]drawing.Color{
	drawing.ColorFromHex("3b82f6"), // dns
	drawing.ColorFromHex("8b5cf6"), // tcp
	drawing.ColorFromHex("ef4444"), // request
	drawing.ColorFromHex("10b981"), // response
}

var kindColors = map[types.ResourceKind]drawing.Color{
	types.KindDocument:   drawing.ColorFromHex("3b82f6"),
	types.KindStylesheet: drawing.ColorFromHex("8b5cf6"),
	types.KindScript:     drawing.ColorFromHex("ef4444"),
	types.KindImage:      drawing.ColorFromHex("10b981"),
	types.KindFont:       drawing.ColorFromHex("f59e0b"),
	types.KindOther:      drawing.ColorFromHex("6b7280"),
}

var gradeColors = map[types.Grade]drawing.Color{
	types.GradeA: drawing.ColorFromHex("10b981"),
	types.GradeB: drawing.ColorFromHex("3b82f6"),
	types.GradeC: drawing.ColorFromHex("f59e0b"),
	types.GradeD: drawing.ColorFromHex("f97316"),
	types.GradeF: drawing.ColorFromHex("ef4444"),
}

var severityColors = map[types.Severity]drawing.Color{
	types.SeverityCritical: drawing.ColorFromHex("b91c1c"),
	types.SeverityHigh:     drawing.ColorFromHex("ef4444"),
	types.SeverityMedium:   drawing.ColorFromHex("f59e0b"),
	types.SeverityLow:      drawing.ColorFromHex("3b82f6"),
}

// PhaseColor returns the bar colour of a timing phase.
func PhaseColor(p types.Phase) color.Color {
	if p < 0 || int(p) >= types.PhaseCount {
		return colorMuted
	}
	return phaseColors[p]
}

// KindColor returns the badge colour of a resource kind; unknown kinds use the "other" colour.
func KindColor(k types.ResourceKind) color.Color {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return kindColors[types.KindOther]
}

func gradeColor(g types.Grade) drawing.Color {
	if c, ok := gradeColors[g]; ok {
		return c
	}
	return colorMuted
}

func severityColor(s types.Severity) drawing.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return colorMuted
}
