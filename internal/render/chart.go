// chart.go — Category score bar chart.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/sitelens/sitelens/internal/report"
)

// ScoreChart renders one bar per category, coloured by grade, on a fixed
// 0-100 axis. It returns nil without error when there are no categories.
func ScoreChart(entries []report.Entry, width, height int) (image.Image, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		c := gradeColor(e.Result.Grade)
		bars = append(bars, chart.Value{
			Label: e.Label,
			Value: float64(e.Result.Score),
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		})
	}

	barWidth := width / (2 * len(entries))
	if barWidth < 8 {
		barWidth = 8
	}
	spacing := width / (4 * len(entries))
	bc := chart.BarChart{
		Title:      "Category Scores",
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 25, Label: "25"}, {Value: 50, Label: "50"}, {Value: 75, Label: "75"}, {Value: 100, Label: "100"}},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render score chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode score chart: %w", err)
	}
	return img, nil
}
