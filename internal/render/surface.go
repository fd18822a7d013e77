// surface.go — One tall raster of the whole report.
// Sections are drawn top to bottom: header, overall score, category table and
// chart, resource waterfall with legend, by-type summary, then issues and
// recommendations per category.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/sitelens/sitelens/internal/report"
	"github.com/sitelens/sitelens/internal/timeline"
	"github.com/sitelens/sitelens/internal/types"
)

const (
	// DefaultWidthPx is the surface width used when Options.WidthPx is zero.
	DefaultWidthPx = 1200
	// MinWidthPx is the narrowest surface that still fits a waterfall row.
	MinWidthPx = 320
	// MaxSurfacePixels bounds the raster (width x height); 64 Mpx is 256 MiB of RGBA.
	MaxSurfacePixels = 64 << 20

	padding     = 24
	lineHeight  = 18
	rowHeight   = 18
	barInset    = 4
	badgeSize   = 8
	chartHeight = 320
	sectionGap  = 16
)

// ErrSurfaceTooNarrow is returned for a requested width below MinWidthPx.
var ErrSurfaceTooNarrow = errors.New("surface width below minimum")

// ErrSurfaceTooLarge is returned when the composed report would exceed MaxSurfacePixels.
var ErrSurfaceTooLarge = errors.New("surface exceeds maximum size")

var face = basicfont.Face7x13

// Options controls surface composition.
type Options struct {
	WidthPx     int
	GeneratedAt time.Time
	// NoChart skips the category score chart.
	NoChart bool
}

// NewSurface rasters r and its laid-out waterfall onto one image whose width
// is opts.WidthPx and whose height fits every section.
func NewSurface(r types.Report, w timeline.Waterfall, opts Options) (*image.RGBA, error) {
	width := opts.WidthPx
	if width == 0 {
		width = DefaultWidthPx
	}
	if width < MinWidthPx {
		return nil, fmt.Errorf("%w: %d < %d", ErrSurfaceTooNarrow, width, MinWidthPx)
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	doc := document{report: r, summary: report.Summarize(r), waterfall: w, opts: opts}
	if !opts.NoChart {
		img, err := ScoreChart(doc.summary.Categories, width-2*padding, chartHeight)
		if err != nil {
			return nil, err
		}
		doc.chart = img
	}

	measure := &painter{width: width}
	doc.compose(measure)
	if int64(width)*int64(measure.y) > MaxSurfacePixels {
		return nil, fmt.Errorf("%w: %dx%d px (limit %d px)", ErrSurfaceTooLarge, width, measure.y, MaxSurfacePixels)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, measure.y))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	doc.compose(&painter{width: width, img: img})
	return img, nil
}

// ============================================
// Painter
// ============================================

// painter advances a cursor down the surface. With a nil img it only
// measures, so composing twice yields the exact height before drawing.
type painter struct {
	img   *image.RGBA
	width int
	y     int
}

func (p *painter) advance(n int) { p.y += n }

func (p *painter) fill(r image.Rectangle, c color.Color) {
	if p.img == nil || r.Empty() {
		return
	}
	draw.Draw(p.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// text draws s with its top at the cursor, starting at x. It does not advance.
func (p *painter) text(x int, s string, c color.Color) {
	if p.img == nil {
		return
	}
	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, p.y+face.Metrics().Ascent.Ceil()+2),
	}
	d.DrawString(s)
}

func (p *painter) line(s string, c color.Color) {
	p.text(padding, s, c)
	p.advance(lineHeight)
}

// wrapped draws s wrapped to the content width, indented by indent pixels.
func (p *painter) wrapped(indent int, s string, c color.Color) {
	for _, l := range wrap(s, (p.width-2*padding-indent)/charWidth()) {
		p.text(padding+indent, l, c)
		p.advance(lineHeight)
	}
}

func (p *painter) heading(s string) {
	p.advance(sectionGap)
	p.fill(image.Rect(padding, p.y+lineHeight, p.width-padding, p.y+lineHeight+1), colorGrid)
	p.line(s, colorText)
	p.advance(4)
}

func (p *painter) picture(src image.Image) {
	b := src.Bounds()
	if p.img != nil {
		dst := image.Rect(padding, p.y, padding+b.Dx(), p.y+b.Dy())
		draw.Draw(p.img, dst, src, b.Min, draw.Over)
	}
	p.advance(b.Dy())
}

func charWidth() int {
	w := font.MeasureString(face, "M").Ceil()
	if w <= 0 {
		return 7
	}
	return w
}

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// wrap splits s into lines of at most limit characters, breaking on spaces
// and hard-splitting longer words.
func wrap(s string, limit int) []string {
	if limit < 1 {
		limit = 1
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > limit {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:limit]))
			w = w[limit:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= limit:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// ============================================
// Sections
// ============================================

type document struct {
	report    types.Report
	summary   report.Summary
	waterfall timeline.Waterfall
	chart     image.Image
	opts      Options
}

func (d *document) compose(p *painter) {
	d.header(p)
	d.categories(p)
	d.waterfallSection(p)
	d.byType(p)
	d.issues(p)
	p.advance(padding)
}

func (d *document) header(p *painter) {
	p.fill(image.Rect(0, 0, p.width, 3*lineHeight), colorHeader)
	p.advance(lineHeight)
	p.text(padding, "Website Analysis Report", colorOnDark)
	p.advance(2 * lineHeight)

	p.advance(8)
	if d.summary.URL != "" {
		p.wrapped(0, "URL: "+d.summary.URL, colorText)
	}
	if d.summary.FormFactor != "" {
		p.line("Form factor: "+d.summary.FormFactor, colorMuted)
	}
	p.line("Generated: "+d.opts.GeneratedAt.Format("January 2, 2006 at 15:04 MST"), colorMuted)

	p.advance(8)
	overall := fmt.Sprintf("Overall Score: %d%% (%s)", d.summary.OverallScore, d.summary.OverallGrade)
	p.fill(image.Rect(padding, p.y+3, padding+badgeSize+4, p.y+badgeSize+7), gradeColor(d.summary.OverallGrade))
	p.text(padding+badgeSize+12, overall, colorText)
	p.advance(lineHeight)
}

func (d *document) categories(p *painter) {
	if len(d.summary.Categories) == 0 {
		return
	}
	p.heading("Category Scores")

	scoreX := padding + 24*charWidth()
	gradeX := scoreX + 8*charWidth()
	p.text(padding, "Category", colorMuted)
	p.text(scoreX, "Score", colorMuted)
	p.text(gradeX, "Grade", colorMuted)
	p.advance(lineHeight)

	for i, e := range d.summary.Categories {
		if i%2 == 1 {
			p.fill(image.Rect(padding, p.y, p.width-padding, p.y+lineHeight), colorRowAlt)
		}
		p.text(padding, e.Label, colorText)
		p.text(scoreX, fmt.Sprintf("%d%%", e.Result.Score), colorText)
		p.fill(image.Rect(gradeX, p.y+4, gradeX+badgeSize, p.y+4+badgeSize), gradeColor(e.Result.Grade))
		p.text(gradeX+badgeSize+6, string(e.Result.Grade), colorText)
		p.advance(lineHeight)
	}

	if d.chart != nil {
		p.advance(8)
		p.picture(d.chart)
	}
}

func (d *document) waterfallSection(p *painter) {
	w := d.waterfall
	if len(w.Rows) == 0 {
		return
	}
	p.heading("Resource Waterfall")
	p.line(fmt.Sprintf("%d resources, axis 0-%.0f ms, sorted by %s", len(w.Rows), w.AxisMaxMs, w.SortKey), colorMuted)

	// Legend.
	x := padding
	for _, e := range timeline.Legend() {
		p.fill(image.Rect(x, p.y+4, x+badgeSize*2, p.y+4+badgeSize), PhaseColor(e.Phase))
		x += badgeSize*2 + 6
		p.text(x, e.Label, colorText)
		x += textWidth(e.Label) + 18
	}
	p.advance(lineHeight)

	labelW := 30 * charWidth()
	barX := padding + labelW + badgeSize + 12
	barW := p.width - padding - barX

	// Axis ticks at quarters of the axis.
	for q := 0; q <= 4; q++ {
		tick := fmt.Sprintf("%.0fms", w.AxisMaxMs*float64(q)/4)
		tx := barX + barW*q/4 - textWidth(tick)/2
		if q == 4 {
			tx = barX + barW - textWidth(tick)
		}
		if tx < barX {
			tx = barX
		}
		p.text(tx, tick, colorMuted)
	}
	p.advance(lineHeight)

	for i, row := range w.Rows {
		if i%2 == 1 {
			p.fill(image.Rect(padding, p.y, p.width-padding, p.y+rowHeight), colorRowAlt)
		}
		for q := 0; q <= 4; q++ {
			gx := barX + barW*q/4
			p.fill(image.Rect(gx, p.y, gx+1, p.y+rowHeight), colorGrid)
		}
		p.fill(image.Rect(padding, p.y+5, padding+badgeSize, p.y+5+badgeSize), KindColor(row.Resource.Kind))
		p.text(padding+badgeSize+6, report.DisplayName(row.Resource.Name), colorText)
		for k := 0; k < types.PhaseCount; k++ {
			p.fill(phaseRect(row.Layout, k, barX, barW, p.y), PhaseColor(types.Phase(k)))
		}
		p.advance(rowHeight)
	}
}

// phaseRect maps phase k of a layout to pixels inside a bar area of width barW at barX.
func phaseRect(l timeline.Layout, k, barX, barW, y int) image.Rectangle {
	x0 := barX + int(math.Round(l.Offsets[k]/100*float64(barW)))
	x1 := barX + int(math.Round((l.Offsets[k]+l.Widths[k])/100*float64(barW)))
	return image.Rect(x0, y+barInset, x1, y+rowHeight-barInset)
}

func (d *document) byType(p *painter) {
	var byType map[types.ResourceKind]types.TypeSummary
	if d.report.Waterfall != nil && len(d.report.Waterfall.Metrics.ByType) > 0 {
		byType = d.report.Waterfall.Metrics.ByType
	} else if len(d.waterfall.Rows) > 0 {
		rs := make([]types.ResourceTiming, len(d.waterfall.Rows))
		for i, row := range d.waterfall.Rows {
			rs[i] = row.Resource
		}
		byType = timeline.SummarizeByType(rs)
	}
	if len(byType) == 0 {
		return
	}

	p.heading("Resources by Type")
	cols := []int{padding, padding + 16*charWidth(), padding + 26*charWidth(), padding + 40*charWidth()}
	for i, h := range []string{"Type", "Count", "Size", "Time"} {
		p.text(cols[i], h, colorMuted)
	}
	p.advance(lineHeight)

	for _, kind := range (types.WaterfallMetrics{ByType: byType}).SortedKinds() {
		s := byType[kind]
		p.fill(image.Rect(cols[0], p.y+5, cols[0]+badgeSize, p.y+5+badgeSize), KindColor(kind))
		p.text(cols[0]+badgeSize+6, string(kind), colorText)
		p.text(cols[1], fmt.Sprintf("%d", s.Count), colorText)
		p.text(cols[2], fmt.Sprintf("%.1f KB", float64(s.Size)/1024), colorText)
		p.text(cols[3], fmt.Sprintf("%.0f ms", s.TimeMs), colorText)
		p.advance(lineHeight)
	}
}

func (d *document) issues(p *painter) {
	for _, e := range d.summary.Categories {
		d.issueBlock(p, e.Label, e.Result.Issues, e.Result.Recommendations)
	}
	if wf := d.report.Waterfall; wf != nil && !wf.Scored {
		d.issueBlock(p, report.Label(report.WaterfallKey), wf.Issues, wf.Recommendations)
	}
}

func (d *document) issueBlock(p *painter, label string, issues []types.Issue, recs []string) {
	if len(issues) == 0 && len(recs) == 0 {
		return
	}
	p.heading(label)
	for _, issue := range report.SortIssues(issues) {
		tag := "ISSUE"
		if issue.Severity != "" {
			tag = strings.ToUpper(string(issue.Severity))
		}
		p.fill(image.Rect(padding, p.y+4, padding+badgeSize, p.y+4+badgeSize), severityColor(issue.Severity))
		text := fmt.Sprintf("[%s] %s", tag, issue.Title)
		if issue.Description != "" {
			text += ": " + issue.Description
		}
		p.wrapped(badgeSize+6, text, colorText)
	}
	if len(recs) > 0 {
		p.line("Recommendations:", colorMuted)
		for _, rec := range recs {
			p.wrapped(badgeSize+6, "- "+rec, colorText)
		}
	}
}
