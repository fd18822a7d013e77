// plan.go — Page geometry, anchor placement and unit conversion for export plans.
package pagination

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned for page geometry that leaves no printable
// area, or that would produce more than MaxPages pages.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// MaxPages bounds the pages a single plan may produce.
const MaxPages = 10000

// Geometry describes the destination page in source pixels. Slicing uses
// only PageHeightPx; width and margin position the slice on the page.
type Geometry struct {
	PageWidthPx  int `json:"page_width_px"`
	PageHeightPx int `json:"page_height_px"`
	MarginPx     int `json:"margin_px"`
}

// Point is a placement on a page.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Plan is the full export plan for one surface.
type Plan struct {
	Geometry            Geometry    `json:"geometry"`
	SourceTotalHeightPx int         `json:"source_total_height_px"`
	Slices              []PageSlice `json:"slices"`
}

// NewPlan slices a surface of sourceTotalHeightPx using g.PageHeightPx.
func NewPlan(sourceTotalHeightPx int, g Geometry) (Plan, error) {
	if g.MarginPx < 0 || g.PageWidthPx < 0 {
		return Plan{}, fmt.Errorf("plan: %w: width %d margin %d", ErrInvalidGeometry, g.PageWidthPx, g.MarginPx)
	}
	if n := PageCount(sourceTotalHeightPx, g.PageHeightPx); n > MaxPages {
		return Plan{}, fmt.Errorf("plan: %w: %d pages exceeds limit of %d", ErrInvalidGeometry, n, MaxPages)
	}
	slices, err := Paginate(sourceTotalHeightPx, g.PageHeightPx)
	if err != nil {
		return Plan{}, fmt.Errorf("plan: %w", err)
	}
	return Plan{Geometry: g, SourceTotalHeightPx: sourceTotalHeightPx, Slices: slices}, nil
}

// Anchor is the top-left placement of every slice: (margin, margin).
func (p Plan) Anchor() Point {
	return Point{X: p.Geometry.MarginPx, Y: p.Geometry.MarginPx}
}

// PageCount is the number of pages the plan produces.
func (p Plan) PageCount() int {
	return len(p.Slices)
}

// PrintableHeight is the page height left after top and bottom margins.
func PrintableHeight(pageHeight, margin float64) (float64, error) {
	h := pageHeight - 2*margin
	if !finite(pageHeight) || !finite(margin) || margin < 0 || h <= 0 {
		return 0, fmt.Errorf("%w: page height %g with margin %g", ErrInvalidGeometry, pageHeight, margin)
	}
	return h, nil
}

// SourcePageHeight converts a printable area to source pixels. The surface is
// scaled so sourceWidthPx spans printableWidth; the result is how many source
// rows fit printableHeight, floored and at least 1.
func SourcePageHeight(printableWidth, printableHeight float64, sourceWidthPx int) (int, error) {
	if !finite(printableWidth) || !finite(printableHeight) || printableWidth <= 0 || printableHeight <= 0 || sourceWidthPx <= 0 {
		return 0, fmt.Errorf("%w: printable %gx%g for source width %d",
			ErrInvalidGeometry, printableWidth, printableHeight, sourceWidthPx)
	}
	px := math.Floor(printableHeight * float64(sourceWidthPx) / printableWidth)
	if px < 1 {
		return 1, nil
	}
	if px > math.MaxInt32 {
		return 0, fmt.Errorf("%w: page height overflows (%g px)", ErrInvalidGeometry, px)
	}
	return int(px), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
