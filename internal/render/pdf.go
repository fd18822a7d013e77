// pdf.go — Fixed-page PDF output of a rendered surface.
// The surface is scaled to the printable width; the pagination engine decides
// which source rows land on each page, and each slice is placed at the plan
// anchor.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/sitelens/sitelens/internal/pagination"
)

// ErrEmptySurface is returned when there is nothing to paginate.
var ErrEmptySurface = errors.New("surface is empty")

// PageSizes lists the accepted page size names.
var PageSizes = []string{"A4", "Letter", "Legal"}

// PDFOptions controls page geometry.
type PDFOptions struct {
	PageSize string  // A4, Letter or Legal; empty means A4
	MarginMm float64 // applied on all four sides
	Title    string
}

// ValidPageSize reports whether name is one of PageSizes, ignoring case.
func ValidPageSize(name string) bool {
	for _, s := range PageSizes {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// PlanPages computes the page plan for a surface of the given size without
// writing anything. Pixel geometry is expressed in source pixels.
func PlanPages(sourceWidthPx, sourceHeightPx int, opts PDFOptions) (pagination.Plan, float64, error) {
	if sourceWidthPx <= 0 || sourceHeightPx <= 0 {
		return pagination.Plan{}, 0, fmt.Errorf("%w: %dx%d", ErrEmptySurface, sourceWidthPx, sourceHeightPx)
	}
	size := opts.PageSize
	if size == "" {
		size = "A4"
	}
	if !ValidPageSize(size) {
		return pagination.Plan{}, 0, fmt.Errorf("%w: unknown page size %q", pagination.ErrInvalidGeometry, size)
	}

	pageW, pageH := pageSizeMm(size)
	printableW, err := pagination.PrintableHeight(pageW, opts.MarginMm)
	if err != nil {
		return pagination.Plan{}, 0, fmt.Errorf("page width: %w", err)
	}
	printableH, err := pagination.PrintableHeight(pageH, opts.MarginMm)
	if err != nil {
		return pagination.Plan{}, 0, fmt.Errorf("page height: %w", err)
	}
	pagePx, err := pagination.SourcePageHeight(printableW, printableH, sourceWidthPx)
	if err != nil {
		return pagination.Plan{}, 0, err
	}

	mmPerPx := printableW / float64(sourceWidthPx)
	plan, err := pagination.NewPlan(sourceHeightPx, pagination.Geometry{
		PageWidthPx:  int(math.Round(pageW / mmPerPx)),
		PageHeightPx: pagePx,
		MarginPx:     int(math.Round(opts.MarginMm / mmPerPx)),
	})
	if err != nil {
		return pagination.Plan{}, 0, err
	}
	return plan, mmPerPx, nil
}

// WritePDF writes surface as a PDF with one page per plan slice and returns
// the plan it followed.
func WritePDF(w io.Writer, surface *image.RGBA, opts PDFOptions) (pagination.Plan, error) {
	if surface == nil {
		return pagination.Plan{}, ErrEmptySurface
	}
	b := surface.Bounds()
	plan, mmPerPx, err := PlanPages(b.Dx(), b.Dy(), opts)
	if err != nil {
		return pagination.Plan{}, err
	}

	size := opts.PageSize
	if size == "" {
		size = "A4"
	}
	pdf := fpdf.New("P", "mm", size, "")
	pdf.SetMargins(opts.MarginMm, opts.MarginMm, opts.MarginMm)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("sitelens", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}

	anchor := plan.Anchor()
	x := float64(anchor.X) * mmPerPx
	y := float64(anchor.Y) * mmPerPx
	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}

	for _, s := range plan.Slices {
		rect := image.Rect(b.Min.X, b.Min.Y+s.SourceOffsetPx, b.Max.X, b.Min.Y+s.End())
		var buf bytes.Buffer
		if err := png.Encode(&buf, surface.SubImage(rect)); err != nil {
			return pagination.Plan{}, fmt.Errorf("encode page %d: %w", s.Index+1, err)
		}

		name := fmt.Sprintf("page-%d", s.Index)
		pdf.RegisterImageOptionsReader(name, imgOpts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, x, y, float64(b.Dx())*mmPerPx, float64(s.SliceHeightPx)*mmPerPx, false, imgOpts, 0, "")
		if err := pdf.Error(); err != nil {
			return pagination.Plan{}, fmt.Errorf("place page %d: %w", s.Index+1, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return pagination.Plan{}, fmt.Errorf("write pdf: %w", err)
	}
	return plan, nil
}

// pageSizeMm returns portrait page dimensions in millimetres.
func pageSizeMm(name string) (float64, float64) {
	switch strings.ToLower(name) {
	case "letter":
		return 215.9, 279.4
	case "legal":
		return 215.9, 355.6
	default:
		return 210, 297
	}
}
