// paginate.go — The paginate command: page plans for a raw height or a report.
package commands

import (
	"github.com/sitelens/sitelens/cmd/sitelens/output"
	"github.com/sitelens/sitelens/internal/pagination"
	"github.com/sitelens/sitelens/internal/render"
	"github.com/sitelens/sitelens/internal/timeline"
)

var sliceColumns = []string{"page", "source_offset_px", "slice_height_px", "end_px"}

// Paginate handles two forms:
//
//	sitelens paginate --height N --page-height N [--page-width N] [--margin N]
//	sitelens paginate <report.json>
//
// The first plans raw pixel geometry. The second composes the report surface
// and plans it for the configured page size and margin.
func Paginate(env Env, args []string) (*output.Result, error) {
	height, hasHeight, remaining, err := parseFlagInt(args, "--height")
	if err != nil {
		return nil, err
	}
	pageHeight, hasPageHeight, remaining, err := parseFlagInt(remaining, "--page-height")
	if err != nil {
		return nil, err
	}
	pageWidth, _, remaining, err := parseFlagInt(remaining, "--page-width")
	if err != nil {
		return nil, err
	}
	margin, _, remaining, err := parseFlagInt(remaining, "--margin")
	if err != nil {
		return nil, err
	}

	var plan pagination.Plan
	data := map[string]any{}
	if hasHeight || hasPageHeight {
		if !hasHeight || !hasPageHeight {
			return nil, usagef("--height and --page-height must be given together")
		}
		if len(remaining) > 0 {
			return nil, usagef("unexpected arguments with --height: %v", remaining)
		}
		plan, err = pagination.NewPlan(height, pagination.Geometry{
			PageWidthPx:  pageWidth,
			PageHeightPx: pageHeight,
			MarginPx:     margin,
		})
		if err != nil {
			return nil, err
		}
	} else {
		path, err := positional(remaining, "report path or --height")
		if err != nil {
			return nil, err
		}
		rep, err := LoadReport(env, path)
		if err != nil {
			return nil, err
		}
		resources := rep.Resources()
		wf := timeline.Build(resources, env.Config.SortKey(), timeline.DefaultAxisMax(resources))
		logCorrections(env, wf.Corrections)

		surface, err := render.NewSurface(rep, wf, render.Options{WidthPx: env.Config.SurfaceWidthPx, GeneratedAt: env.now()})
		if err != nil {
			return nil, err
		}
		b := surface.Bounds()
		plan, _, err = render.PlanPages(b.Dx(), b.Dy(), render.PDFOptions{PageSize: env.Config.PageSize, MarginMm: env.Config.MarginMm})
		if err != nil {
			return nil, err
		}
		data["page_size"] = env.Config.PageSize
		data["margin_mm"] = env.Config.MarginMm
	}

	anchor := plan.Anchor()
	data["source_total_height_px"] = plan.SourceTotalHeightPx
	data["page_height_px"] = plan.Geometry.PageHeightPx
	data["page_count"] = plan.PageCount()
	data["anchor"] = []int{anchor.X, anchor.Y}

	rows := make([]map[string]any, 0, len(plan.Slices))
	for _, s := range plan.Slices {
		rows = append(rows, map[string]any{
			"page":             s.Index + 1,
			"source_offset_px": s.SourceOffsetPx,
			"slice_height_px":  s.SliceHeightPx,
			"end_px":           s.End(),
		})
	}

	return &output.Result{
		Success: true,
		Command: "paginate",
		Data:    data,
		Columns: sliceColumns,
		Table:   rows,
	}, nil
}
