// handlers.go — API handlers: waterfall layout, export plan, PDF export, health.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sitelens/sitelens/internal/pagination"
	"github.com/sitelens/sitelens/internal/render"
	"github.com/sitelens/sitelens/internal/timeline"
	"github.com/sitelens/sitelens/internal/types"
	"github.com/sitelens/sitelens/internal/util"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		util.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	util.JSONResponse(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}

// waterfallRequest carries either a full report or a bare resource list.
// When both are present the report wins.
type waterfallRequest struct {
	Report    *types.Report          `json:"report"`
	Resources []types.ResourceTiming `json:"resources"`
	Sort      string                 `json:"sort"`
	AxisMax   float64                `json:"axis_max"`
}

func (s *Server) handleWaterfall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		util.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPostBodySize)
	var body waterfallRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.JSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	key := s.opts.Sort
	if body.Sort != "" {
		k, err := timeline.ParseSortKey(body.Sort)
		if err != nil {
			util.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		key = k
	}

	resources := body.Resources
	if body.Report != nil {
		resources = body.Report.Resources()
	}
	axis := body.AxisMax
	if axis == 0 {
		axis = timeline.DefaultAxisMax(resources)
	}

	wf := s.buildWaterfall(w, resources, key, axis)
	util.JSONResponse(w, http.StatusOK, wf)
}

// buildWaterfall lays out resources and reports any corrections to the log
// and the corrections counter.
func (s *Server) buildWaterfall(w http.ResponseWriter, resources []types.ResourceTiming, key timeline.SortKey, axis float64) timeline.Waterfall {
	wf := timeline.Build(resources, key, axis)
	if len(wf.Corrections) > 0 {
		log := s.requestLogger(w)
		for _, c := range wf.Corrections {
			log.Warn("layout correction", "reason", string(c.Reason), "index", c.Index, "resource", c.Name)
		}
		s.recordCorrections(wf.Corrections)
	}
	return wf
}

type planRequest struct {
	SourceTotalHeightPx int `json:"source_total_height_px"`
	PageHeightPx        int `json:"page_height_px"`
	PageWidthPx         int `json:"page_width_px"`
	MarginPx            int `json:"margin_px"`
}

type planResponse struct {
	pagination.Plan
	PageCount int              `json:"page_count"`
	Anchor    pagination.Point `json:"anchor"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		util.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPostBodySize)
	var body planRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.JSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	plan, err := pagination.NewPlan(body.SourceTotalHeightPx, pagination.Geometry{
		PageWidthPx:  body.PageWidthPx,
		PageHeightPx: body.PageHeightPx,
		MarginPx:     body.MarginPx,
	})
	if err != nil {
		util.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	util.JSONResponse(w, http.StatusOK, planResponse{Plan: plan, PageCount: plan.PageCount(), Anchor: plan.Anchor()})
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		util.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	params, err := s.pdfParams(r)
	if err != nil {
		util.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPostBodySize)
	var rep types.Report
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		util.JSONError(w, http.StatusBadRequest, "invalid report: "+err.Error())
		return
	}

	resources := rep.Resources()
	wf := s.buildWaterfall(w, resources, params.sort, timeline.DefaultAxisMax(resources))

	surface, err := render.NewSurface(rep, wf, render.Options{WidthPx: s.opts.SurfaceWidthPx, GeneratedAt: s.now()})
	if err != nil {
		if errors.Is(err, render.ErrSurfaceTooLarge) || errors.Is(err, render.ErrSurfaceTooNarrow) {
			util.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.requestLogger(w).Error("compose surface", "error", err)
		util.JSONError(w, http.StatusInternalServerError, "failed to compose report")
		return
	}

	var buf bytes.Buffer
	plan, err := render.WritePDF(&buf, surface, render.PDFOptions{
		PageSize: params.pageSize,
		MarginMm: params.marginMm,
		Title:    "Website Analysis Report",
	})
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidGeometry) || errors.Is(err, pagination.ErrInvalidPageHeight) {
			util.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.requestLogger(w).Error("write pdf", "error", err)
		util.JSONError(w, http.StatusInternalServerError, "failed to write PDF")
		return
	}

	s.metrics.exportPages.Add(float64(plan.PageCount()))
	s.requestLogger(w).Info("pdf exported",
		"url", rep.URL,
		"pages", plan.PageCount(),
		"surface_height_px", plan.SourceTotalHeightPx,
		"bytes", buf.Len())

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename(rep.URL, s.now())))
	w.Header().Set("X-Page-Count", strconv.Itoa(plan.PageCount()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.requestLogger(w).Warn("pdf write interrupted", "error", err)
	}
}

type pdfParams struct {
	sort     timeline.SortKey
	pageSize string
	marginMm float64
}

// pdfParams reads sort, page_size and margin_mm from the query string,
// falling back to the server defaults.
func (s *Server) pdfParams(r *http.Request) (pdfParams, error) {
	q := r.URL.Query()
	p := pdfParams{sort: s.opts.Sort, pageSize: s.opts.PageSize, marginMm: s.opts.MarginMm}

	if v := q.Get("sort"); v != "" {
		k, err := timeline.ParseSortKey(v)
		if err != nil {
			return p, err
		}
		p.sort = k
	}
	if v := q.Get("page_size"); v != "" {
		if !render.ValidPageSize(v) {
			return p, fmt.Errorf("unknown page size %q (want one of %s)", v, strings.Join(render.PageSizes, ", "))
		}
		p.pageSize = v
	}
	if v := q.Get("margin_mm"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || m < 0 {
			return p, fmt.Errorf("invalid margin_mm %q", v)
		}
		p.marginMm = m
	}
	return p, nil
}

// pdfFilename builds sitelens-<host>-<timestamp>.pdf.
func pdfFilename(pageURL string, now time.Time) string {
	host := util.ExtractOrigin(pageURL)
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	host = unsafeChars.Replace(host)
	if host == "" {
		host = "report"
	}
	return fmt.Sprintf("sitelens-%s-%s.pdf", host, now.UTC().Format("20060102-150405"))
}

var unsafeChars = strings.NewReplacer(":", "_", "/", "_", "\\", "_", "\"", "_")
