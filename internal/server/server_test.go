// server_test.go — HTTP handler tests against an in-process server.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sitelens/sitelens/internal/timeline"
)

const reportBody = `{
	"url": "https://example.com",
	"performance": {"score": 72, "grade": "B", "issues": [{"title": "Slow TTFB", "severity": "high"}], "recommendations": []},
	"waterfall": {
		"waterfall": [
			{"type": "document", "name": "https://example.com/", "size": 2048, "start_time": 0,
			 "dns_time": 50, "tcp_time": 100, "request_time": 50, "response_time": 200, "end_time": 400},
			{"type": "script", "name": "https://example.com/app.js", "size": 51200, "start_time": 420,
			 "dns_time": 0, "tcp_time": 0, "request_time": 30, "response_time": 120, "end_time": 570}
		],
		"issues": [], "recommendations": []
	}
}`

func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s := New(logger, Options{MarginMm: 10, Registry: reg})
	s.now = func() time.Time { return time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC) }
	return s, reg
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	if rec := do(t, s, http.MethodPost, "/healthz", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz status = %d, want 405", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waterfall", strings.NewReader("{"))
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body: %v", err)
	}
	if body.RequestID != "req-42" {
		t.Errorf("request_id = %q, want req-42", body.RequestID)
	}
}

func TestWaterfallFromResources(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	body := `{"resources": [{"type": "script", "name": "a.js", "start_time": 100,
		"dns_time": 10, "tcp_time": 20, "request_time": 5, "response_time": 15, "end_time": 150}],
		"axis_max": 1000}`
	rec := do(t, s, http.MethodPost, "/api/v1/waterfall", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var wf timeline.Waterfall
	if err := json.Unmarshal(rec.Body.Bytes(), &wf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if wf.SortKey != timeline.SortByStartTime || wf.AxisMaxMs != 1000 {
		t.Errorf("waterfall header = %s/%v", wf.SortKey, wf.AxisMaxMs)
	}
	if len(wf.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(wf.Rows))
	}
	want := [4]float64{10, 11, 13, 13.5}
	if wf.Rows[0].Layout.Offsets != want {
		t.Errorf("offsets = %v, want %v", wf.Rows[0].Layout.Offsets, want)
	}
}

func TestWaterfallFromReport(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/waterfall", `{"sort": "size", "report": `+reportBody+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var wf timeline.Waterfall
	if err := json.Unmarshal(rec.Body.Bytes(), &wf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(wf.Rows) != 2 || wf.Rows[0].Resource.Name != "https://example.com/app.js" {
		t.Errorf("size sort should put app.js first, got %+v", wf.Rows)
	}
	// Largest end is 570ms, so the axis floors at 1000ms.
	if wf.AxisMaxMs != timeline.MinAxisMs {
		t.Errorf("axis = %v, want %v", wf.AxisMaxMs, timeline.MinAxisMs)
	}
}

func TestWaterfallBadRequests(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"invalid JSON", http.MethodPost, `{"resources": [`, http.StatusBadRequest},
		{"unknown sort key", http.MethodPost, `{"sort": "alphabetical"}`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, ``, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, "/api/v1/waterfall", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestExportPlan(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/export/plan",
		`{"source_total_height_px": 950, "page_height_px": 297, "page_width_px": 210, "margin_px": 10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got struct {
		PageCount int `json:"page_count"`
		Anchor    struct{ X, Y int }
		Slices    []struct {
			SourceOffsetPx int `json:"source_offset_px"`
			SliceHeightPx  int `json:"slice_height_px"`
		} `json:"slices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PageCount != 4 || len(got.Slices) != 4 {
		t.Fatalf("page_count = %d, slices = %d, want 4", got.PageCount, len(got.Slices))
	}
	if got.Slices[3].SourceOffsetPx != 891 || got.Slices[3].SliceHeightPx != 59 {
		t.Errorf("last slice = %+v, want {891 59}", got.Slices[3])
	}
	if got.Anchor.X != 10 || got.Anchor.Y != 10 {
		t.Errorf("anchor = %+v, want (10,10)", got.Anchor)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/export/plan", `{"source_total_height_px": 950, "page_height_px": 0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero page height status = %d, want 400", rec.Code)
	}
}

func TestExportPlanRejectsUnboundedPageCount(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"ten billion pages", `{"source_total_height_px": 10000000000, "page_height_px": 1}`},
		{"one page over the limit", `{"source_total_height_px": 10001, "page_height_px": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/export/plan", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}

	rec := do(t, s, http.MethodPost, "/api/v1/export/plan", `{"source_total_height_px": 9223372036854775807, "page_height_px": 4611686018427387904}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("near-MaxInt plan status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got struct {
		PageCount int `json:"page_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PageCount != 2 {
		t.Errorf("page_count = %d, want 2", got.PageCount)
	}
}

// oversizedReport has enough waterfall rows to push the surface past render.MaxSurfacePixels.
func oversizedReport(rows int) string {
	var b strings.Builder
	b.WriteString(`{"url": "https://example.com", "waterfall": {"waterfall": [`)
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"type": "script", "name": "r%d.js", "size": 100, "start_time": %d, "dns_time": 1, "tcp_time": 1, "request_time": 1, "response_time": 1}`, i, i)
	}
	b.WriteString(`]}}`)
	return b.String()
}

func TestExportPDFRejectsOversizedSurface(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/export/pdf", oversizedReport(4000))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "surface exceeds maximum size") {
		t.Errorf("body = %s, want the size error", rec.Body.String())
	}
}

func TestExportPDF(t *testing.T) {
	t.Parallel()

	s, reg := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/export/pdf?page_size=Letter&margin_mm=5", reportBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "sitelens-example.com-20260130-100000.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Header().Get("X-Page-Count") == "" {
		t.Error("X-Page-Count missing")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var pages float64
	for _, f := range families {
		if f.GetName() == "sitelens_export_pages_total" {
			pages = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if pages < 1 {
		t.Errorf("sitelens_export_pages_total = %v, want >= 1", pages)
	}
}

func TestExportPDFBadParams(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	tests := []struct {
		name  string
		query string
		body  string
	}{
		{"unknown page size", "?page_size=B5", reportBody},
		{"negative margin", "?margin_mm=-1", reportBody},
		{"margin swallows page", "?margin_mm=200", reportBody},
		{"unknown sort", "?sort=color", reportBody},
		{"not a report", "", `[1, 2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/export/pdf"+tt.query, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMetricsExposed(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/waterfall", `{"resources": [{"name": "x", "start_time": -5, "end_time": 10}]}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`sitelens_http_requests_total{method="POST",route="/api/v1/waterfall",status="200"} 1`,
		`sitelens_layout_corrections_total{reason="invalid_start"} 1`,
		"sitelens_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(nil, Options{Registry: reg})
	b := New(nil, Options{Registry: reg})
	if a.metrics.requestTotal != b.metrics.requestTotal {
		t.Error("second server should reuse the registered request counter")
	}
}
