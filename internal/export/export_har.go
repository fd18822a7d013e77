// export_har.go — HAR 1.2 import and export of resource timings.
// Import turns a DevTools HAR capture into waterfall resources; export writes
// resources back out so a waterfall can be opened in DevTools or any HAR viewer.
//
// JSON CONVENTION: All fields MUST use snake_case.
// JSON CONVENTION: HAR 1.2 fields use camelCase, see http://www.softwareishard.com/blog/har-12-spec/
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sitelens/sitelens/internal/timeline"
	"github.com/sitelens/sitelens/internal/types"
	"github.com/sitelens/sitelens/internal/util"
)

// harPageID is the page reference given to every exported entry.
const harPageID = "page_1"

// ============================================
// HAR 1.2 Types
// ============================================

// HARLog is the top-level HAR structure.
type HARLog struct {
	Log HARLogInner `json:"log"` // HAR 1.2
}

// HARLogInner contains the HAR version, creator, pages and entries.
type HARLogInner struct {
	Version string     `json:"version"`         // HAR 1.2
	Creator HARCreator `json:"creator"`         // HAR 1.2
	Pages   []HARPage  `json:"pages,omitempty"` // HAR 1.2
	Entries []HAREntry `json:"entries"`         // HAR 1.2
}

// HARCreator identifies the tool that generated the HAR.
type HARCreator struct {
	Name    string `json:"name"`    // HAR 1.2
	Version string `json:"version"` // HAR 1.2
}

// HARPage describes the page the entries belong to.
type HARPage struct {
	StartedDateTime string         `json:"startedDateTime"` // HAR 1.2
	ID              string         `json:"id"`              // HAR 1.2
	Title           string         `json:"title"`           // HAR 1.2
	PageTimings     HARPageTimings `json:"pageTimings"`     // HAR 1.2
}

// HARPageTimings holds page-level milestones in ms; -1 when unknown.
type HARPageTimings struct {
	OnContentLoad float64 `json:"onContentLoad"` // HAR 1.2
	OnLoad        float64 `json:"onLoad"`        // HAR 1.2
}

// HAREntry represents a single HTTP request/response pair.
type HAREntry struct {
	PageRef         string      `json:"pageref,omitempty"`       // HAR 1.2
	StartedDateTime string      `json:"startedDateTime"`         // HAR 1.2
	Time            float64     `json:"time"`                    // total elapsed time in ms
	Request         HARRequest  `json:"request"`                 // HAR 1.2
	Response        HARResponse `json:"response"`                // HAR 1.2
	Timings         HARTimings  `json:"timings"`                 // HAR 1.2
	ResourceType    string      `json:"_resourceType,omitempty"` // Chrome DevTools extension
}

// HARRequest represents an HTTP request.
type HARRequest struct {
	Method      string         `json:"method"`      // HAR 1.2
	URL         string         `json:"url"`         // HAR 1.2
	HTTPVersion string         `json:"httpVersion"` // HAR 1.2
	Headers     []HARNameValue `json:"headers"`     // HAR 1.2
	QueryString []HARNameValue `json:"queryString"` // HAR 1.2
	HeadersSize int            `json:"headersSize"` // HAR 1.2
	BodySize    int64          `json:"bodySize"`    // HAR 1.2
}

// HARResponse represents an HTTP response.
type HARResponse struct {
	Status      int            `json:"status"`      // HAR 1.2
	StatusText  string         `json:"statusText"`  // HAR 1.2
	HTTPVersion string         `json:"httpVersion"` // HAR 1.2
	Headers     []HARNameValue `json:"headers"`     // HAR 1.2
	Content     HARContent     `json:"content"`     // HAR 1.2
	RedirectURL string         `json:"redirectURL"` // HAR 1.2
	HeadersSize int            `json:"headersSize"` // HAR 1.2
	BodySize    int64          `json:"bodySize"`    // HAR 1.2
}

// HARContent represents response body content.
type HARContent struct {
	Size     int64  `json:"size"`     // HAR 1.2
	MimeType string `json:"mimeType"` // HAR 1.2
}

// HARTimings is the phase breakdown of an entry in ms. -1 marks a phase that
// does not apply.
type HARTimings struct {
	Blocked float64 `json:"blocked"` // HAR 1.2
	DNS     float64 `json:"dns"`     // HAR 1.2
	Connect float64 `json:"connect"` // HAR 1.2
	Send    float64 `json:"send"`    // HAR 1.2
	Wait    float64 `json:"wait"`    // HAR 1.2
	Receive float64 `json:"receive"` // HAR 1.2
	SSL     float64 `json:"ssl"`     // HAR 1.2
}

// HARNameValue is a generic name/value pair for headers, query params, etc.
type HARNameValue struct {
	Name  string `json:"name"`  // HAR 1.2
	Value string `json:"value"` // HAR 1.2
}

// ============================================
// Import
// ============================================

// ParseHAR decodes a HAR document.
func ParseHAR(r io.Reader) (HARLog, error) {
	var h HARLog
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return HARLog{}, fmt.Errorf("decode HAR: %w", err)
	}
	if h.Log.Version == "" && len(h.Log.Entries) == 0 {
		return HARLog{}, fmt.Errorf("decode HAR: missing log.entries")
	}
	return h, nil
}

// ResourcesFromHAR converts HAR entries to resource timings relative to the
// earliest entry. A resource starts once it stops being blocked; its phases
// are dns, connect, send+wait and receive.
func ResourcesFromHAR(h HARLog) []types.ResourceTiming {
	entries := h.Log.Entries
	if len(entries) == 0 {
		return []types.ResourceTiming{}
	}

	starts := make([]time.Time, len(entries))
	first := time.Time{}
	for i, e := range entries {
		starts[i] = util.ParseTimestamp(e.StartedDateTime)
		if !starts[i].IsZero() && (first.IsZero() || starts[i].Before(first)) {
			first = starts[i]
		}
	}

	out := make([]types.ResourceTiming, 0, len(entries))
	for i, e := range entries {
		t := e.Timings
		blocked := harMillis(t.Blocked)
		start := blocked
		if !starts[i].IsZero() {
			start += util.MillisBetween(first, starts[i])
		}

		r := types.ResourceTiming{
			Name:        e.Request.URL,
			Kind:        harResourceKind(e),
			SizeBytes:   harSize(e.Response),
			StartTimeMs: start,
			Phases: [types.PhaseCount]float64{
				harMillis(t.DNS),
				harMillis(t.Connect),
				harMillis(t.Send) + harMillis(t.Wait),
				harMillis(t.Receive),
			},
			Status:   e.Response.Status,
			MimeType: e.Response.Content.MimeType,
		}
		r.EndTimeMs = start + math.Max(r.PhaseSumMs(), harMillis(e.Time)-blocked)
		out = append(out, r)
	}
	return out
}

// PageURL returns the title of the first HAR page, or the origin of the first
// entry when the capture has no pages.
func PageURL(h HARLog) string {
	if len(h.Log.Pages) > 0 && h.Log.Pages[0].Title != "" {
		return h.Log.Pages[0].Title
	}
	if len(h.Log.Entries) > 0 {
		return util.ExtractOrigin(h.Log.Entries[0].Request.URL)
	}
	return ""
}

// WaterfallFromHAR wraps imported resources in an unscored waterfall section
// with its by_type aggregate filled in.
func WaterfallFromHAR(h HARLog) types.WaterfallResult {
	resources := ResourcesFromHAR(h)
	var size int64
	end := 0.0
	for _, r := range resources {
		size += r.SizeBytes
		end = math.Max(end, r.EndTimeMs)
	}
	return types.WaterfallResult{
		Metrics: types.WaterfallMetrics{
			TotalRequests:  len(resources),
			TotalSizeKB:    math.Round(float64(size)/1024*100) / 100,
			TotalTimeMs:    end,
			PageLoadTimeMs: end,
			ByType:         timeline.SummarizeByType(resources),
		},
		Resources:       resources,
		Issues:          []types.Issue{},
		Recommendations: []string{},
	}
}

// harMillis maps the HAR "not applicable" marker (-1) and other negatives to 0.
func harMillis(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func harSize(resp HARResponse) int64 {
	if resp.BodySize > 0 {
		return resp.BodySize
	}
	if resp.Content.Size > 0 {
		return resp.Content.Size
	}
	return 0
}

// harResourceKind prefers the DevTools _resourceType and falls back to the MIME type.
func harResourceKind(e HAREntry) types.ResourceKind {
	if e.ResourceType != "" {
		if k := types.ParseResourceKind(e.ResourceType); k != types.KindOther {
			return k
		}
	}
	mime := strings.ToLower(e.Response.Content.MimeType)
	switch {
	case strings.Contains(mime, "html"):
		return types.KindDocument
	case strings.Contains(mime, "css"):
		return types.KindStylesheet
	case strings.Contains(mime, "javascript"), strings.Contains(mime, "ecmascript"):
		return types.KindScript
	case strings.HasPrefix(mime, "image/"):
		return types.KindImage
	case strings.HasPrefix(mime, "font/"), strings.Contains(mime, "woff"), strings.Contains(mime, "opentype"):
		return types.KindFont
	default:
		return types.KindOther
	}
}

// ============================================
// Export
// ============================================

// ResourcesToHAR writes resources as HAR entries of a single page that
// started at base. Relative resource names are resolved against pageURL.
// Entries are returned in start order.
func ResourcesToHAR(resources []types.ResourceTiming, pageURL string, base time.Time) HARLog {
	ordered := make([]types.ResourceTiming, len(resources))
	copy(ordered, resources)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].StartTimeMs < ordered[j].StartTimeMs })

	onLoad := 0.0
	entries := make([]HAREntry, 0, len(ordered))
	for _, r := range ordered {
		entries = append(entries, resourceToHAREntry(r, pageURL, base))
		onLoad = math.Max(onLoad, r.EndTimeMs)
	}

	return HARLog{
		Log: HARLogInner{
			Version: "1.2",
			Creator: HARCreator{Name: "sitelens", Version: version},
			Pages: []HARPage{{
				StartedDateTime: util.FormatTimestamp(base),
				ID:              harPageID,
				Title:           pageURL,
				PageTimings:     HARPageTimings{OnContentLoad: -1, OnLoad: onLoad},
			}},
			Entries: entries,
		},
	}
}

// WriteHARFile exports resources to a HAR file on disk.
func WriteHARFile(resources []types.ResourceTiming, pageURL string, base time.Time, path string) (FileResult, error) {
	data, err := json.MarshalIndent(ResourcesToHAR(resources, pageURL, base), "", "  ")
	if err != nil {
		return FileResult{}, fmt.Errorf("marshal HAR: %w", err)
	}
	return WriteFile(path, data)
}

func resourceToHAREntry(r types.ResourceTiming, pageURL string, base time.Time) HAREntry {
	rawURL := util.ResolveURL(pageURL, r.Name)
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	return HAREntry{
		PageRef:         harPageID,
		StartedDateTime: util.FormatTimestamp(util.AddMillis(base, r.StartTimeMs)),
		Time:            r.TotalTimeMs(),
		Request: HARRequest{
			Method:      http.MethodGet,
			URL:         rawURL,
			HTTPVersion: "HTTP/1.1",
			Headers:     []HARNameValue{},
			QueryString: harQueryString(rawURL),
			HeadersSize: -1,
		},
		Response: HARResponse{
			Status:      status,
			StatusText:  http.StatusText(status),
			HTTPVersion: "HTTP/1.1",
			Headers:     []HARNameValue{},
			Content:     HARContent{Size: r.SizeBytes, MimeType: r.MimeType},
			HeadersSize: -1,
			BodySize:    r.SizeBytes,
		},
		Timings: HARTimings{
			Blocked: 0,
			DNS:     r.Phases[types.PhaseDNS],
			Connect: r.Phases[types.PhaseTCP],
			Send:    r.Phases[types.PhaseRequest],
			Wait:    0,
			Receive: r.Phases[types.PhaseResponse],
			SSL:     -1,
		},
		ResourceType: string(r.Kind),
	}
}

func harQueryString(rawURL string) []HARNameValue {
	pairs := util.QueryPairs(rawURL)
	out := make([]HARNameValue, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, HARNameValue{Name: p[0], Value: p[1]})
	}
	return out
}
