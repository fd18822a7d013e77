// util_test.go — Tests for time, URL, response and goroutine helpers.
package util

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// ============================================
// Time
// ============================================

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00.123456789Z", time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC)},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}
	for _, tt := range tests {
		if got := ParseTimestamp(tt.in); !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimestampMillis(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC)
	if got := FormatTimestamp(ts); got != "2024-01-15T10:30:00.123Z" {
		t.Errorf("FormatTimestamp = %q", got)
	}
}

func TestMillisBetweenAndAdd(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	later := AddMillis(base, 1250.5)
	if got := MillisBetween(base, later); math.Abs(got-1250.5) > 1e-6 {
		t.Errorf("MillisBetween = %v, want 1250.5", got)
	}
	if got := MillisBetween(later, base); got >= 0 {
		t.Errorf("MillisBetween should be negative backwards, got %v", got)
	}
}

// ============================================
// URLs
// ============================================

func TestExtractOrigin(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://example.com/a/b?c=d":          "https://example.com",
		"http://localhost:3000/":               "http://localhost:3000",
		"blob:https://example.com/uuid-1234":   "https://example.com",
		"data:text/plain;base64,SGVsbG8=":      "",
		"/relative/path":                       "",
		"://broken":                            "",
	}
	for in, want := range tests {
		if got := ExtractOrigin(in); got != want {
			t.Errorf("ExtractOrigin(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct{ page, name, want string }{
		{"https://example.com/shop/", "app.js", "https://example.com/shop/app.js"},
		{"https://example.com/shop/", "/static/app.css", "https://example.com/static/app.css"},
		{"https://example.com/", "https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
		{"", "logo.png", "logo.png"},
	}
	for _, tt := range tests {
		if got := ResolveURL(tt.page, tt.name); got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.page, tt.name, got, tt.want)
		}
	}
}

func TestQueryPairs(t *testing.T) {
	t.Parallel()

	got := QueryPairs("https://example.com/api?b=2&a=1&q=hello%20world&flag")
	want := [][2]string{{"b", "2"}, {"a", "1"}, {"q", "hello world"}, {"flag", ""}}
	if len(got) != len(want) {
		t.Fatalf("QueryPairs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pair[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if QueryPairs("https://example.com/") != nil {
		t.Error("no query should yield nil")
	}
}

// ============================================
// Responses
// ============================================

func TestJSONResponse(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONResponse(rec, http.StatusCreated, map[string]string{"status": "ok"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("body = %q, err %v", rec.Body.String(), err)
	}
}

func TestJSONErrorEchoesRequestID(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-1")
	JSONError(rec, http.StatusBadRequest, "page height must be positive")

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Error != "page height must be positive" || body.RequestID != "req-1" {
		t.Errorf("body = %+v", body)
	}
}

func TestJSONResponseEncodeErrorDoesNotPanic(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONResponse(rec, http.StatusOK, math.NaN())
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

// ============================================
// SafeGo
// ============================================

func TestSafeGoNormalExecution(t *testing.T) {
	var done sync.WaitGroup
	done.Add(1)
	executed := false

	SafeGo("test", func() {
		executed = true
		done.Done()
	})

	done.Wait()
	if !executed {
		t.Error("SafeGo did not execute the function")
	}
}

func TestSafeGoPanicRecovery(t *testing.T) {
	recovered := make(chan bool, 1)

	SafeGo("test", func() {
		defer func() { recovered <- true }()
		panic("test panic")
	})

	select {
	case <-recovered:
	case <-time.After(2 * time.Second):
		t.Fatal("SafeGo goroutine did not recover from panic within timeout")
	}
}
