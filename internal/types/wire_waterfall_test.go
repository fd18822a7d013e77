// wire_waterfall_test.go — Tests for waterfall resource wire conversion.
package types

import (
	"encoding/json"
	"testing"
)

func TestWireResourceEndTimeDerivation(t *testing.T) {
	t.Parallel()

	end := 900.0
	total := 300.0
	tests := []struct {
		name    string
		wire    WireResource
		wantEnd float64
	}{
		{
			name:    "explicit end_time wins",
			wire:    WireResource{StartTime: 100, EndTime: &end, TotalTime: &total, DNSTime: 10},
			wantEnd: 900,
		},
		{
			name:    "total_time when end_time missing",
			wire:    WireResource{StartTime: 100, TotalTime: &total, DNSTime: 10},
			wantEnd: 400,
		},
		{
			name:    "phase sum as last resort",
			wire:    WireResource{StartTime: 100, DNSTime: 10, TCPTime: 20, RequestTime: 5, ResponseTime: 15},
			wantEnd: 150,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.wire.ToResourceTiming()
			if r.EndTimeMs != tt.wantEnd {
				t.Errorf("EndTimeMs = %v, want %v", r.EndTimeMs, tt.wantEnd)
			}
		})
	}
}

func TestWireResourceNormalizes(t *testing.T) {
	t.Parallel()

	r := WireResource{Type: "XHR", Name: "api", Size: -5}.ToResourceTiming()
	if r.Kind != KindOther {
		t.Errorf("unknown type should map to other, got %q", r.Kind)
	}
	if r.SizeBytes != 0 {
		t.Errorf("negative size should read as 0, got %d", r.SizeBytes)
	}

	if got := ParseResourceKind(" Stylesheet "); got != KindStylesheet {
		t.Errorf("ParseResourceKind should trim and lowercase, got %q", got)
	}
}

func TestResourceTimingTotals(t *testing.T) {
	t.Parallel()

	r := ResourceTiming{StartTimeMs: 100, EndTimeMs: 250, Phases: [PhaseCount]float64{10, 20, 5, 15}}
	if r.TotalTimeMs() != 150 {
		t.Errorf("TotalTimeMs = %v, want 150", r.TotalTimeMs())
	}
	if r.PhaseSumMs() != 50 {
		t.Errorf("PhaseSumMs = %v, want 50", r.PhaseSumMs())
	}

	inverted := ResourceTiming{StartTimeMs: 300, EndTimeMs: 100}
	if inverted.TotalTimeMs() != 0 {
		t.Errorf("inverted interval TotalTimeMs = %v, want 0", inverted.TotalTimeMs())
	}
}

func TestResourceTimingJSONUsesWireNames(t *testing.T) {
	t.Parallel()

	r := ResourceTiming{
		Name: "app.js", Kind: KindScript, SizeBytes: 51200,
		StartTimeMs: 900, EndTimeMs: 1150,
		Phases: [PhaseCount]float64{20, 60, 20, 150},
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if wire["type"] != "script" {
		t.Errorf("type = %v, want script", wire["type"])
	}
	if wire["total_time"] != 250.0 {
		t.Errorf("total_time = %v, want 250", wire["total_time"])
	}
	if wire["size_kb"] != 50.0 {
		t.Errorf("size_kb = %v, want 50", wire["size_kb"])
	}
	if wire["response_time"] != 150.0 {
		t.Errorf("response_time = %v, want 150", wire["response_time"])
	}
}

func TestPhaseString(t *testing.T) {
	t.Parallel()

	want := []string{"dns", "tcp", "request", "response"}
	for i, w := range want {
		if got := Phase(i).String(); got != w {
			t.Errorf("Phase(%d).String() = %q, want %q", i, got, w)
		}
	}
	if Phase(9).String() != "unknown" {
		t.Error("out of range phase should be unknown")
	}
}

func TestSortedKinds(t *testing.T) {
	t.Parallel()

	m := WaterfallMetrics{ByType: map[ResourceKind]TypeSummary{
		KindImage:    {Count: 1},
		"media":      {Count: 1},
		KindDocument: {Count: 1},
		"beacon":     {Count: 1},
	}}
	got := m.SortedKinds()
	want := []ResourceKind{KindDocument, KindImage, "beacon", "media"}
	if len(got) != len(want) {
		t.Fatalf("SortedKinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedKinds[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
