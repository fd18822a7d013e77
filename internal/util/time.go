// time.go — Timestamp parsing and formatting for report and HAR timestamps.
package util

import "time"

// HARTimeLayout is ISO 8601 with millisecond precision, as DevTools writes it.
const HARTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseTimestamp parses an RFC3339 timestamp string, trying RFC3339Nano first,
// then RFC3339. Returns zero time on failure.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

// FormatTimestamp renders t in UTC as RFC3339 with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(HARTimeLayout)
}

// MillisBetween is the signed distance from a to b in fractional milliseconds.
func MillisBetween(a, b time.Time) float64 {
	return float64(b.Sub(a)) / float64(time.Millisecond)
}

// AddMillis offsets t by a fractional number of milliseconds.
func AddMillis(t time.Time, ms float64) time.Time {
	return t.Add(time.Duration(ms * float64(time.Millisecond)))
}
