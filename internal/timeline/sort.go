// sort.go — Sort keys and stable ordering of resource timings.
package timeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sitelens/sitelens/internal/types"
)

// ErrUnknownSortKey is returned by ParseSortKey for values it does not recognize.
var ErrUnknownSortKey = errors.New("unknown sort key")

// SortKey selects the waterfall row order.
type SortKey string

const (
	SortByStartTime SortKey = "start_time"
	SortByTotalTime SortKey = "total_time"
	SortBySize      SortKey = "size"
)

// SortKeys lists the accepted keys in display order.
var SortKeys = []SortKey{SortByStartTime, SortByTotalTime, SortBySize}

func (k SortKey) valid() bool {
	for _, known := range SortKeys {
		if k == known {
			return true
		}
	}
	return false
}

// ParseSortKey accepts the snake_case wire names and the camelCase names used
// by the dashboard. An empty string selects start_time.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.TrimSpace(s) {
	case "", "start_time", "startTime":
		return SortByStartTime, nil
	case "total_time", "totalTime", "duration":
		return SortByTotalTime, nil
	case "size", "sizeBytes":
		return SortBySize, nil
	}
	return "", fmt.Errorf("%w: %q (valid: start_time, total_time, size)", ErrUnknownSortKey, s)
}

// Sort returns a new slice ordered by key:
//   - start_time: ascending StartTimeMs
//   - total_time: descending TotalTimeMs
//   - size: descending SizeBytes
//
// Ties keep their input order. The input slice is not reordered. An
// unrecognized key is treated as start_time.
func Sort(resources []types.ResourceTiming, key SortKey) []types.ResourceTiming {
	out := make([]types.ResourceTiming, len(resources))
	copy(out, resources)

	var less func(a, b types.ResourceTiming) bool
	switch key {
	case SortByTotalTime:
		less = func(a, b types.ResourceTiming) bool { return a.TotalTimeMs() > b.TotalTimeMs() }
	case SortBySize:
		less = func(a, b types.ResourceTiming) bool { return a.SizeBytes > b.SizeBytes }
	default:
		less = func(a, b types.ResourceTiming) bool { return a.StartTimeMs < b.StartTimeMs }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
