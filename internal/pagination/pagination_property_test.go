// pagination_property_test.go — Property-based tests for slice completeness and non-overlap.

package pagination

import (
	"testing"
	"testing/quick"
)

// TestPropertyPaginateCovers verifies that slices cover [0, total) exactly
// once, consecutive offsets differ by the page height, and the slice count is
// ceil(total/page).
func TestPropertyPaginateCovers(t *testing.T) {
	f := func(total uint16, page uint8) bool {
		pageHeight := int(page)%500 + 1
		sourceTotal := int(total)

		slices, err := Paginate(sourceTotal, pageHeight)
		if err != nil {
			return false
		}
		if len(slices) != (sourceTotal+pageHeight-1)/pageHeight {
			return false
		}

		sum := 0
		for i, s := range slices {
			if s.Index != i || s.SliceHeightPx <= 0 || s.SliceHeightPx > pageHeight {
				return false
			}
			if i > 0 && s.SourceOffsetPx != slices[i-1].SourceOffsetPx+pageHeight {
				return false
			}
			if i > 0 && s.SourceOffsetPx != slices[i-1].End() {
				return false
			}
			if i < len(slices)-1 && s.SliceHeightPx != pageHeight {
				return false
			}
			sum += s.SliceHeightPx
		}
		if len(slices) > 0 && (slices[0].SourceOffsetPx != 0 || slices[len(slices)-1].End() != sourceTotal) {
			return false
		}
		return sum == sourceTotal
	}

	cfg := &quick.Config{MaxCount: 1000}
	if err := quick.Check(f, cfg); err != nil {
		t.Error(err)
	}
}

// TestPropertySourcePageHeightFits verifies the converted height never
// overflows the printable area once scaled back.
func TestPropertySourcePageHeightFits(t *testing.T) {
	f := func(w, h, src uint16) bool {
		printableW := float64(w%400) + 1
		printableH := float64(h%400) + 1
		sourceWidth := int(src%4000) + 1

		px, err := SourcePageHeight(printableW, printableH, sourceWidth)
		if err != nil || px < 1 {
			return false
		}
		if px == 1 {
			return true
		}
		scaled := float64(px) * printableW / float64(sourceWidth)
		return scaled <= printableH+1e-9
	}

	cfg := &quick.Config{MaxCount: 1000}
	if err := quick.Check(f, cfg); err != nil {
		t.Error(err)
	}
}
