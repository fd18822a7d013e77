// pagination.go — Page slicing of a tall surface into fixed-height windows.
package pagination

import (
	"errors"
	"fmt"
)

// ErrInvalidPageHeight is returned when the page height is zero or negative.
var ErrInvalidPageHeight = errors.New("page height must be positive")

// PageSlice is one page-sized window of the source surface.
type PageSlice struct {
	Index          int `json:"index"`
	SourceOffsetPx int `json:"source_offset_px"`
	SliceHeightPx  int `json:"slice_height_px"`
}

// End is the first source row after the slice.
func (s PageSlice) End() int {
	return s.SourceOffsetPx + s.SliceHeightPx
}

// Paginate cuts sourceTotalHeightPx into slices of at most pageHeightPx.
// A surface no taller than one page yields a single slice; an empty surface
// yields none.
func Paginate(sourceTotalHeightPx, pageHeightPx int) ([]PageSlice, error) {
	if pageHeightPx <= 0 {
		return nil, fmt.Errorf("paginate: %w (got %d)", ErrInvalidPageHeight, pageHeightPx)
	}
	if sourceTotalHeightPx <= 0 {
		return []PageSlice{}, nil
	}

	count := PageCount(sourceTotalHeightPx, pageHeightPx)
	slices := make([]PageSlice, 0, count)
	offset := 0
	for index := 0; index < count; index++ {
		height := pageHeightPx
		if rest := sourceTotalHeightPx - offset; rest < height {
			height = rest
		}
		slices = append(slices, PageSlice{Index: index, SourceOffsetPx: offset, SliceHeightPx: height})
		// Only advance while another slice follows; offset+page < total then.
		if index < count-1 {
			offset += pageHeightPx
		}
	}
	return slices, nil
}

// PageCount is ceil(total/page), or 0 when either argument is non-positive.
// It does not overflow for any int inputs.
func PageCount(sourceTotalHeightPx, pageHeightPx int) int {
	if sourceTotalHeightPx <= 0 || pageHeightPx <= 0 {
		return 0
	}
	n := sourceTotalHeightPx / pageHeightPx
	if sourceTotalHeightPx%pageHeightPx != 0 {
		n++
	}
	return n
}
