// doc.go — Package documentation for fixed-height page slicing.

// Package pagination plans how one tall rendered surface is cut into pages.
//
// A surface of sourceTotalHeightPx is sliced into consecutive windows of
// pageHeightPx source pixels:
//
//	slice[i].SourceOffsetPx = i * pageHeightPx
//	slice[i].SliceHeightPx  = min(pageHeightPx, total - offset)
//
// Slices never overlap and together cover [0, total) exactly once; only the
// last slice may be shorter. A Plan adds page geometry and the anchor at which
// every slice is placed on its page.
//
// The engine is render-target agnostic: it produces a plan and writes
// nothing. A non-positive page height is a configuration error and is never
// coerced.
//
// All functions are pure.
package pagination
