// doc.go — Package documentation for the resource timeline layout engine.

// Package timeline turns resource timings into render-ready waterfall geometry.
//
// Each resource load is split into four contiguous phases (dns, tcp, request,
// response) that start at the resource's start time. Layout scales every phase
// to a percentage of a shared time axis:
//
//	Offsets[0]   = start / axisMax * 100
//	Widths[k]    = phase[k] / axisMax * 100, clamped to 100 - Offsets[k]
//	Offsets[k+1] = Offsets[k] + Widths[k]
//
// Every offset and width stays within [0, 100] and offsets never decrease, so a
// renderer can draw bars without further checks. Malformed input (negative
// phases, phases longer than the resource, starts past the axis, a degenerate
// axis) never fails: the value is clamped and a Correction is returned for the
// caller to log.
//
// All functions are pure. Inputs are never modified and nothing is cached, so
// the package is safe for concurrent use.
package timeline
