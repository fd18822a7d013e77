// doc.go — Package documentation for the report payload types.

// Package types provides the foundational, zero-dependency types for sitelens.
//
// This package contains the read-only shape of the analysis report produced by
// the external analysis engine:
//   - Report and per-category results (score, grade, metrics, issues, recommendations)
//   - Issue severities and letter grades
//   - Resource timings for the waterfall, plus the by-type aggregate
//
// Wire decoding lives next to the domain types (wire_*.go). The analysis engine
// emits several legacy shapes (issues as {type, message}, issues as bare strings,
// fractional scores); decoding normalizes them so downstream packages only ever
// see the canonical form.
//
// Design Principle: Zero Dependencies
// This package imports only the Go standard library. It is safe to import from
// timeline, pagination, render, export and server without creating cycles.
package types
