// doc.go — Package documentation for report rasterization and PDF output.

// Package render draws an analysis report onto one tall raster surface and
// writes that surface to a fixed-page PDF.
//
// The surface is composed in two passes over the same drawing code: a dry
// pass measures the height, the second pass draws into an image of exactly
// that height. WritePDF then asks the pagination engine for a page plan and
// places one slice per page.
package render
