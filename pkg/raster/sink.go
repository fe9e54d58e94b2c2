package raster

import "image/color"

// Sink is a clippable pixel surface. The layout engine clips each canvas
// subtree to its solved rectangle and paints backgrounds through this
// interface; shape implementations draw through it as well.
type Sink interface {
	// SetPixel writes a pixel at (x, y) with the given z order. Writes
	// outside the permitted region, or underneath an already-written pixel
	// with a higher z, are dropped.
	SetPixel(x, y int, c color.RGBA, z float64)

	// SetPermittedRegion restricts subsequent writes to
	// xlo <= x < xhi, ylo <= y < yhi.
	SetPermittedRegion(xlo, xhi, ylo, yhi int)
}
