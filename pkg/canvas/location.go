package canvas

import (
	"fmt"
	"math"
)

// Location is a solved pixel rectangle. Once solved, Left <= Right and
// Bottom <= Top. The high edges are conceptually exclusive.
type Location struct {
	Left, Bottom, Right, Top int
}

// Width returns the horizontal span in pixels.
func (l Location) Width() int { return l.Right - l.Left }

// Height returns the vertical span in pixels.
func (l Location) Height() int { return l.Top - l.Bottom }

// String renders the rectangle for diagnostics.
func (l Location) String() string {
	return fmt.Sprintf("(left=%d, bottom=%d, right=%d, top=%d)", l.Left, l.Bottom, l.Right, l.Top)
}

// CoordinateDescription is a canvas's resolved data-coordinate bounding
// box. HasCoordinates reports whether any coordinate system applies; when
// false the numeric fields are meaningless.
type CoordinateDescription struct {
	HasCoordinates           bool
	Left, Right, Bottom, Top float64
}

// Coordinates declares explicit data-coordinate bounds for a canvas.
// An absent edge (NaN) is left to inference; a present edge always
// overrides whatever inference would produce for it.
type Coordinates struct {
	Left, Right, Bottom, Top float64
}

// UnspecifiedCoordinates returns a Coordinates value with every edge left
// to inference.
func UnspecifiedCoordinates() Coordinates {
	nan := math.NaN()
	return Coordinates{Left: nan, Right: nan, Bottom: nan, Top: nan}
}

func (c Coordinates) anySet() bool {
	return !math.IsNaN(c.Left) || !math.IsNaN(c.Right) || !math.IsNaN(c.Bottom) || !math.IsNaN(c.Top)
}

// Part identifies an edge or center line of a locatable.
type Part int

const (
	PartLeft Part = iota
	PartRight
	PartBottom
	PartTop
	PartCenterX
	PartCenterY
)

// String returns the lowercase part name.
func (p Part) String() string {
	switch p {
	case PartLeft:
		return "left"
	case PartRight:
		return "right"
	case PartBottom:
		return "bottom"
	case PartTop:
		return "top"
	case PartCenterX:
		return "center-x"
	case PartCenterY:
		return "center-y"
	}
	return "unknown"
}

// Dimension identifies an axis of a locatable.
type Dimension int

const (
	DimX Dimension = iota
	DimY
)

// String returns the lowercase dimension name.
func (d Dimension) String() string {
	if d == DimY {
		return "y"
	}
	return "x"
}

// lesser returns the low edge of the dimension (left or bottom).
func (d Dimension) lesser() Part {
	if d == DimY {
		return PartBottom
	}
	return PartLeft
}

// greater returns the high edge of the dimension (right or top).
func (d Dimension) greater() Part {
	if d == DimY {
		return PartTop
	}
	return PartRight
}
