package geometry

import "math"

// Unit identifies how a point or displacement component is measured.
type Unit int

const (
	// Pixels is an absolute pixel value.
	Pixels Unit = iota
	// Proportional is a fraction (0..1) of the owning canvas's solved span.
	Proportional
	// Coordinate is a data-coordinate value, resolved through the owning
	// canvas's coordinate bounding box.
	Coordinate
)

// String returns the lowercase unit name.
func (u Unit) String() string {
	switch u {
	case Pixels:
		return "pixels"
	case Proportional:
		return "proportional"
	case Coordinate:
		return "coordinate"
	}
	return "unknown"
}

// Point is a location whose x and y components carry independent unit kinds.
//
// The RelativeToMaster flags mark a component as expressed in the frame of
// the image's master canvas rather than the owning canvas.
type Point struct {
	X, Y float64

	UnitX, UnitY Unit

	RelativeToMasterX bool
	RelativeToMasterY bool
}

// PixelPoint returns a point with both components in pixels.
func PixelPoint(x, y float64) Point {
	return Point{X: x, Y: y, UnitX: Pixels, UnitY: Pixels}
}

// ProportionalPoint returns a point with both components proportional to the
// owning canvas's span.
func ProportionalPoint(x, y float64) Point {
	return Point{X: x, Y: y, UnitX: Proportional, UnitY: Proportional}
}

// CoordinatePoint returns a point with both components in data coordinates.
func CoordinatePoint(x, y float64) Point {
	return Point{X: x, Y: y, UnitX: Coordinate, UnitY: Coordinate}
}

// Displacement is a direction and magnitude, e.g. an offset from a point.
// It resolves like a point measured from the origin.
type Displacement struct {
	DX, DY float64

	UnitDX, UnitDY Unit
}

// Distance is a scalar extent with a unit kind.
type Distance struct {
	Value float64
	Unit  Unit
}

// Absent is the sentinel for a missing scalar value.
func Absent() float64 { return math.NaN() }

// IsAbsent reports whether v is the absent sentinel.
func IsAbsent(v float64) bool { return math.IsNaN(v) }
