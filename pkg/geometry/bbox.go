package geometry

import "math"

// BoundingBox is a data-coordinate bounding box with independently absent
// edges. An absent edge (NaN) means the contributing shape has no data
// extent on that side, not an extent of zero.
type BoundingBox struct {
	Left, Right, Bottom, Top float64
}

// EmptyBoundingBox returns a box with all four edges absent.
func EmptyBoundingBox() BoundingBox {
	nan := math.NaN()
	return BoundingBox{Left: nan, Right: nan, Bottom: nan, Top: nan}
}

// HasX reports whether the box has any horizontal extent information.
func (b BoundingBox) HasX() bool {
	return !math.IsNaN(b.Left) || !math.IsNaN(b.Right)
}

// HasY reports whether the box has any vertical extent information.
func (b BoundingBox) HasY() bool {
	return !math.IsNaN(b.Bottom) || !math.IsNaN(b.Top)
}

// IsEmpty reports whether all four edges are absent.
func (b BoundingBox) IsEmpty() bool {
	return !b.HasX() && !b.HasY()
}

// Merge expands b to cover other. Absent edges never displace present ones:
// an absent minimum stays absent only when both inputs are absent.
func (b BoundingBox) Merge(other BoundingBox) BoundingBox {
	return BoundingBox{
		Left:   mergeMin(b.Left, other.Left),
		Right:  mergeMax(b.Right, other.Right),
		Bottom: mergeMin(b.Bottom, other.Bottom),
		Top:    mergeMax(b.Top, other.Top),
	}
}

func mergeMin(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	}
	return math.Min(a, b)
}

func mergeMax(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	}
	return math.Max(a, b)
}
