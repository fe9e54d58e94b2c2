// Package geometry provides the value types shared by the layout engine:
// points and displacements with per-axis unit kinds, and NaN-based bounding
// boxes whose edges may be independently absent.
//
// # Unit Kinds
//
// A point's x and y components each carry one of three unit kinds:
//
//   - [Pixels]: an absolute pixel value, used as-is.
//   - [Proportional]: a fraction (0..1) of the owning canvas's solved span.
//   - [Coordinate]: a data-coordinate value, mapped linearly through the
//     owning canvas's coordinate bounding box.
//
// Resolution of Proportional and Coordinate values requires a solved canvas
// rectangle and happens in package canvas.
//
// # Absent Values
//
// Bounding-box edges use NaN to mean "no extent on this axis", not zero.
// Use [BoundingBox.Merge] to accumulate extents across shapes; absent edges
// never win against present ones.
package geometry
