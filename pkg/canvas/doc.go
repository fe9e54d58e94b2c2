// Package canvas implements a declarative constraint layout engine for
// composed raster images.
//
// # Overview
//
// An [Image] owns a tree of rectangular drawing surfaces ([Canvas]). The
// master canvas always covers the full output rectangle; every other canvas
// is a floating subcanvas of an existing one. Instead of an imperative box
// model, canvases are positioned by declaring fixes: symbolic relationships
// between canvas edges, centers, and extents. At solve time the fixes are
// assembled into one global linear system (four unknowns per registered
// [Locatable]: left, bottom, right, top) and solved with a full-pivot
// elimination.
//
// # Fixes
//
// Four fix kinds exist, declared through Image factory methods:
//
//   - [Image.Relate]: part(B) − part(A) = Δ pixels
//   - [Image.Dimensions]: a fixed width or height for one locatable
//   - [Image.Scale]: an edge of A placed at an interpolation fraction
//     along an axis of B
//   - [Image.RelativeSize]: an extent of A tied to a multiple of an
//     extent of B
//
// Fixes hold registry indices, never object references, so they cannot
// dangle; declaring a fix against an unregistered locatable fails
// immediately.
//
// # Coordinate Systems
//
// Each canvas may carry a data-coordinate bounding box, inferred from the
// bounding boxes of its shapes (with explicit per-edge overrides winning).
// Point mapping converts points whose components are in pixel,
// proportional, or data-coordinate units into absolute pixels using the
// canvas's solved rectangle and its coordinate description.
//
// # Laziness
//
// Geometry-affecting mutations (adding a shape, declaring or clearing a
// fix) mark the image dirty; any read that needs fresh geometry triggers a
// full synchronous recompute. There is no incremental re-solve.
package canvas
