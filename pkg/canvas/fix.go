package canvas

import (
	"fmt"

	"github.com/matzehuels/easel/pkg/linalg"
)

// fixKind discriminates the closed set of fix variants. Adding a variant
// requires extending every switch over fixKind; the default branches panic
// so an omission cannot pass silently.
type fixKind int

const (
	fixRelation fixKind = iota
	fixDimensions
	fixScale
	fixRelativeSize
)

// Fix is a declarative geometric constraint between registered locatables.
// It stores registry indices rather than object references, so it can never
// refer to something the image does not know about. Each fix contributes
// exactly one row of the layout system.
type Fix struct {
	kind fixKind

	// registry indices; b is unused for dimensions fixes
	a, b int

	partA, partB Part
	dimA, dimB   Dimension

	// pixel offset (relation), extent (dimensions), lambda (scale), or
	// scale factor (relative size)
	value float64

	description string
}

// Kind returns a brief variant name for diagnostics and monitoring.
func (f *Fix) Kind() string {
	switch f.kind {
	case fixRelation:
		return "Relation"
	case fixDimensions:
		return "Dimensions"
	case fixScale:
		return "Scale"
	case fixRelativeSize:
		return "RelativeSize"
	}
	panic(fmt.Sprintf("canvas: unknown fix kind %d", f.kind))
}

// SetDescription attaches a debugging description to the fix.
func (f *Fix) SetDescription(s string) { f.description = s }

// Description returns the fix's description, often empty.
func (f *Fix) Description() string { return f.description }

// Targets returns the registry indices the fix constrains. The second
// index is -1 for single-locatable fixes.
func (f *Fix) Targets() (a, b int) {
	if f.kind == fixDimensions {
		return f.a, -1
	}
	return f.a, f.b
}

// apply writes the fix's row into the system at the given row index.
func (f *Fix) apply(row int, m *linalg.Matrix, constants []float64) {
	switch f.kind {
	case fixRelation:
		// part(B) − part(A) = Δpx
		addPart(m, row, f.a, f.partA, -1)
		addPart(m, row, f.b, f.partB, +1)
		constants[row] = f.value

	case fixDimensions:
		// greater(A) − lesser(A) = extent
		addPart(m, row, f.a, f.dimA.lesser(), -1)
		addPart(m, row, f.a, f.dimA.greater(), +1)
		constants[row] = f.value

	case fixScale:
		// part(A) = (1−λ)·lesser(B) + λ·greater(B)
		addPart(m, row, f.a, f.partA, +1)
		addPart(m, row, f.b, f.dimB.lesser(), -(1 - f.value))
		addPart(m, row, f.b, f.dimB.greater(), -f.value)
		constants[row] = 0

	case fixRelativeSize:
		// extent(A, dimA) = scale · extent(B, dimB)
		addPart(m, row, f.a, f.dimA.greater(), +1)
		addPart(m, row, f.a, f.dimA.lesser(), -1)
		addPart(m, row, f.b, f.dimB.greater(), -f.value)
		addPart(m, row, f.b, f.dimB.lesser(), +f.value)
		constants[row] = 0

	default:
		panic(fmt.Sprintf("canvas: unknown fix kind %d", f.kind))
	}
}

// addPart accumulates coeff into the matrix columns representing the given
// part of locatable index idx. Each locatable owns a block of four columns
// in the order left, bottom, right, top. Center parts split the coefficient
// evenly across the two opposite edges.
func addPart(m *linalg.Matrix, row, idx int, part Part, coeff float64) {
	base := 4 * idx
	switch part {
	case PartLeft:
		m.Add(row, base+0, coeff)
	case PartBottom:
		m.Add(row, base+1, coeff)
	case PartRight:
		m.Add(row, base+2, coeff)
	case PartTop:
		m.Add(row, base+3, coeff)
	case PartCenterX:
		m.Add(row, base+0, 0.5*coeff)
		m.Add(row, base+2, 0.5*coeff)
	case PartCenterY:
		m.Add(row, base+1, 0.5*coeff)
		m.Add(row, base+3, 0.5*coeff)
	default:
		panic(fmt.Sprintf("canvas: unknown part %d", part))
	}
}
