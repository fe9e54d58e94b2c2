package canvas

import (
	"context"
	"math"
	"time"

	"github.com/matzehuels/easel/pkg/geometry"
	"github.com/matzehuels/easel/pkg/observability"
)

// inferCoordinates resolves the coordinate description of every canvas
// from its shapes' bounding boxes and its explicit overrides. Inference
// is idempotent: rerunning it over unchanged canvases reproduces the same
// descriptions.
func (img *Image) inferCoordinates() {
	ctx := context.Background()
	start := time.Now()
	observability.Layout().OnInferStart(ctx, len(img.canvases))

	for _, c := range img.canvases {
		c.coordDesc = img.describeCoordinates(c)
	}

	observability.Layout().OnInferComplete(ctx, time.Since(start))
}

// describeCoordinates computes one canvas's coordinate system. A canvas
// has a coordinate system when its shapes contribute any data extent or
// any explicit bound is set; otherwise coordinate-unit points on it are
// rejected at mapping time.
func (img *Image) describeCoordinates(c *Canvas) CoordinateDescription {
	box := geometry.EmptyBoundingBox()
	for _, s := range c.shapes {
		box = box.Merge(s.BoundingBox())
	}

	if !box.HasX() && !box.HasY() && !c.coords.anySet() {
		return CoordinateDescription{}
	}

	left, right := resolveAxis(box.Left, box.Right, c.coords.Left, c.coords.Right, img.coordEpsilon)
	bottom, top := resolveAxis(box.Bottom, box.Top, c.coords.Bottom, c.coords.Top, img.coordEpsilon)
	return CoordinateDescription{
		HasCoordinates: true,
		Left:           left,
		Right:          right,
		Bottom:         bottom,
		Top:            top,
	}
}

// resolveAxis produces a non-degenerate [lo, hi] window for one axis.
// Observed extents come first: a missing axis falls back to a symmetric
// window of half-width eps around zero, a single observed value widens by
// eps on both sides. Explicit bounds then override per edge, even if that
// reintroduces a degenerate or inverted window the caller asked for.
func resolveAxis(obsLo, obsHi, expLo, expHi, eps float64) (lo, hi float64) {
	switch {
	case math.IsNaN(obsLo) && !math.IsNaN(obsHi):
		obsLo = obsHi
	case !math.IsNaN(obsLo) && math.IsNaN(obsHi):
		obsHi = obsLo
	}

	if math.IsNaN(obsLo) {
		obsLo, obsHi = -eps, eps
	} else if obsLo == obsHi {
		obsLo -= eps
		obsHi += eps
	}

	lo, hi = obsLo, obsHi
	if !math.IsNaN(expLo) {
		lo = expLo
	}
	if !math.IsNaN(expHi) {
		hi = expHi
	}
	return lo, hi
}
