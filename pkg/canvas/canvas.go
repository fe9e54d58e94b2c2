package canvas

import (
	"image/color"

	"github.com/matzehuels/easel/pkg/errors"
	"github.com/matzehuels/easel/pkg/geometry"
	"github.com/matzehuels/easel/pkg/raster"
)

// Shape is the drawable payload of a canvas. The engine uses only the
// bounding box (for coordinate inference); drawing is delegated to the
// shape itself against the pixel sink.
type Shape interface {
	// BoundingBox returns the shape's data-coordinate extents. Edges with
	// no data extent are absent (NaN), not zero.
	BoundingBox() geometry.BoundingBox

	// Draw rasterizes the shape onto the sink, resolving its points
	// through the owning canvas.
	Draw(sink raster.Sink, c *Canvas) error
}

// Canvas is a node in a strictly-owned tree of rectangular drawing
// regions. Canvases are created only through [New] (the master) or
// [Canvas.FloatingSubCanvas]; they never reparent and live as long as
// their image.
type Canvas struct {
	image  *Image
	parent *Canvas

	children []*Canvas
	shapes   []Shape

	background      color.RGBA
	paintBackground bool

	// explicit data-coordinate bounds; absent edges are inferred
	coords Coordinates
	// resolved description, recomputed by inference
	coordDesc CoordinateDescription

	// solved rectangle
	location Location
	located  bool

	fixedWidth, fixedHeight *float64
}

func newCanvas(image *Image, parent *Canvas) *Canvas {
	return &Canvas{
		image:           image,
		parent:          parent,
		background:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		paintBackground: true,
		coords:          UnspecifiedCoordinates(),
	}
}

// FloatingSubCanvas creates a child canvas owned by c, registers it with
// the owning image, and returns it. The child has no position until fixes
// are declared and the layout is solved.
func (c *Canvas) FloatingSubCanvas() *Canvas {
	sub := newCanvas(c.image, c)
	c.children = append(c.children, sub)
	c.image.registerCanvas(sub)
	return sub
}

// AddShape appends a shape to the canvas and invalidates cached layout.
func (c *Canvas) AddShape(s Shape) {
	c.shapes = append(c.shapes, s)
	c.image.invalidate()
}

// SetBackground sets the background color painted behind the canvas.
func (c *Canvas) SetBackground(col color.RGBA) { c.background = col }

// Background returns the canvas background color.
func (c *Canvas) Background() color.RGBA { return c.background }

// SetPaintBackground controls whether the canvas paints its background
// when rendered.
func (c *Canvas) SetPaintBackground(paint bool) { c.paintBackground = paint }

// SetCoordinates declares explicit data-coordinate bounds. Absent edges
// (NaN) remain subject to inference.
func (c *Canvas) SetCoordinates(coords Coordinates) {
	c.coords = coords
	c.image.invalidate()
}

// Coordinates returns the explicit coordinate bounds declared on the
// canvas. Absent edges are NaN.
func (c *Canvas) Coordinates() Coordinates { return c.coords }

// SetFixedWidth predeclares the canvas width in pixels. The solver adds an
// implicit dimensions equation for it.
func (c *Canvas) SetFixedWidth(w float64) {
	c.fixedWidth = &w
	c.image.invalidate()
}

// SetFixedHeight predeclares the canvas height in pixels.
func (c *Canvas) SetFixedHeight(h float64) {
	c.fixedHeight = &h
	c.image.invalidate()
}

// FixedWidth implements [Locatable].
func (c *Canvas) FixedWidth() (float64, bool) {
	if c.fixedWidth == nil {
		return 0, false
	}
	return *c.fixedWidth, true
}

// FixedHeight implements [Locatable].
func (c *Canvas) FixedHeight() (float64, bool) {
	if c.fixedHeight == nil {
		return 0, false
	}
	return *c.fixedHeight, true
}

// SetLocation implements [Locatable]; the solver pushes the rounded
// rectangle here.
func (c *Canvas) SetLocation(loc Location) {
	c.location = loc
	c.located = true
}

// Image returns the image that owns this canvas.
func (c *Canvas) Image() *Image { return c.image }

// IsMaster reports whether this is the tree root.
func (c *Canvas) IsMaster() bool { return c.parent == nil }

// PointToPixels converts a point to absolute pixel coordinates using the
// canvas's solved rectangle and, for coordinate-unit components, its
// resolved coordinate description. A stale layout is recomputed first.
//
// Components marked relative-to-master resolve against the master canvas's
// rectangle instead of this canvas's own.
func (c *Canvas) PointToPixels(p geometry.Point) (geometry.Point, error) {
	if err := c.image.ensureCalculated(); err != nil {
		return geometry.Point{}, err
	}

	out := geometry.Point{UnitX: geometry.Pixels, UnitY: geometry.Pixels}

	x, err := c.resolveComponent(p.X, p.UnitX, p.RelativeToMasterX, DimX)
	if err != nil {
		return geometry.Point{}, err
	}
	y, err := c.resolveComponent(p.Y, p.UnitY, p.RelativeToMasterY, DimY)
	if err != nil {
		return geometry.Point{}, err
	}
	out.X, out.Y = x, y
	return out, nil
}

// DisplacementToPixels converts a displacement to pixels. Unlike a point,
// a displacement scales by the relevant span only and never picks up the
// frame origin.
func (c *Canvas) DisplacementToPixels(d geometry.Displacement) (geometry.Displacement, error) {
	if err := c.image.ensureCalculated(); err != nil {
		return geometry.Displacement{}, err
	}

	dx, err := c.resolveSpan(d.DX, d.UnitDX, DimX)
	if err != nil {
		return geometry.Displacement{}, err
	}
	dy, err := c.resolveSpan(d.DY, d.UnitDY, DimY)
	if err != nil {
		return geometry.Displacement{}, err
	}
	return geometry.Displacement{DX: dx, DY: dy, UnitDX: geometry.Pixels, UnitDY: geometry.Pixels}, nil
}

func (c *Canvas) resolveSpan(v float64, unit geometry.Unit, dim Dimension) (float64, error) {
	span := float64(c.location.Width())
	if dim == DimY {
		span = float64(c.location.Height())
	}

	switch unit {
	case geometry.Pixels:
		return v, nil

	case geometry.Proportional:
		return v * span, nil

	case geometry.Coordinate:
		desc := c.coordDesc
		if !desc.HasCoordinates {
			return 0, errors.New(errors.ErrCodeInvalidPoint,
				"coordinate-unit displacement on a canvas without a coordinate system")
		}
		cSpan := desc.Right - desc.Left
		if dim == DimY {
			cSpan = desc.Top - desc.Bottom
		}
		return v / cSpan * span, nil
	}

	return 0, errors.New(errors.ErrCodeInvalidPoint, "unrecognized unit kind %d", unit)
}

func (c *Canvas) resolveComponent(v float64, unit geometry.Unit, relativeToMaster bool, dim Dimension) (float64, error) {
	frame := c.location
	if relativeToMaster {
		frame = c.image.master.location
	}

	lo, hi := float64(frame.Left), float64(frame.Right)
	if dim == DimY {
		lo, hi = float64(frame.Bottom), float64(frame.Top)
	}

	switch unit {
	case geometry.Pixels:
		return v, nil

	case geometry.Proportional:
		return lo + (hi-lo)*v, nil

	case geometry.Coordinate:
		desc := c.coordDesc
		if !desc.HasCoordinates {
			return 0, errors.New(errors.ErrCodeInvalidPoint,
				"coordinate-unit point on a canvas without a coordinate system")
		}
		cLo, cHi := desc.Left, desc.Right
		if dim == DimY {
			cLo, cHi = desc.Bottom, desc.Top
		}
		frac := (v - cLo) / (cHi - cLo)
		return lo + (hi-lo)*frac, nil
	}

	return 0, errors.New(errors.ErrCodeInvalidPoint, "unrecognized unit kind %d", unit)
}

// write renders the canvas subtree onto the sink: clip to the solved
// rectangle, paint the background, draw shapes, then recurse into
// children.
func (c *Canvas) write(sink raster.Sink) error {
	loc := c.location
	sink.SetPermittedRegion(loc.Left, loc.Right, loc.Bottom, loc.Top)

	if c.paintBackground {
		for x := loc.Left; x < loc.Right; x++ {
			for y := loc.Bottom; y < loc.Top; y++ {
				sink.SetPixel(x, y, c.background, 0)
			}
		}
	}

	for _, s := range c.shapes {
		if err := s.Draw(sink, c); err != nil {
			return err
		}
	}

	for _, child := range c.children {
		if err := child.write(sink); err != nil {
			return err
		}
	}
	return nil
}
