// Package shapes provides the built-in drawables: markers, line segments,
// and rectangles. Each shape stores its geometry as unit-tagged points and
// resolves them through its owning canvas at draw time, so the same shape
// works in pixel, proportional, and data-coordinate terms.
//
// Only data-coordinate components participate in a canvas's coordinate
// inference; pixel and proportional components say nothing about the data
// window and contribute no bounding-box extent.
package shapes

import (
	"image/color"
	"math"

	"github.com/matzehuels/easel/pkg/canvas"
	"github.com/matzehuels/easel/pkg/geometry"
	"github.com/matzehuels/easel/pkg/raster"
)

// pointBox returns the bounding-box contribution of one point: its
// data-coordinate components only. Master-relative components describe a
// position in the master frame, not in this canvas's data window.
func pointBox(p geometry.Point) geometry.BoundingBox {
	box := geometry.EmptyBoundingBox()
	if p.UnitX == geometry.Coordinate && !p.RelativeToMasterX {
		box.Left, box.Right = p.X, p.X
	}
	if p.UnitY == geometry.Coordinate && !p.RelativeToMasterY {
		box.Bottom, box.Top = p.Y, p.Y
	}
	return box
}

func roundPx(v float64) int { return int(math.Round(v)) }

// Marker is a filled square of Size pixels centered on a point.
type Marker struct {
	Center geometry.Point
	Size   int
	Color  color.RGBA
	Z      float64
}

// BoundingBox implements [canvas.Shape].
func (m *Marker) BoundingBox() geometry.BoundingBox { return pointBox(m.Center) }

// Draw implements [canvas.Shape].
func (m *Marker) Draw(sink raster.Sink, c *canvas.Canvas) error {
	p, err := c.PointToPixels(m.Center)
	if err != nil {
		return err
	}
	cx, cy := roundPx(p.X), roundPx(p.Y)
	half := m.Size / 2
	for x := cx - half; x <= cx+half; x++ {
		for y := cy - half; y <= cy+half; y++ {
			sink.SetPixel(x, y, m.Color, m.Z)
		}
	}
	return nil
}

// Segment is a one-pixel-wide line between two points.
type Segment struct {
	From, To geometry.Point
	Color    color.RGBA
	Z        float64
}

// BoundingBox implements [canvas.Shape].
func (s *Segment) BoundingBox() geometry.BoundingBox {
	return pointBox(s.From).Merge(pointBox(s.To))
}

// Draw implements [canvas.Shape].
func (s *Segment) Draw(sink raster.Sink, c *canvas.Canvas) error {
	from, err := c.PointToPixels(s.From)
	if err != nil {
		return err
	}
	to, err := c.PointToPixels(s.To)
	if err != nil {
		return err
	}
	drawLine(sink, roundPx(from.X), roundPx(from.Y), roundPx(to.X), roundPx(to.Y), s.Color, s.Z)
	return nil
}

// drawLine rasterizes with Bresenham's algorithm; the sink clips.
func drawLine(sink raster.Sink, x0, y0, x1, y1 int, col color.RGBA, z float64) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		sink.SetPixel(x0, y0, col, z)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rect is an axis-aligned rectangle spanned by two opposite corners.
// When Fill is false only the one-pixel border is drawn.
type Rect struct {
	A, B  geometry.Point
	Color color.RGBA
	Fill  bool
	Z     float64
}

// BoundingBox implements [canvas.Shape].
func (r *Rect) BoundingBox() geometry.BoundingBox {
	return pointBox(r.A).Merge(pointBox(r.B))
}

// Draw implements [canvas.Shape].
func (r *Rect) Draw(sink raster.Sink, c *canvas.Canvas) error {
	a, err := c.PointToPixels(r.A)
	if err != nil {
		return err
	}
	b, err := c.PointToPixels(r.B)
	if err != nil {
		return err
	}

	x0, x1 := orderPx(a.X, b.X)
	y0, y1 := orderPx(a.Y, b.Y)

	if r.Fill {
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				sink.SetPixel(x, y, r.Color, r.Z)
			}
		}
		return nil
	}

	for x := x0; x <= x1; x++ {
		sink.SetPixel(x, y0, r.Color, r.Z)
		sink.SetPixel(x, y1, r.Color, r.Z)
	}
	for y := y0; y <= y1; y++ {
		sink.SetPixel(x0, y, r.Color, r.Z)
		sink.SetPixel(x1, y, r.Color, r.Z)
	}
	return nil
}

func orderPx(a, b float64) (lo, hi int) {
	lo, hi = roundPx(a), roundPx(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
