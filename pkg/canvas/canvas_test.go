package canvas

import (
	"context"
	"image/color"
	"testing"

	"github.com/matzehuels/easel/pkg/errors"
	"github.com/matzehuels/easel/pkg/geometry"
	"github.com/matzehuels/easel/pkg/raster"
)

// stubShape reports a fixed bounding box and optionally paints one pixel.
type stubShape struct {
	box   geometry.BoundingBox
	pixel *geometry.Point
	color color.RGBA
}

func (s *stubShape) BoundingBox() geometry.BoundingBox { return s.box }

func (s *stubShape) Draw(sink raster.Sink, c *Canvas) error {
	if s.pixel == nil {
		return nil
	}
	p, err := c.PointToPixels(*s.pixel)
	if err != nil {
		return err
	}
	sink.SetPixel(int(p.X), int(p.Y), s.color, 1)
	return nil
}

// insetImage builds a 1000x1000 image with a subcanvas inset by 50 pixels
// on every side.
func insetImage(t *testing.T) (*Image, *Canvas) {
	t.Helper()
	img := newTestImage(t, 1000, 1000)
	master := img.Master()
	sub := master.FloatingSubCanvas()
	mustRelate(t, img, master, PartLeft, sub, PartLeft, 50)
	mustRelate(t, img, sub, PartRight, master, PartRight, 50)
	mustRelate(t, img, master, PartBottom, sub, PartBottom, 50)
	mustRelate(t, img, sub, PartTop, master, PartTop, 50)
	return img, sub
}

func TestPointToPixelsPassthrough(t *testing.T) {
	_, sub := insetImage(t)

	p, err := sub.PointToPixels(geometry.PixelPoint(123, 456))
	if err != nil {
		t.Fatalf("PointToPixels: %v", err)
	}
	if p.X != 123 || p.Y != 456 {
		t.Errorf("pixel point mapped to (%v, %v)", p.X, p.Y)
	}
	if p.UnitX != geometry.Pixels || p.UnitY != geometry.Pixels {
		t.Errorf("result units = (%v, %v), want pixels", p.UnitX, p.UnitY)
	}
}

func TestPointToPixelsProportional(t *testing.T) {
	_, sub := insetImage(t)

	tests := []struct {
		x, y         float64
		wantX, wantY float64
	}{
		{0, 0, 50, 50},
		{1, 1, 950, 950},
		{0.5, 0.5, 500, 500},
		{0.25, 0.75, 275, 725},
	}
	for _, tt := range tests {
		p, err := sub.PointToPixels(geometry.ProportionalPoint(tt.x, tt.y))
		if err != nil {
			t.Fatalf("PointToPixels(%v, %v): %v", tt.x, tt.y, err)
		}
		if p.X != tt.wantX || p.Y != tt.wantY {
			t.Errorf("(%v, %v) mapped to (%v, %v), want (%v, %v)",
				tt.x, tt.y, p.X, p.Y, tt.wantX, tt.wantY)
		}
	}
}

func TestPointToPixelsCoordinate(t *testing.T) {
	_, sub := insetImage(t)
	sub.SetCoordinates(Coordinates{Left: 0, Right: 10, Bottom: 0, Top: 5})

	p, err := sub.PointToPixels(geometry.CoordinatePoint(5, 2.5))
	if err != nil {
		t.Fatalf("PointToPixels: %v", err)
	}
	if p.X != 500 || p.Y != 500 {
		t.Errorf("coordinate midpoint mapped to (%v, %v), want (500, 500)", p.X, p.Y)
	}

	p, err = sub.PointToPixels(geometry.CoordinatePoint(0, 5))
	if err != nil {
		t.Fatalf("PointToPixels: %v", err)
	}
	if p.X != 50 || p.Y != 950 {
		t.Errorf("coordinate corner mapped to (%v, %v), want (50, 950)", p.X, p.Y)
	}
}

func TestPointToPixelsCoordinateWithoutSystem(t *testing.T) {
	_, sub := insetImage(t)

	if _, err := sub.PointToPixels(geometry.CoordinatePoint(1, 1)); !errors.Is(err, errors.ErrCodeInvalidPoint) {
		t.Errorf("error = %v, want INVALID_POINT", err)
	}
}

func TestPointToPixelsRelativeToMaster(t *testing.T) {
	_, sub := insetImage(t)

	p := geometry.ProportionalPoint(0.5, 0.5)
	p.RelativeToMasterX = true

	got, err := sub.PointToPixels(p)
	if err != nil {
		t.Fatalf("PointToPixels: %v", err)
	}
	// X resolves against the master frame (0..1000), Y against the
	// subcanvas frame (50..950).
	if got.X != 500 || got.Y != 500 {
		t.Errorf("mapped to (%v, %v), want (500, 500)", got.X, got.Y)
	}

	q := geometry.ProportionalPoint(0, 0)
	q.RelativeToMasterX = true
	q.RelativeToMasterY = true
	got, err = sub.PointToPixels(q)
	if err != nil {
		t.Fatalf("PointToPixels: %v", err)
	}
	if got.X != 0 || got.Y != 0 {
		t.Errorf("master-relative origin mapped to (%v, %v), want (0, 0)", got.X, got.Y)
	}
}

func TestDisplacementToPixels(t *testing.T) {
	_, sub := insetImage(t)
	sub.SetCoordinates(Coordinates{Left: 0, Right: 10, Bottom: 0, Top: 10})

	d, err := sub.DisplacementToPixels(geometry.Displacement{
		DX: 0.5, DY: 0.5,
		UnitDX: geometry.Proportional, UnitDY: geometry.Proportional,
	})
	if err != nil {
		t.Fatalf("DisplacementToPixels: %v", err)
	}
	// Half of the 900-pixel span, no origin offset.
	if d.DX != 450 || d.DY != 450 {
		t.Errorf("proportional displacement = (%v, %v), want (450, 450)", d.DX, d.DY)
	}

	d, err = sub.DisplacementToPixels(geometry.Displacement{
		DX: 1, DY: 2,
		UnitDX: geometry.Coordinate, UnitDY: geometry.Coordinate,
	})
	if err != nil {
		t.Fatalf("DisplacementToPixels: %v", err)
	}
	if d.DX != 90 || d.DY != 180 {
		t.Errorf("coordinate displacement = (%v, %v), want (90, 180)", d.DX, d.DY)
	}
}

func TestRenderPaintsBackgroundsAndShapes(t *testing.T) {
	img, sub := insetImage(t)
	red := color.RGBA{R: 200, A: 255}
	blue := color.RGBA{B: 200, A: 255}
	sub.SetBackground(red)
	sub.AddShape(&stubShape{
		pixel: &geometry.Point{X: 0.5, Y: 0.5, UnitX: geometry.Proportional, UnitY: geometry.Proportional},
		color: blue,
	})

	bmp := raster.NewBitmap(1000, 1000)
	if err := img.Render(context.Background(), bmp); err != nil {
		t.Fatalf("Render: %v", err)
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := bmp.GetPixel(10, 10); got != white {
		t.Errorf("master background pixel = %v, want white", got)
	}
	if got := bmp.GetPixel(60, 60); got != red {
		t.Errorf("subcanvas pixel = %v, want red", got)
	}
	if got := bmp.GetPixel(500, 500); got != blue {
		t.Errorf("shape pixel = %v, want blue", got)
	}
}

func TestRenderSkipsUnpaintedBackground(t *testing.T) {
	img, sub := insetImage(t)
	sub.SetBackground(color.RGBA{R: 200, A: 255})
	sub.SetPaintBackground(false)

	bmp := raster.NewBitmap(1000, 1000)
	if err := img.Render(context.Background(), bmp); err != nil {
		t.Fatalf("Render: %v", err)
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := bmp.GetPixel(500, 500); got != white {
		t.Errorf("pixel = %v, want master white showing through", got)
	}
}

func TestAddShapeInvalidatesLayout(t *testing.T) {
	img, sub := insetImage(t)
	mustLocation(t, img, sub)
	if img.needsCalculate {
		t.Fatal("layout still dirty after read")
	}

	sub.AddShape(&stubShape{})
	if !img.needsCalculate {
		t.Error("AddShape did not mark the layout dirty")
	}
}
