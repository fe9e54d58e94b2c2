package scene

import (
	"image/color"
	"math"

	"github.com/matzehuels/easel/pkg/canvas"
	"github.com/matzehuels/easel/pkg/errors"
	"github.com/matzehuels/easel/pkg/geometry"
	"github.com/matzehuels/easel/pkg/shapes"
)

// MasterName is the reserved canvas name referring to the image root.
const MasterName = "master"

// Build constructs a layout image from the scene. The returned map
// resolves canvas names, including "master", to the created canvases.
// Building validates references and colors but does not solve the layout;
// solving happens lazily on first read or render.
func (s *Scene) Build() (*canvas.Image, map[string]*canvas.Canvas, error) {
	img, err := canvas.New(s.Width, s.Height)
	if err != nil {
		return nil, nil, err
	}

	byName := map[string]*canvas.Canvas{MasterName: img.Master()}

	for _, spec := range s.Canvases {
		if spec.Name == "" || spec.Name == MasterName {
			return nil, nil, errors.New(errors.ErrCodeInvalidScene,
				"canvas name %q is empty or reserved", spec.Name)
		}
		if _, dup := byName[spec.Name]; dup {
			return nil, nil, errors.New(errors.ErrCodeInvalidScene,
				"duplicate canvas name %q", spec.Name)
		}

		parentName := spec.Parent
		if parentName == "" {
			parentName = MasterName
		}
		parent, ok := byName[parentName]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidScene,
				"canvas %q refers to unknown parent %q", spec.Name, parentName)
		}

		c := parent.FloatingSubCanvas()
		if spec.Background != "" {
			col, err := ParseColor(spec.Background)
			if err != nil {
				return nil, nil, err
			}
			c.SetBackground(col)
		}
		if spec.NoBackground {
			c.SetPaintBackground(false)
		}
		if spec.FixedWidth != nil {
			c.SetFixedWidth(*spec.FixedWidth)
		}
		if spec.FixedHeight != nil {
			c.SetFixedHeight(*spec.FixedHeight)
		}
		if spec.Coordinates != nil {
			c.SetCoordinates(spec.Coordinates.toCoordinates())
		}
		byName[spec.Name] = c
	}

	for i, spec := range s.Fixes {
		if err := s.buildFix(img, byName, spec); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "fix %d", i)
		}
	}

	for i, spec := range s.Shapes {
		if err := buildShape(byName, spec); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "shape %d", i)
		}
	}

	return img, byName, nil
}

func (s *Scene) buildFix(img *canvas.Image, byName map[string]*canvas.Canvas, spec FixSpec) error {
	lookup := func(name string) (*canvas.Canvas, error) {
		c, ok := byName[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown canvas %q", name)
		}
		return c, nil
	}

	a, err := lookup(spec.A)
	if err != nil {
		return err
	}

	var fix *canvas.Fix
	switch spec.Kind {
	case "relate":
		b, err := lookup(spec.B)
		if err != nil {
			return err
		}
		pa, err := parsePart(spec.PartA)
		if err != nil {
			return err
		}
		pb, err := parsePart(spec.PartB)
		if err != nil {
			return err
		}
		fix, err = img.Relate(a, pa, b, pb, spec.Offset)
		if err != nil {
			return err
		}

	case "dimensions":
		dim, err := parseDim(spec.DimA)
		if err != nil {
			return err
		}
		fix, err = img.Dimensions(a, dim, spec.Extent)
		if err != nil {
			return err
		}

	case "scale":
		b, err := lookup(spec.B)
		if err != nil {
			return err
		}
		pa, err := parsePart(spec.PartA)
		if err != nil {
			return err
		}
		dim, err := parseDim(spec.DimB)
		if err != nil {
			return err
		}
		fix, err = img.Scale(a, pa, b, dim, spec.Lambda)
		if err != nil {
			return err
		}

	case "relative-size":
		b, err := lookup(spec.B)
		if err != nil {
			return err
		}
		da, err := parseDim(spec.DimA)
		if err != nil {
			return err
		}
		db, err := parseDim(spec.DimB)
		if err != nil {
			return err
		}
		fix, err = img.RelativeSize(a, da, b, db, spec.Scale)
		if err != nil {
			return err
		}

	default:
		return errors.New(errors.ErrCodeInvalidFix, "unknown fix kind %q", spec.Kind)
	}

	if spec.Description != "" {
		fix.SetDescription(spec.Description)
	}
	return nil
}

func buildShape(byName map[string]*canvas.Canvas, spec ShapeSpec) error {
	c, ok := byName[spec.Canvas]
	if !ok {
		return errors.New(errors.ErrCodeInvalidScene, "unknown canvas %q", spec.Canvas)
	}

	col := color.RGBA{A: 255}
	if spec.Color != "" {
		parsed, err := ParseColor(spec.Color)
		if err != nil {
			return err
		}
		col = parsed
	}

	switch spec.Kind {
	case "marker":
		at, err := requirePoint(spec.At, "at")
		if err != nil {
			return err
		}
		size := spec.Size
		if size <= 0 {
			size = 3
		}
		c.AddShape(&shapes.Marker{Center: at, Size: size, Color: col, Z: spec.Z})

	case "segment":
		from, err := requirePoint(spec.From, "from")
		if err != nil {
			return err
		}
		to, err := requirePoint(spec.To, "to")
		if err != nil {
			return err
		}
		c.AddShape(&shapes.Segment{From: from, To: to, Color: col, Z: spec.Z})

	case "rect":
		a, err := requirePoint(spec.A, "a")
		if err != nil {
			return err
		}
		b, err := requirePoint(spec.B, "b")
		if err != nil {
			return err
		}
		c.AddShape(&shapes.Rect{A: a, B: b, Color: col, Fill: spec.Fill, Z: spec.Z})

	default:
		return errors.New(errors.ErrCodeInvalidScene, "unknown shape kind %q", spec.Kind)
	}
	return nil
}

func requirePoint(p *PointSpec, field string) (geometry.Point, error) {
	if p == nil {
		return geometry.Point{}, errors.New(errors.ErrCodeInvalidScene, "missing point %q", field)
	}
	return p.toPoint()
}

func (p *PointSpec) toPoint() (geometry.Point, error) {
	ux, err := parseUnit(p.UnitX)
	if err != nil {
		return geometry.Point{}, err
	}
	uy, err := parseUnit(p.UnitY)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{
		X: p.X, Y: p.Y,
		UnitX: ux, UnitY: uy,
		RelativeToMasterX: p.MasterX,
		RelativeToMasterY: p.MasterY,
	}, nil
}

func (c *CoordSpec) toCoordinates() canvas.Coordinates {
	coords := canvas.UnspecifiedCoordinates()
	pick := func(v *float64) float64 {
		if v == nil {
			return math.NaN()
		}
		return *v
	}
	coords.Left = pick(c.Left)
	coords.Right = pick(c.Right)
	coords.Bottom = pick(c.Bottom)
	coords.Top = pick(c.Top)
	return coords
}

func parsePart(s string) (canvas.Part, error) {
	switch s {
	case "left":
		return canvas.PartLeft, nil
	case "right":
		return canvas.PartRight, nil
	case "bottom":
		return canvas.PartBottom, nil
	case "top":
		return canvas.PartTop, nil
	case "center-x":
		return canvas.PartCenterX, nil
	case "center-y":
		return canvas.PartCenterY, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidFix, "unknown part %q", s)
}

func parseDim(s string) (canvas.Dimension, error) {
	switch s {
	case "x":
		return canvas.DimX, nil
	case "y":
		return canvas.DimY, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidFix, "unknown dimension %q", s)
}

func parseUnit(s string) (geometry.Unit, error) {
	switch s {
	case "", "px":
		return geometry.Pixels, nil
	case "prop":
		return geometry.Proportional, nil
	case "coord":
		return geometry.Coordinate, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidPoint, "unknown unit %q", s)
}
