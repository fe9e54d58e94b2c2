// Package scene loads declarative scene files and builds layout images
// from them.
//
// A scene file is TOML: top-level image dimensions, then [[canvas]],
// [[fix]], and [[shape]] tables. Canvases and fixes refer to each other by
// name; the name "master" is reserved for the root canvas. [Scene.Build]
// turns a parsed scene into a ready-to-render [canvas.Image].
//
// A solved layout can be snapshotted into a [Layout] document for export
// or persistence. Layout documents carry both JSON and BSON tags so the
// same struct serves file export and document storage.
package scene

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/easel/pkg/errors"
)

// Scene is the parsed form of a scene file.
type Scene struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`

	Canvases []CanvasSpec `toml:"canvas"`
	Fixes    []FixSpec    `toml:"fix"`
	Shapes   []ShapeSpec  `toml:"shape"`
}

// CanvasSpec declares one subcanvas.
type CanvasSpec struct {
	Name   string `toml:"name"`
	Parent string `toml:"parent"` // empty means master

	Background   string `toml:"background"` // hex color, empty keeps white
	NoBackground bool   `toml:"no_background"`

	FixedWidth  *float64 `toml:"fixed_width"`
	FixedHeight *float64 `toml:"fixed_height"`

	Coordinates *CoordSpec `toml:"coordinates"`
}

// CoordSpec declares explicit data-coordinate bounds. Nil fields stay
// subject to inference.
type CoordSpec struct {
	Left   *float64 `toml:"left"`
	Right  *float64 `toml:"right"`
	Bottom *float64 `toml:"bottom"`
	Top    *float64 `toml:"top"`
}

// FixSpec declares one fix. Kind selects which of the remaining fields
// apply.
type FixSpec struct {
	Kind string `toml:"kind"` // relate, dimensions, scale, relative-size

	A     string `toml:"a"`
	B     string `toml:"b"`
	PartA string `toml:"part_a"`
	PartB string `toml:"part_b"`
	DimA  string `toml:"dim_a"`
	DimB  string `toml:"dim_b"`

	Offset float64 `toml:"offset"` // relate
	Extent float64 `toml:"extent"` // dimensions
	Lambda float64 `toml:"lambda"` // scale
	Scale  float64 `toml:"scale"`  // relative-size

	Description string `toml:"description"`
}

// PointSpec is a unit-tagged point. Units default to pixels.
type PointSpec struct {
	X     float64 `toml:"x"`
	Y     float64 `toml:"y"`
	UnitX string  `toml:"unit_x"` // px, prop, coord
	UnitY string  `toml:"unit_y"`

	MasterX bool `toml:"master_x"`
	MasterY bool `toml:"master_y"`
}

// ShapeSpec declares one shape on a named canvas.
type ShapeSpec struct {
	Canvas string `toml:"canvas"`
	Kind   string `toml:"kind"` // marker, segment, rect

	At   *PointSpec `toml:"at"`   // marker
	From *PointSpec `toml:"from"` // segment
	To   *PointSpec `toml:"to"`
	A    *PointSpec `toml:"a"` // rect corners
	B    *PointSpec `toml:"b"`

	Size  int     `toml:"size"`
	Color string  `toml:"color"`
	Fill  bool    `toml:"fill"`
	Z     float64 `toml:"z"`
}

// Parse decodes a scene from TOML bytes.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	return &s, nil
}

// Load reads and decodes a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read scene %s", path)
	}
	return Parse(data)
}
