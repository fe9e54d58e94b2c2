package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/easel/pkg/canvas"
)

// Layout is a solved-geometry snapshot of an image: the rectangle and
// coordinate window of every named canvas. It is the unit of export and
// persistence; the BSON tags match the document store schema.
type Layout struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`

	Canvases []CanvasLayout `json:"canvases" bson:"canvases"`
}

// CanvasLayout is one canvas's solved state.
type CanvasLayout struct {
	Name string `json:"name" bson:"name"`

	Left   int `json:"left" bson:"left"`
	Bottom int `json:"bottom" bson:"bottom"`
	Right  int `json:"right" bson:"right"`
	Top    int `json:"top" bson:"top"`

	Coordinates *CoordWindow `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// CoordWindow is a resolved data-coordinate window.
type CoordWindow struct {
	Left   float64 `json:"left" bson:"left"`
	Right  float64 `json:"right" bson:"right"`
	Bottom float64 `json:"bottom" bson:"bottom"`
	Top    float64 `json:"top" bson:"top"`
}

// Snapshot solves the image if needed and captures every named canvas.
// Canvases are emitted in name order with "master" first.
func Snapshot(img *canvas.Image, byName map[string]*canvas.Canvas) (*Layout, error) {
	names := make([]string, 0, len(byName))
	for name := range byName {
		if name != MasterName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := byName[MasterName]; ok {
		names = append([]string{MasterName}, names...)
	}

	layout := &Layout{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Width:     img.Width(),
		Height:    img.Height(),
	}

	for _, name := range names {
		c := byName[name]
		loc, err := img.Location(c)
		if err != nil {
			return nil, err
		}
		cl := CanvasLayout{
			Name: name,
			Left: loc.Left, Bottom: loc.Bottom, Right: loc.Right, Top: loc.Top,
		}
		desc, err := img.CoordinateDescription(c)
		if err != nil {
			return nil, err
		}
		if desc.HasCoordinates {
			cl.Coordinates = &CoordWindow{
				Left: desc.Left, Right: desc.Right,
				Bottom: desc.Bottom, Top: desc.Top,
			}
		}
		layout.Canvases = append(layout.Canvases, cl)
	}
	return layout, nil
}

// Canvas returns the layout entry with the given name.
func (l *Layout) Canvas(name string) (CanvasLayout, bool) {
	for _, c := range l.Canvases {
		if c.Name == name {
			return c, true
		}
	}
	return CanvasLayout{}, false
}

// WriteLayout encodes a layout as indented JSON.
func WriteLayout(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// ExportLayout writes a layout to a JSON file at path.
func ExportLayout(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(l, f)
}

// ReadLayout decodes a layout from JSON.
func ReadLayout(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &l, nil
}
