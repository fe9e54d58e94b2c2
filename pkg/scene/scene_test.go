package scene

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/matzehuels/easel/pkg/errors"
)

const insetScene = `
width = 1000
height = 1000

[[canvas]]
name = "plot"
background = "#eeeeff"

[[fix]]
kind = "relate"
a = "master"
part_a = "left"
b = "plot"
part_b = "left"
offset = 50.0

[[fix]]
kind = "relate"
a = "plot"
part_a = "right"
b = "master"
part_b = "right"
offset = 50.0

[[fix]]
kind = "relate"
a = "master"
part_a = "bottom"
b = "plot"
part_b = "bottom"
offset = 50.0

[[fix]]
kind = "relate"
a = "plot"
part_a = "top"
b = "master"
part_b = "top"
offset = 50.0

[[shape]]
canvas = "plot"
kind = "marker"
at = { x = 2.0, y = 3.0, unit_x = "coord", unit_y = "coord" }
size = 5
color = "#ff0000"
z = 1.0

[[shape]]
canvas = "plot"
kind = "segment"
from = { x = 0.0, y = 0.0, unit_x = "prop", unit_y = "prop" }
to = { x = 1.0, y = 1.0, unit_x = "prop", unit_y = "prop" }
color = "#0000ff"
`

func TestParseScene(t *testing.T) {
	s, err := Parse([]byte(insetScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Width != 1000 || s.Height != 1000 {
		t.Errorf("dimensions = %dx%d", s.Width, s.Height)
	}
	if len(s.Canvases) != 1 || len(s.Fixes) != 4 || len(s.Shapes) != 2 {
		t.Errorf("counts = %d canvases, %d fixes, %d shapes",
			len(s.Canvases), len(s.Fixes), len(s.Shapes))
	}
	if s.Shapes[0].At == nil || s.Shapes[0].At.UnitX != "coord" {
		t.Errorf("shape point = %+v", s.Shapes[0].At)
	}
}

func TestBuildAndSolve(t *testing.T) {
	s, err := Parse([]byte(insetScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	img, byName, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	plot, ok := byName["plot"]
	if !ok {
		t.Fatal("plot canvas missing from name map")
	}
	loc, err := img.Location(plot)
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.Left != 50 || loc.Right != 950 || loc.Bottom != 50 || loc.Top != 950 {
		t.Errorf("plot location = %v", loc)
	}

	if got := plot.Background(); got != (color.RGBA{R: 0xee, G: 0xee, B: 0xff, A: 0xff}) {
		t.Errorf("background = %v", got)
	}
}

func TestBuildRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "unknown parent",
			src:  "width = 10\nheight = 10\n[[canvas]]\nname = \"a\"\nparent = \"nope\"\n",
		},
		{
			name: "reserved name",
			src:  "width = 10\nheight = 10\n[[canvas]]\nname = \"master\"\n",
		},
		{
			name: "duplicate name",
			src:  "width = 10\nheight = 10\n[[canvas]]\nname = \"a\"\n[[canvas]]\nname = \"a\"\n",
		},
		{
			name: "fix against unknown canvas",
			src:  "width = 10\nheight = 10\n[[fix]]\nkind = \"dimensions\"\na = \"nope\"\ndim_a = \"x\"\nextent = 5.0\n",
		},
		{
			name: "unknown fix kind",
			src:  "width = 10\nheight = 10\n[[fix]]\nkind = \"weld\"\na = \"master\"\n",
		},
		{
			name: "shape without point",
			src:  "width = 10\nheight = 10\n[[shape]]\ncanvas = \"master\"\nkind = \"marker\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if _, _, err := s.Build(); !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("Build error = %v, want INVALID_SCENE", err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"#f00", color.RGBA{255, 0, 0, 255}},
		{"#102030", color.RGBA{16, 32, 48, 255}},
		{"#10203040", color.RGBA{16, 32, 48, 64}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"red", "#12345", "#gggggg", ""} {
		if _, err := ParseColor(bad); !errors.Is(err, errors.ErrCodeInvalidColor) {
			t.Errorf("ParseColor(%q) error = %v, want INVALID_COLOR", bad, err)
		}
	}
}

func TestSnapshotAndRoundTrip(t *testing.T) {
	s, err := Parse([]byte(insetScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	img, byName, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	layout, err := Snapshot(img, byName)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if layout.ID == "" {
		t.Error("layout has no ID")
	}
	if len(layout.Canvases) != 2 || layout.Canvases[0].Name != MasterName {
		t.Fatalf("canvases = %+v, want master first then plot", layout.Canvases)
	}

	plot, ok := layout.Canvas("plot")
	if !ok {
		t.Fatal("plot missing from layout")
	}
	if plot.Left != 50 || plot.Top != 950 {
		t.Errorf("plot rect = %+v", plot)
	}
	if plot.Coordinates == nil {
		t.Fatal("plot has no coordinate window despite a coordinate marker")
	}

	var buf bytes.Buffer
	if err := WriteLayout(layout, &buf); err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}
	back, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	if back.ID != layout.ID || len(back.Canvases) != len(layout.Canvases) {
		t.Errorf("round trip mismatch: %+v vs %+v", back, layout)
	}
}
