package geometry

import (
	"math"
	"testing"
)

func TestPointConstructors(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		unit Unit
	}{
		{"Pixel", PixelPoint(3, 4), Pixels},
		{"Proportional", ProportionalPoint(0.5, 0.25), Proportional},
		{"Coordinate", CoordinatePoint(-1, 7), Coordinate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.p.UnitX != tt.unit || tt.p.UnitY != tt.unit {
				t.Errorf("units = %v/%v, want %v", tt.p.UnitX, tt.p.UnitY, tt.unit)
			}
			if tt.p.RelativeToMasterX || tt.p.RelativeToMasterY {
				t.Error("constructors must not mark points relative to master")
			}
		})
	}
}

func TestBoundingBoxMerge(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name string
		a, b BoundingBox
		want BoundingBox
	}{
		{
			name: "BothPresent",
			a:    BoundingBox{Left: 0, Right: 1, Bottom: 0, Top: 1},
			b:    BoundingBox{Left: -1, Right: 0.5, Bottom: 0.5, Top: 2},
			want: BoundingBox{Left: -1, Right: 1, Bottom: 0, Top: 2},
		},
		{
			name: "AbsentNeverWins",
			a:    BoundingBox{Left: nan, Right: nan, Bottom: 1, Top: 2},
			b:    BoundingBox{Left: 3, Right: 4, Bottom: nan, Top: nan},
			want: BoundingBox{Left: 3, Right: 4, Bottom: 1, Top: 2},
		},
		{
			name: "BothAbsentStaysAbsent",
			a:    EmptyBoundingBox(),
			b:    EmptyBoundingBox(),
			want: EmptyBoundingBox(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Merge(tt.b)
			check := func(field string, g, w float64) {
				if math.IsNaN(w) {
					if !math.IsNaN(g) {
						t.Errorf("%s = %v, want absent", field, g)
					}
					return
				}
				if g != w {
					t.Errorf("%s = %v, want %v", field, g, w)
				}
			}
			check("Left", got.Left, tt.want.Left)
			check("Right", got.Right, tt.want.Right)
			check("Bottom", got.Bottom, tt.want.Bottom)
			check("Top", got.Top, tt.want.Top)
		})
	}
}

func TestBoundingBoxPresence(t *testing.T) {
	empty := EmptyBoundingBox()
	if !empty.IsEmpty() || empty.HasX() || empty.HasY() {
		t.Error("empty box should report no extents")
	}

	xOnly := BoundingBox{Left: 1, Right: 2, Bottom: math.NaN(), Top: math.NaN()}
	if !xOnly.HasX() || xOnly.HasY() || xOnly.IsEmpty() {
		t.Error("x-only box should report only horizontal extent")
	}
}
