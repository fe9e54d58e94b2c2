package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestBitmapStartsWhite(t *testing.T) {
	b := NewBitmap(4, 4)
	if got := b.GetPixel(2, 2); got != white {
		t.Errorf("GetPixel = %v, want white", got)
	}
}

func TestSetPixelHonorsPermittedRegion(t *testing.T) {
	b := NewBitmap(10, 10)
	b.SetPermittedRegion(2, 5, 2, 5)

	b.SetPixel(3, 3, red, 0) // inside
	b.SetPixel(7, 7, red, 0) // outside
	b.SetPixel(5, 3, red, 0) // on the exclusive edge

	if got := b.GetPixel(3, 3); got != red {
		t.Errorf("inside region: pixel = %v, want red", got)
	}
	if got := b.GetPixel(7, 7); got != white {
		t.Errorf("outside region: pixel = %v, want untouched white", got)
	}
	if got := b.GetPixel(5, 3); got != white {
		t.Errorf("exclusive edge: pixel = %v, want untouched white", got)
	}
}

func TestSetPermittedRegionClampsToBounds(t *testing.T) {
	b := NewBitmap(4, 4)
	b.SetPermittedRegion(-10, 100, -10, 100)
	b.SetPixel(0, 0, red, 0)
	b.SetPixel(3, 3, red, 0)
	if b.GetPixel(0, 0) != red || b.GetPixel(3, 3) != red {
		t.Error("clamped region should still cover the full bitmap")
	}
}

func TestZOrder(t *testing.T) {
	b := NewBitmap(2, 2)

	b.SetPixel(0, 0, red, 5)
	b.SetPixel(0, 0, green, 1) // below: dropped
	if got := b.GetPixel(0, 0); got != red {
		t.Errorf("lower z overwrote: pixel = %v, want red", got)
	}

	b.SetPixel(0, 0, green, 5) // equal z: last writer wins
	if got := b.GetPixel(0, 0); got != green {
		t.Errorf("equal z should overwrite: pixel = %v, want green", got)
	}
}

func TestImageFlipsRows(t *testing.T) {
	b := NewBitmap(2, 3)
	b.SetPixel(0, 0, red, 0) // bottom-left in sink space

	img := b.Image()
	// Bottom-left must become the last row in image space.
	if got := img.RGBAAt(0, 2); got != red {
		t.Errorf("image bottom row = %v, want red", got)
	}
	if got := img.RGBAAt(0, 0); got != white {
		t.Errorf("image top row = %v, want white", got)
	}
}

func TestEncodePNG(t *testing.T) {
	b := NewBitmap(8, 6)
	b.SetPixel(1, 1, red, 0)

	var buf bytes.Buffer
	if err := b.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 6 {
		t.Errorf("decoded size = %dx%d, want 8x6", cfg.Width, cfg.Height)
	}
}
