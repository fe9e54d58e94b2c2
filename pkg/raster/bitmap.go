package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// Bitmap is an in-memory z-buffered RGBA surface implementing [Sink].
//
// Pixels are addressed with a bottom-left origin. A write succeeds only if
// it falls inside both the bitmap bounds and the current permitted region,
// and its z order is greater than or equal to the z of the pixel already
// there.
type Bitmap struct {
	width, height int
	pix           []color.RGBA
	zbuf          []float64

	// permitted region, half-open
	xlo, xhi, ylo, yhi int
}

// NewBitmap creates a bitmap of the given size with the permitted region
// covering the whole surface. Pixels start out opaque white at z = -inf so
// any first write lands.
func NewBitmap(width, height int) *Bitmap {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("raster: invalid bitmap size %dx%d", width, height))
	}
	b := &Bitmap{
		width:  width,
		height: height,
		pix:    make([]color.RGBA, width*height),
		zbuf:   make([]float64, width*height),
		xhi:    width,
		yhi:    height,
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for i := range b.pix {
		b.pix[i] = white
		b.zbuf[i] = math.Inf(-1)
	}
	return b
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.height }

// SetPermittedRegion restricts writes to xlo <= x < xhi, ylo <= y < yhi,
// intersected with the bitmap bounds.
func (b *Bitmap) SetPermittedRegion(xlo, xhi, ylo, yhi int) {
	b.xlo = max(xlo, 0)
	b.ylo = max(ylo, 0)
	b.xhi = min(xhi, b.width)
	b.yhi = min(yhi, b.height)
}

// ResetPermittedRegion re-opens the whole surface for writing.
func (b *Bitmap) ResetPermittedRegion() {
	b.xlo, b.ylo, b.xhi, b.yhi = 0, 0, b.width, b.height
}

// SetPixel writes a pixel, honoring the permitted region and z order.
func (b *Bitmap) SetPixel(x, y int, c color.RGBA, z float64) {
	if x < b.xlo || x >= b.xhi || y < b.ylo || y >= b.yhi {
		return
	}
	i := y*b.width + x
	if z < b.zbuf[i] {
		return
	}
	b.pix[i] = c
	b.zbuf[i] = z
}

// GetPixel returns the pixel at (x, y). Out-of-bounds reads return zero.
func (b *Bitmap) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	return b.pix[y*b.width+x]
}

// Image converts the bitmap to an image.RGBA, flipping rows so the result
// has the conventional top-left origin.
func (b *Bitmap) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		srcRow := b.pix[y*b.width : (y+1)*b.width]
		dstY := b.height - 1 - y
		for x, c := range srcRow {
			img.SetRGBA(x, dstY, c)
		}
	}
	return img
}

// EncodePNG writes the bitmap to w as PNG.
func (b *Bitmap) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Ensure Bitmap implements Sink.
var _ Sink = (*Bitmap)(nil)
