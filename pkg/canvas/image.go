package canvas

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/easel/pkg/errors"
	"github.com/matzehuels/easel/pkg/observability"
	"github.com/matzehuels/easel/pkg/raster"
)

// defaultCoordEpsilon is the half-width of the synthetic coordinate window
// used when a canvas has no usable coordinate extent on an axis.
const defaultCoordEpsilon = 1e-4

// Image is the root of a layout. It owns the canvas tree, the locatable
// registry, and the declared fixes, and it caches the solved geometry until
// a mutation invalidates it.
//
// An Image is not safe for concurrent use.
type Image struct {
	width, height int

	master     *Canvas
	canvases   []*Canvas
	fixes      []*Fix
	locatables IndexedLocatables

	coordEpsilon float64

	needsCalculate bool
	calculated     bool

	logger *log.Logger
}

// New creates an image of the given pixel dimensions. The master canvas is
// created and registered immediately and always solves to the full
// rectangle (0, 0, width, height).
func New(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidScene,
			"image dimensions must be positive, got %dx%d", width, height)
	}
	img := &Image{
		width:          width,
		height:         height,
		coordEpsilon:   defaultCoordEpsilon,
		needsCalculate: true,
		logger:         log.Default(),
	}
	img.master = newCanvas(img, nil)
	img.registerCanvas(img.master)
	return img, nil
}

// SetLogger replaces the logger used for solver diagnostics.
func (img *Image) SetLogger(l *log.Logger) {
	if l != nil {
		img.logger = l
	}
}

// Master returns the root canvas.
func (img *Image) Master() *Canvas { return img.master }

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Canvases returns all canvases in registration order, master first.
func (img *Image) Canvases() []*Canvas {
	out := make([]*Canvas, len(img.canvases))
	copy(out, img.canvases)
	return out
}

// RegisterLocatable adds a non-canvas locatable (e.g. a fixed-size legend
// box) to the layout. Registering the same locatable twice is a no-op.
func (img *Image) RegisterLocatable(loc Locatable) {
	if _, added := img.locatables.Add(loc); added {
		img.invalidate()
	}
}

func (img *Image) registerCanvas(c *Canvas) {
	img.canvases = append(img.canvases, c)
	img.locatables.Add(c)
	img.invalidate()
}

func (img *Image) invalidate() {
	img.needsCalculate = true
}

// LocatableIndex returns the registry index of loc, the same index fixes
// report through [Fix.Targets].
func (img *Image) LocatableIndex(loc Locatable) (int, bool) {
	return img.locatables.Index(loc)
}

func (img *Image) locatableIndex(loc Locatable) (int, error) {
	i, ok := img.locatables.Index(loc)
	if !ok {
		return 0, errors.New(errors.ErrCodeUnregisteredLocatable,
			"locatable is not registered with this image")
	}
	return i, nil
}

func validFixValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Relate declares that part(b) sits offset pixels from part(a):
// part(b) − part(a) = offset. Both locatables must already be registered.
func (img *Image) Relate(a Locatable, partA Part, b Locatable, partB Part, offset float64) (*Fix, error) {
	if !validFixValue(offset) {
		return nil, errors.New(errors.ErrCodeInvalidFix, "relation offset must be finite, got %v", offset)
	}
	ia, err := img.locatableIndex(a)
	if err != nil {
		return nil, err
	}
	ib, err := img.locatableIndex(b)
	if err != nil {
		return nil, err
	}
	return img.addFix(&Fix{kind: fixRelation, a: ia, b: ib, partA: partA, partB: partB, value: offset}), nil
}

// Dimensions declares a fixed extent for one locatable along one axis:
// greater(a, dim) − lesser(a, dim) = extent.
func (img *Image) Dimensions(a Locatable, dim Dimension, extent float64) (*Fix, error) {
	if !validFixValue(extent) {
		return nil, errors.New(errors.ErrCodeInvalidFix, "dimensions extent must be finite, got %v", extent)
	}
	ia, err := img.locatableIndex(a)
	if err != nil {
		return nil, err
	}
	return img.addFix(&Fix{kind: fixDimensions, a: ia, dimA: dim, value: extent}), nil
}

// Scale places part(a) at interpolation fraction lambda along an axis of
// b: part(a) = (1−lambda)·lesser(b) + lambda·greater(b). Lambda outside
// [0, 1] extrapolates beyond b's extent.
func (img *Image) Scale(a Locatable, partA Part, b Locatable, dimB Dimension, lambda float64) (*Fix, error) {
	if !validFixValue(lambda) {
		return nil, errors.New(errors.ErrCodeInvalidFix, "scale fraction must be finite, got %v", lambda)
	}
	ia, err := img.locatableIndex(a)
	if err != nil {
		return nil, err
	}
	ib, err := img.locatableIndex(b)
	if err != nil {
		return nil, err
	}
	return img.addFix(&Fix{kind: fixScale, a: ia, b: ib, partA: partA, dimB: dimB, value: lambda}), nil
}

// RelativeSize ties an extent of a to a multiple of an extent of b:
// extent(a, dimA) = scale · extent(b, dimB).
func (img *Image) RelativeSize(a Locatable, dimA Dimension, b Locatable, dimB Dimension, scale float64) (*Fix, error) {
	if !validFixValue(scale) {
		return nil, errors.New(errors.ErrCodeInvalidFix, "size scale must be finite, got %v", scale)
	}
	ia, err := img.locatableIndex(a)
	if err != nil {
		return nil, err
	}
	ib, err := img.locatableIndex(b)
	if err != nil {
		return nil, err
	}
	return img.addFix(&Fix{kind: fixRelativeSize, a: ia, dimA: dimA, b: ib, dimB: dimB, value: scale}), nil
}

func (img *Image) addFix(f *Fix) *Fix {
	img.fixes = append(img.fixes, f)
	img.invalidate()
	return f
}

// Fixes returns the declared fixes in declaration order.
func (img *Image) Fixes() []*Fix {
	out := make([]*Fix, len(img.fixes))
	copy(out, img.fixes)
	return out
}

// ClearFixes removes every declared fix and invalidates cached geometry.
func (img *Image) ClearFixes() {
	img.fixes = nil
	img.invalidate()
}

// Location returns the solved rectangle of c, recomputing stale geometry
// first.
func (img *Image) Location(c *Canvas) (Location, error) {
	if err := img.ensureCalculated(); err != nil {
		return Location{}, err
	}
	if !c.located {
		return Location{}, errors.New(errors.ErrCodeInternal,
			"canvas has no solved location")
	}
	return c.location, nil
}

// CoordinateDescription returns the resolved coordinate system of c,
// recomputing stale geometry first. HasCoordinates is false when neither
// shapes nor explicit bounds give the canvas a coordinate system.
func (img *Image) CoordinateDescription(c *Canvas) (CoordinateDescription, error) {
	if err := img.ensureCalculated(); err != nil {
		return CoordinateDescription{}, err
	}
	return c.coordDesc, nil
}

// Recompute forces a full solve and coordinate inference pass regardless
// of the dirty flag.
func (img *Image) Recompute() error {
	img.invalidate()
	return img.ensureCalculated()
}

// ensureCalculated runs the solve and inference passes if any mutation
// occurred since the last successful computation.
func (img *Image) ensureCalculated() error {
	if !img.needsCalculate {
		return nil
	}
	if err := img.solve(); err != nil {
		return err
	}
	img.inferCoordinates()
	img.needsCalculate = false
	img.calculated = true
	return nil
}

// Render solves the layout if needed and rasterizes the canvas tree onto
// the sink. The sink's permitted region is left covering the full image.
func (img *Image) Render(ctx context.Context, sink raster.Sink) error {
	start := time.Now()
	observability.Render().OnRenderStart(ctx, img.width, img.height)

	err := img.ensureCalculated()
	if err == nil {
		err = img.master.write(sink)
		sink.SetPermittedRegion(0, img.width, 0, img.height)
	}

	observability.Render().OnRenderComplete(ctx, time.Since(start), err)
	return err
}
