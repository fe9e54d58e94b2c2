package canvas

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/easel/pkg/errors"
	"github.com/matzehuels/easel/pkg/linalg"
	"github.com/matzehuels/easel/pkg/observability"
)

const (
	// residualTolerance bounds the acceptable per-row residual of the
	// solved system. Larger residuals mean contradictory fixes.
	residualTolerance = 1e-4

	// perturbation applied to each unknown when probing for unpinned
	// edges, and the relative threshold below which the system is judged
	// insensitive to that unknown.
	perturbDelta     = 0.1
	perturbThreshold = 1e-6
)

// rowSource records where a system row came from, for diagnostics.
type rowSource struct {
	kind   string // "pin", "fixed-width", "fixed-height", or a fix kind
	detail string
	fix    *Fix
}

func (s rowSource) String() string {
	if s.detail == "" {
		return s.kind
	}
	return s.kind + ": " + s.detail
}

// layoutSystem is an assembled linear system plus row provenance.
type layoutSystem struct {
	m       *linalg.Matrix
	b       []float64
	sources []rowSource
}

// assemble builds the full system: four pin rows for the master, one
// implicit dimensions row per predeclared fixed extent, and one row per
// declared fix. Columns come in blocks of four per locatable, ordered
// left, bottom, right, top.
func (img *Image) assemble() *layoutSystem {
	n := img.locatables.Len()

	rows := 4
	for i := 0; i < n; i++ {
		loc := img.locatables.At(i)
		if _, ok := loc.FixedWidth(); ok {
			rows++
		}
		if _, ok := loc.FixedHeight(); ok {
			rows++
		}
	}
	rows += len(img.fixes)

	sys := &layoutSystem{
		m:       linalg.NewMatrix(rows, 4*n),
		b:       make([]float64, rows),
		sources: make([]rowSource, rows),
	}

	masterIdx, _ := img.locatables.Index(img.master)
	base := 4 * masterIdx
	pins := []struct {
		col   int
		value float64
		name  string
	}{
		{base + 0, 0, "master left = 0"},
		{base + 1, 0, "master bottom = 0"},
		{base + 2, float64(img.width), fmt.Sprintf("master right = %d", img.width)},
		{base + 3, float64(img.height), fmt.Sprintf("master top = %d", img.height)},
	}
	row := 0
	for _, p := range pins {
		sys.m.Set(row, p.col, 1)
		sys.b[row] = p.value
		sys.sources[row] = rowSource{kind: "pin", detail: p.name}
		row++
	}

	for i := 0; i < n; i++ {
		loc := img.locatables.At(i)
		if w, ok := loc.FixedWidth(); ok {
			f := &Fix{kind: fixDimensions, a: i, dimA: DimX, value: w}
			f.apply(row, sys.m, sys.b)
			sys.sources[row] = rowSource{kind: "fixed-width",
				detail: fmt.Sprintf("locatable %d width = %g", i, w)}
			row++
		}
		if h, ok := loc.FixedHeight(); ok {
			f := &Fix{kind: fixDimensions, a: i, dimA: DimY, value: h}
			f.apply(row, sys.m, sys.b)
			sys.sources[row] = rowSource{kind: "fixed-height",
				detail: fmt.Sprintf("locatable %d height = %g", i, h)}
			row++
		}
	}

	for _, f := range img.fixes {
		f.apply(row, sys.m, sys.b)
		sys.sources[row] = rowSource{kind: f.Kind(), detail: f.Description(), fix: f}
		row++
	}

	return sys
}

// solve assembles and solves the layout system and pushes rounded
// rectangles into every registered locatable.
func (img *Image) solve() error {
	ctx := context.Background()
	start := time.Now()
	n := img.locatables.Len()
	observability.Layout().OnSolveStart(ctx, n, len(img.fixes))

	err := img.runSolve()
	observability.Layout().OnSolveComplete(ctx, time.Since(start), err)
	return err
}

func (img *Image) runSolve() error {
	n := img.locatables.Len()

	if len(img.fixes) == 0 {
		if n > 1 {
			return errors.New(errors.ErrCodeUnderconstrained,
				"%d locatables registered but no fixes declared", n)
		}
		// Master alone needs no system.
		img.master.SetLocation(Location{Left: 0, Bottom: 0, Right: img.width, Top: img.height})
		return nil
	}

	sys := img.assemble()

	x, err := linalg.Solve(sys.m.Clone(), append([]float64(nil), sys.b...))
	if err != nil {
		return errors.Wrap(errors.ErrCodeSingularSystem, err, "layout system could not be solved")
	}

	if worst, residual := worstResidual(sys, x); residual > residualTolerance {
		return errors.New(errors.ErrCodeSingularSystem,
			"layout system is inconsistent: row %d (%s) has residual %g", worst, sys.sources[worst], residual)
	}

	for _, edge := range unpinnedEdges(sys, x) {
		img.logger.Warn("layout edge is not pinned by any fix",
			"locatable", edge.Locatable, "part", edge.Part.String())
	}

	for i := 0; i < n; i++ {
		loc := Location{
			Left:   int(math.Round(x[4*i+0])),
			Bottom: int(math.Round(x[4*i+1])),
			Right:  int(math.Round(x[4*i+2])),
			Top:    int(math.Round(x[4*i+3])),
		}
		img.locatables.SetLocation(i, loc)
	}

	want := Location{Left: 0, Bottom: 0, Right: img.width, Top: img.height}
	if img.master.location != want {
		return errors.New(errors.ErrCodeInternal,
			"master solved to %s, expected %s", img.master.location, want)
	}
	return nil
}

// worstResidual returns the row with the largest absolute residual and
// that residual's magnitude.
func worstResidual(sys *layoutSystem, x []float64) (row int, residual float64) {
	r := linalg.Residual(sys.m, x, sys.b)
	for i, v := range r {
		if math.Abs(v) > residual {
			residual = math.Abs(v)
			row = i
		}
	}
	return row, residual
}

// EdgeReport names a locatable edge the solve left unpinned.
type EdgeReport struct {
	Locatable int
	Part      Part
}

// unpinnedEdges probes each unknown with a small perturbation. An unknown
// whose perturbation leaves every residual unchanged participates in no
// equation and is therefore free.
func unpinnedEdges(sys *layoutSystem, x []float64) []EdgeReport {
	baseline := linalg.AbsSum(linalg.Residual(sys.m, x, sys.b))

	var out []EdgeReport
	perturbed := append([]float64(nil), x...)
	for j := range x {
		perturbed[j] = x[j] + perturbDelta
		change := math.Abs(linalg.AbsSum(linalg.Residual(sys.m, perturbed, sys.b)) - baseline)
		perturbed[j] = x[j]

		if change/perturbDelta < perturbThreshold {
			out = append(out, EdgeReport{Locatable: j / 4, Part: columnPart(j % 4)})
		}
	}
	return out
}

func columnPart(offset int) Part {
	switch offset {
	case 0:
		return PartLeft
	case 1:
		return PartBottom
	case 2:
		return PartRight
	}
	return PartTop
}

// RowReport describes one equation of the assembled system and whether the
// current solution satisfies it.
type RowReport struct {
	Row       int
	Source    string
	Expected  float64
	Actual    float64
	Satisfied bool
}

// LayoutReport is a human-oriented account of the assembled system,
// produced by [Image.Diagnose].
type LayoutReport struct {
	Locatables int
	Rows       []RowReport
	Unpinned   []EdgeReport
}

// Diagnose solves the layout (if stale) and reports every system row with
// its residual plus any unpinned edges. It is meant for debugging
// over- and under-constrained layouts.
func (img *Image) Diagnose() (*LayoutReport, error) {
	if err := img.ensureCalculated(); err != nil {
		return nil, err
	}

	report := &LayoutReport{Locatables: img.locatables.Len()}
	if len(img.fixes) == 0 {
		return report, nil
	}

	sys := img.assemble()
	x, err := linalg.Solve(sys.m.Clone(), append([]float64(nil), sys.b...))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSingularSystem, err, "layout system could not be solved")
	}

	residuals := linalg.Residual(sys.m, x, sys.b)
	ax := sys.m.MulVec(x)
	for i := range residuals {
		report.Rows = append(report.Rows, RowReport{
			Row:       i,
			Source:    sys.sources[i].String(),
			Expected:  sys.b[i],
			Actual:    ax[i],
			Satisfied: math.Abs(residuals[i]) <= residualTolerance,
		})
	}
	report.Unpinned = unpinnedEdges(sys, x)
	return report, nil
}
