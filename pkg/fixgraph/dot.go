// Package fixgraph renders the constraint structure of a layout image as a
// Graphviz diagram: one node per registered locatable, one edge per fix.
// It is a debugging aid for understanding why a layout is over- or
// under-constrained.
package fixgraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/easel/pkg/canvas"
)

// ToDOT converts an image's fix structure to Graphviz DOT. The names map
// (as produced by scene building) labels canvas nodes; unnamed locatables
// fall back to their registry index.
func ToDOT(img *canvas.Image, names map[string]*canvas.Canvas) string {
	label := make(map[int]string)
	for name, c := range names {
		if idx, ok := img.LocatableIndex(c); ok {
			label[idx] = name
		}
	}
	name := func(idx int) string {
		if n, ok := label[idx]; ok {
			return n
		}
		return fmt.Sprintf("locatable-%d", idx)
	}

	var buf bytes.Buffer
	buf.WriteString("graph fixes {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	seen := map[int]bool{}
	emit := func(idx int) {
		if seen[idx] {
			return
		}
		seen[idx] = true
		fmt.Fprintf(&buf, "  %q;\n", name(idx))
	}

	for _, f := range img.Fixes() {
		a, b := f.Targets()
		emit(a)
		if b >= 0 {
			emit(b)
		}
	}

	buf.WriteString("\n")
	for _, f := range img.Fixes() {
		a, b := f.Targets()
		edgeLabel := f.Kind()
		if d := f.Description(); d != "" {
			edgeLabel += "\n" + d
		}
		if b < 0 {
			// Single-locatable fixes become self-loops.
			b = a
		}
		fmt.Fprintf(&buf, "  %q -- %q [label=%q, fontsize=10];\n", name(a), name(b), edgeLabel)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
