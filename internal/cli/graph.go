package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/easel/pkg/fixgraph"
	"github.com/matzehuels/easel/pkg/scene"
)

// graphOpts holds options for the graph command.
type graphOpts struct {
	output string
	format string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := &graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph <scene.toml>",
		Short: "Visualize a scene's fix structure",
		Long: `Graph renders the constraint structure of a scene as a Graphviz
diagram: one node per canvas, one edge per fix. Useful for spotting
missing or contradictory fixes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default: stdout for dot, scene name with .svg for svg)")
	cmd.Flags().StringVar(&opts.format, "format", "dot", "output format: dot or svg")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, path string, opts *graphOpts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sc, err := scene.Parse(data)
	if err != nil {
		printError("Invalid scene: %v", err)
		return err
	}

	img, byName, err := sc.Build()
	if err != nil {
		printError("Build failed: %v", err)
		return err
	}

	dot := fixgraph.ToDOT(img, byName)

	switch opts.format {
	case "dot":
		if opts.output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(opts.output, []byte(dot), 0644); err != nil {
			return err
		}
		printSuccess("Wrote fix graph")
		printFile(opts.output)
	case "svg":
		svg, err := fixgraph.RenderSVG(dot)
		if err != nil {
			return err
		}
		output := opts.output
		if output == "" {
			output = basePath(path) + ".svg"
		}
		if err := os.WriteFile(output, svg, 0644); err != nil {
			return err
		}
		printSuccess("Wrote fix graph")
		printFile(output)
	default:
		return fmt.Errorf("unknown format %q (expected dot or svg)", opts.format)
	}

	return nil
}
