package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/easel/pkg/scene"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <scene.toml>",
		Short: "Solve a scene and report its layout system",
		Long: `Inspect solves a scene's layout constraints and prints each canvas
rectangle, every row of the linear system with its residual, and any
edges not pinned by a fix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0])
		},
	}
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string) error {
	logger := loggerFromContext(ctx)

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
	img.SetLogger(logger)

	report, err := img.Diagnose()
	if err != nil {
		printError("Layout failed: %v", err)
		return err
	}

	fmt.Println(StyleTitle.Render("Canvases"))
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		loc, err := img.Location(byName[name])
		if err != nil {
			return err
		}
		printKeyValue(name, fmt.Sprintf("(%d, %d) to (%d, %d)", loc.Left, loc.Bottom, loc.Right, loc.Top))
	}

	printNewline()
	fmt.Println(StyleTitle.Render("System"))
	printDetail("%d locatables, %d rows", report.Locatables, len(report.Rows))
	for _, row := range report.Rows {
		line := fmt.Sprintf("row %-3d %-40s expected %.2f actual %.2f", row.Row, row.Source, row.Expected, row.Actual)
		if row.Satisfied {
			printDetail("%s", line)
		} else {
			printWarning("%s", line)
		}
	}

	if len(report.Unpinned) > 0 {
		printNewline()
		fmt.Println(StyleTitle.Render("Unpinned edges"))
		for _, edge := range report.Unpinned {
			label := fmt.Sprintf("locatable-%d", edge.Locatable)
			for name, cv := range byName {
				if idx, ok := img.LocatableIndex(cv); ok && idx == edge.Locatable {
					label = name
					break
				}
			}
			printWarning("%s.%s is not pinned by any fix", label, edge.Part)
		}
		printNextStep("Visualize the fix structure", appName+" graph "+path)
	} else {
		printNewline()
		printSuccess("All edges pinned")
	}

	return nil
}
