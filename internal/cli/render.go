package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/easel/pkg/cache"
	"github.com/matzehuels/easel/pkg/raster"
	"github.com/matzehuels/easel/pkg/scene"
)

// artifactTTL bounds how long rendered PNGs stay in the file cache.
const artifactTTL = 30 * 24 * time.Hour

// renderOpts holds options for the render command.
type renderOpts struct {
	output     string
	layoutPath string
	noCache    bool
	scenesDir  string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a scene file to a PNG image",
		Long: `Render parses a scene file, solves its layout constraints, and rasterizes
the canvas tree to a PNG image.

When no scene file is given, an interactive picker lists the scene files
in the scenes directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return c.runRender(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG path (default: scene name with .png)")
	cmd.Flags().StringVar(&opts.layoutPath, "layout", "", "also export the solved layout as JSON to this path")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the rendered artifact cache")
	cmd.Flags().StringVar(&opts.scenesDir, "scenes-dir", ".", "directory searched by the interactive picker")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	if path == "" {
		picked, err := pickScene(opts.scenesDir)
		if err != nil {
			return err
		}
		if picked == "" {
			printInfo("No scene selected")
			return nil
		}
		path = picked
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sc, err := scene.Parse(data)
	if err != nil {
		printError("Invalid scene: %v", err)
		return err
	}

	output := opts.output
	if output == "" {
		output = basePath(path) + ".png"
	}

	artifacts, err := newArtifactCache(opts.noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	key := cache.RenderKey(data, sc.Width, sc.Height)
	if png, hit, err := artifacts.Get(ctx, key); err == nil && hit && opts.layoutPath == "" {
		if err := os.WriteFile(output, png, 0644); err != nil {
			return err
		}
		printSuccess("Rendered %s", filepath.Base(path))
		printFile(output)
		printStats(len(sc.Canvases)+1, len(sc.Fixes), true)
		return nil
	}

	spinner := newSpinnerWithContext(ctx, "Solving layout...")
	spinner.Start()

	start := time.Now()
	img, byName, err := sc.Build()
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Build failed: %v", err))
		return err
	}
	img.SetLogger(logger)

	bitmap := raster.NewBitmap(sc.Width, sc.Height)
	if err := img.Render(ctx, bitmap); err != nil {
		spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spinner.Stop()
	logger.Debug("layout solved and rasterized", "elapsed", time.Since(start).Round(time.Millisecond))

	var pngBuf bytes.Buffer
	if err := bitmap.EncodePNG(&pngBuf); err != nil {
		return err
	}
	png := pngBuf.Bytes()
	if err := os.WriteFile(output, png, 0644); err != nil {
		return err
	}
	if err := artifacts.Set(ctx, key, png, artifactTTL); err != nil {
		logger.Debug("cache write failed", "err", err)
	}

	if opts.layoutPath != "" {
		layout, err := scene.Snapshot(img, byName)
		if err != nil {
			return err
		}
		if err := scene.ExportLayout(layout, opts.layoutPath); err != nil {
			return err
		}
		printFile(opts.layoutPath)
	}

	printSuccess("Rendered %s", filepath.Base(path))
	printFile(output)
	printStats(len(sc.Canvases)+1, len(sc.Fixes), false)
	printNextStep("Inspect the layout", appName+" inspect "+path)
	return nil
}

// basePath strips the extension from a file path.
// "scenes/plot.toml" becomes "scenes/plot".
func basePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
