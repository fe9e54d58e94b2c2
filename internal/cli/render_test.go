package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/easel/pkg/scene"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"scene.toml", "scene"},
		{"scenes/plot.toml", "scenes/plot"},
		{"/abs/path/x.toml", "/abs/path/x"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := basePath(tt.path); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDiscoverScenes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.toml", "b.toml", "ignored.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("width = 1"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	scenes, err := discoverScenes(dir)
	if err != nil {
		t.Fatalf("discoverScenes: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("found %d scenes, want 2", len(scenes))
	}
	for _, s := range scenes {
		if filepath.Ext(s.Name) != ".toml" {
			t.Errorf("non-toml scene listed: %s", s.Name)
		}
	}
}

func TestRunRenderWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(scenePath, []byte(testScene), 0644); err != nil {
		t.Fatalf("write scene: %v", err)
	}

	c := &CLI{Logger: log.New(io.Discard)}
	opts := &renderOpts{
		output:     filepath.Join(dir, "out.png"),
		layoutPath: filepath.Join(dir, "layout.json"),
		noCache:    true,
	}
	if err := c.runRender(context.Background(), scenePath, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	png, err := os.ReadFile(opts.output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(png) == 0 {
		t.Error("output PNG is empty")
	}

	f, err := os.Open(opts.layoutPath)
	if err != nil {
		t.Fatalf("open layout: %v", err)
	}
	defer f.Close()
	layout, err := scene.ReadLayout(f)
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	if layout.Width != 100 || layout.Height != 80 {
		t.Errorf("layout dimensions = %dx%d, want 100x80", layout.Width, layout.Height)
	}
}

func TestRunRenderDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "plot.toml")
	if err := os.WriteFile(scenePath, []byte(testScene), 0644); err != nil {
		t.Fatalf("write scene: %v", err)
	}

	c := &CLI{Logger: log.New(io.Discard)}
	if err := c.runRender(context.Background(), scenePath, &renderOpts{noCache: true}); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "plot.png")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}
