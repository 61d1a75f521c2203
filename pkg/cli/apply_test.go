package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fepozopo/pixfx/pkg/filter"
	"github.com/Fepozopo/pixfx/pkg/imageio"
)

func TestApplyRunsPipeline(t *testing.T) {
	dir := isolate(t)
	in, out := filepath.Join(dir, "in.png"), filepath.Join(dir, "out.png")
	src := gradientFrame(6, 5)
	writeImage(t, in, src)

	if _, err := run(t, "apply", in, out, "-f", "invert", "-f", "invert"); err != nil {
		t.Fatal(err)
	}
	got, err := imageio.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(src) {
		t.Fatal("invert twice changed the image")
	}

	if _, err := run(t, "apply", in, out, "-f", "brightness:300"); err != nil {
		t.Fatal(err)
	}
	got, err = imageio.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if p := got.PixelAt(0, 0); p != (filter.Pixel{R: 255, G: 255, B: 255}) {
		t.Fatalf("brightness:300 pixel = %v", p)
	}
}

func TestApplyStepErrors(t *testing.T) {
	dir := isolate(t)
	in := filepath.Join(dir, "in.png")
	writeImage(t, in, gradientFrame(4, 4))
	out := filepath.Join(dir, "out.png")

	_, err := run(t, "apply", in, out, "-f", "grayscal")
	if !errors.Is(err, filter.ErrUnknownCommand) || !strings.Contains(err.Error(), `did you mean "grayscale"`) {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, step := range []string{"median:abc", "median:-1", "median:2:mean", "invert:1", "baseColor:0:0:1,2"} {
		if _, err := run(t, "apply", in, out, "-f", step); err == nil {
			t.Fatalf("%s: expected error", step)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output written despite errors: %v", err)
	}
	if _, err := run(t, "apply", in, out); err == nil {
		t.Fatal("expected error without -f")
	}
}

func TestApplyTolerantAndMetrics(t *testing.T) {
	dir := isolate(t)
	in, out := filepath.Join(dir, "flat.png"), filepath.Join(dir, "out.png")
	writeImage(t, in, solidFrame(4, 4, filter.Pixel{R: 90, G: 90, B: 90}))

	_, err := run(t, "apply", in, out, "-f", "histogram")
	if !errors.Is(err, filter.ErrDegenerateRange) {
		t.Fatalf("expected ErrDegenerateRange, got %v", err)
	}

	prom := filepath.Join(dir, "pixfx.prom")
	if _, err := run(t, "apply", in, out, "-f", "histogram", "-f", "invert", "--tolerant", "--metrics-file", prom); err != nil {
		t.Fatal(err)
	}
	got, err := imageio.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if p := got.PixelAt(1, 1); p != (filter.Pixel{R: 165, G: 165, B: 165}) {
		t.Fatalf("pixel = %v, want inverted input", p)
	}
	b, err := os.ReadFile(prom)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`pixfx_filter_recoveries_total{filter="histogram"} 1`,
		`pixfx_pixels_processed_total{filter="invert"} 16`,
		`pixfx_files_total{status="ok"} 1`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("metrics missing %q:\n%s", want, b)
		}
	}
}

func TestApplyUsesConfig(t *testing.T) {
	dir := isolate(t)
	in, out := filepath.Join(dir, "in.png"), filepath.Join(dir, "out.png")
	writeImage(t, in, solidFrame(3, 3, filter.Pixel{R: 10, G: 10, B: 10}))
	cfg := filepath.Join(dir, "pixfx.yaml")
	if err := os.WriteFile(cfg, []byte("brightness: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", cfg, "apply", in, out, "-f", "brightness"); err != nil {
		t.Fatal(err)
	}
	got, err := imageio.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if p := got.PixelAt(2, 2); p != (filter.Pixel{R: 15, G: 15, B: 15}) {
		t.Fatalf("pixel = %v, want config brightness applied", p)
	}
}

func TestApplyDryRun(t *testing.T) {
	dir := isolate(t)
	in, out := filepath.Join(dir, "in.png"), filepath.Join(dir, "out.png")
	writeImage(t, in, gradientFrame(6, 5))

	stdout, err := run(t, "apply", in, out, "-f", "grayscale", "-f", "median:3", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Format: png, Width: 6, Height: 5", "pipeline: grayscale -> median", "would write " + out} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("dry run output lacks %q:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run wrote %s: %v", out, err)
	}

	if _, err := run(t, "apply", in, out, "-f", "blur:100000", "--dry-run"); err == nil {
		t.Fatal("expected dry run to reject an oversized blur")
	}
}
