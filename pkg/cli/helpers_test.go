package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fepozopo/pixfx/pkg/filter"
	"github.com/Fepozopo/pixfx/pkg/imageio"
	"github.com/Fepozopo/pixfx/pkg/logging"
	homedir "github.com/mitchellh/go-homedir"
)

// isolate runs the test from an empty temp dir that also serves as HOME, so
// no stray config or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	homedir.DisableCache = true
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { logging.Configure(logging.Options{}) })
	return dir
}

// execute runs the command tree of a with args and returns stdout and stderr.
func execute(t *testing.T, a *app, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := execute(t, newApp(), "", args...)
	return out, err
}

func writeImage(t *testing.T, path string, f *filter.Frame) {
	t.Helper()
	if err := imageio.Save(path, f.NRGBA(), 0); err != nil {
		t.Fatal(err)
	}
}

func gradientFrame(w, h int) *filter.Frame {
	f := filter.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, filter.Pixel{R: uint8(x * 20), G: uint8(y * 30), B: uint8((x + y) * 10)})
		}
	}
	return f
}

func solidFrame(w, h int, p filter.Pixel) *filter.Frame {
	f := filter.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, p)
		}
	}
	return f
}

func inDir(dir string, names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(dir, n)
	}
	return out
}
