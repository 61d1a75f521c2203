package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fepozopo/pixfx/pkg/filter"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
)

// isolate points HOME and the working directory at a fresh temp dir.
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
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	c, err := Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.File != "" {
		t.Fatalf("unexpected config file %q", c.File)
	}
	if c.JPEGQuality != 95 || c.UpdateRepo != DefaultRepo || c.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	p := c.Params()
	want := filter.DefaultParams()
	if p != want {
		t.Fatalf("default params = %+v, want %+v", p, want)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".pixfx.yaml"), strings.Join([]string{
		"shift: 7",
		"jpeg_quality: 80",
		"median:",
		"  radius: 4",
		"blur:",
		"  radius: 3",
		"basecolor:",
		"  target: 10,20,30",
		"",
	}, "\n"))
	writeFile(t, filepath.Join(dir, ".env"), "PIXFX_MEDIAN_RADIUS=6\nPIXFX_BLUR_RADIUS=9\n")
	t.Cleanup(func() { os.Unsetenv("PIXFX_MEDIAN_RADIUS") })
	t.Setenv("PIXFX_BLUR_RADIUS", "11")
	t.Setenv("PIXFX_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 0, "")
	flags.Int("jobs", 2, "")
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--workers=3"}); err != nil {
		t.Fatal(err)
	}

	c, err := Load("", flags)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(c.File) != ".pixfx.yaml" {
		t.Fatalf("config file = %q", c.File)
	}
	checks := []struct {
		key       string
		got, want any
	}{
		{"shift (file)", c.Shift, 7},
		{"jpeg_quality (file)", c.JPEGQuality, 80},
		{"median.radius (.env over file)", c.MedianRadius, 6},
		{"blur.radius (env over .env)", c.BlurRadius, 11},
		{"log.level (env over unchanged flag)", c.LogLevel, "debug"},
		{"workers (flag)", c.Workers, 3},
		{"sepia (default)", c.Sepia, float64(filter.DefaultSepiaDepth)},
	}
	for _, ck := range checks {
		if ck.got != ck.want {
			t.Fatalf("%s = %v, want %v", ck.key, ck.got, ck.want)
		}
	}
	if p := c.Params(); p.BaseTarget != (filter.Pixel{R: 10, G: 20, B: 30}) || p.MedianRadius != 6 {
		t.Fatalf("params = %+v", p)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "median:\n  rank: fixed\nseed: 99\n")
	c, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p := c.Params(); p.MedianRank != filter.RankFixed || p.Seed != 99 {
		t.Fatalf("params = %+v", p)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), nil); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("PIXFX_GAUSSIAN_SIGMA", "0")
	if _, err := Load("", nil); err == nil || !strings.Contains(err.Error(), "gaussian.sigma") {
		t.Fatalf("expected gaussian.sigma error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	isolate(t)
	good, err := Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]func(*Config){
		"workers":          func(c *Config) { c.Workers = -1 },
		"jpeg_quality":     func(c *Config) { c.JPEGQuality = 0 },
		"median.rank":      func(c *Config) { c.MedianRank = "mean" },
		"basecolor.target": func(c *Config) { c.BaseTarget = "1,2" },
		"log.level":        func(c *Config) { c.LogLevel = "loud" },
		"shift":            func(c *Config) { c.Shift = -4 },
		"blur.radius":      func(c *Config) { c.BlurRadius = filter.MaxRadius + 1 },
		"glass.spread":     func(c *Config) { c.GlassSpread = 0 },
	}
	for name, mutate := range cases {
		c := good
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
