// Package config resolves pixfx settings from defaults, a YAML config file, a
// .env file, PIXFX_ environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Fepozopo/pixfx/pkg/filter"
	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix   = "PIXFX"
	DefaultRepo = "Fepozopo/pixfx"
)

// DotEnvFile is read from the working directory when present.
var DotEnvFile = ".env"

// FlagKeys maps command-line flag names to config keys. Flags missing from the
// set handed to Load are skipped.
var FlagKeys = map[string]string{
	"workers":      "workers",
	"jobs":         "jobs",
	"log-level":    "log.level",
	"log-json":     "log.json",
	"seed":         "seed",
	"quality":      "jpeg_quality",
	"metrics-file": "metrics.file",
	"metrics-addr": "metrics.addr",
	"repo":         "update.repo",
}

type Config struct {
	Workers     int
	Jobs        int
	LogLevel    string
	LogJSON     bool
	Seed        int64
	JPEGQuality int

	MedianRadius   int
	MedianRank     string
	BlurRadius     int
	GaussianRadius int
	GaussianSigma  float64
	Brightness     float64
	Sepia          float64
	Shift          int
	GlassSpread    float64
	BaseX, BaseY   int
	BaseTarget     string

	MetricsFile string
	MetricsAddr string
	UpdateRepo  string

	// File is the config file that was read, if any.
	File string
}

func setDefaults(v *viper.Viper) {
	d := filter.DefaultParams()
	v.SetDefault("workers", 0)
	v.SetDefault("jobs", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("seed", 0)
	v.SetDefault("jpeg_quality", 95)
	v.SetDefault("median.radius", d.MedianRadius)
	v.SetDefault("median.rank", "middle")
	v.SetDefault("blur.radius", d.BlurRadius)
	v.SetDefault("gaussian.radius", d.GaussianRadius)
	v.SetDefault("gaussian.sigma", d.GaussianSigma)
	v.SetDefault("brightness", d.Brightness)
	v.SetDefault("sepia", d.SepiaDepth)
	v.SetDefault("shift", d.ShiftOffset)
	v.SetDefault("glass.spread", d.GlassSpread)
	v.SetDefault("basecolor.x", d.BaseX)
	v.SetDefault("basecolor.y", d.BaseY)
	v.SetDefault("basecolor.target", fmt.Sprintf("%d,%d,%d", d.BaseTarget.R, d.BaseTarget.G, d.BaseTarget.B))
	v.SetDefault("metrics.file", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("update.repo", DefaultRepo)
}

// Load builds a Config. An explicit path must exist; otherwise
// $HOME/.pixfx.yaml is read if present. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".pixfx")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	// godotenv never overrides variables that are already set, so the real
	// environment still wins over .env.
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	c := Config{
		Workers:        v.GetInt("workers"),
		Jobs:           v.GetInt("jobs"),
		LogLevel:       v.GetString("log.level"),
		LogJSON:        v.GetBool("log.json"),
		Seed:           v.GetInt64("seed"),
		JPEGQuality:    v.GetInt("jpeg_quality"),
		MedianRadius:   v.GetInt("median.radius"),
		MedianRank:     v.GetString("median.rank"),
		BlurRadius:     v.GetInt("blur.radius"),
		GaussianRadius: v.GetInt("gaussian.radius"),
		GaussianSigma:  v.GetFloat64("gaussian.sigma"),
		Brightness:     v.GetFloat64("brightness"),
		Sepia:          v.GetFloat64("sepia"),
		Shift:          v.GetInt("shift"),
		GlassSpread:    v.GetFloat64("glass.spread"),
		BaseX:          v.GetInt("basecolor.x"),
		BaseY:          v.GetInt("basecolor.y"),
		BaseTarget:     v.GetString("basecolor.target"),
		MetricsFile:    v.GetString("metrics.file"),
		MetricsAddr:    v.GetString("metrics.addr"),
		UpdateRepo:     v.GetString("update.repo"),
		File:           v.ConfigFileUsed(),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values no filter could use.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Workers >= 0, "workers must be >= 0, got %d", c.Workers)
	check(c.Jobs >= 0, "jobs must be >= 0, got %d", c.Jobs)
	check(c.JPEGQuality >= 1 && c.JPEGQuality <= 100, "jpeg_quality must be in 1..100, got %d", c.JPEGQuality)
	radius := func(key string, r int) {
		check(r >= 0 && r <= filter.MaxRadius, "%s must be in 0..%d, got %d", key, filter.MaxRadius, r)
	}
	radius("median.radius", c.MedianRadius)
	radius("blur.radius", c.BlurRadius)
	radius("gaussian.radius", c.GaussianRadius)
	check(c.GlassSpread > 0, "glass.spread must be > 0, got %v", c.GlassSpread)
	check(c.GaussianSigma > 0, "gaussian.sigma must be > 0, got %v", c.GaussianSigma)
	check(c.Shift >= 0, "shift must be >= 0, got %d", c.Shift)
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log.level %q", c.LogLevel))
	}
	if _, err := filter.ParseMedianRank(c.MedianRank); err != nil {
		errs = append(errs, err)
	}
	if _, err := filter.ParsePixel(c.BaseTarget); err != nil {
		errs = append(errs, fmt.Errorf("basecolor.target: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Params converts the filter settings to filter.Params. It assumes Validate
// passed; unparsable values fall back to the built-in defaults.
func (c Config) Params() filter.Params {
	p := filter.DefaultParams()
	p.Seed = c.Seed
	p.SepiaDepth = c.Sepia
	p.Brightness = c.Brightness
	p.ShiftOffset = c.Shift
	p.GlassSpread = c.GlassSpread
	p.MedianRadius = c.MedianRadius
	if r, err := filter.ParseMedianRank(c.MedianRank); err == nil {
		p.MedianRank = r
	}
	p.BlurRadius = c.BlurRadius
	p.GaussianRadius = c.GaussianRadius
	p.GaussianSigma = c.GaussianSigma
	p.BaseX, p.BaseY = c.BaseX, c.BaseY
	if px, err := filter.ParsePixel(c.BaseTarget); err == nil {
		p.BaseTarget = px
	}
	return p
}
