// Package imageio moves images between files and filter frames.
package imageio

import (
	"fmt"
	"image"
	"os"

	"github.com/Fepozopo/pixfx/pkg/filter"
	"github.com/disintegration/imaging"

	// webp is decode-only
	_ "golang.org/x/image/webp"
)

const DefaultJPEGQuality = 95

// Load decodes the file at path and applies its EXIF orientation.
func Load(path string) (*filter.Frame, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return filter.FromImage(img), nil
}

// Save encodes img in the format implied by the extension of path. Unknown
// extensions are written as PNG. quality applies to JPEG only; values outside
// 1..100 use DefaultJPEGQuality.
func Save(path string, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		if err := imaging.Encode(f, img, imaging.PNG); err != nil {
			f.Close()
			return fmt.Errorf("save %s: %w", path, err)
		}
		return f.Close()
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Info is what Probe reports about an image file without decoding its pixels.
type Info struct {
	Format        string
	Width, Height int
}

func (i Info) String() string {
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", i.Format, i.Width, i.Height)
}

// Probe reads only the header of the file at path.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
