package filter

import (
	"image"
	"math"
)

// Pixel is an opaque 8-bit RGB triple.
type Pixel struct {
	R, G, B uint8
}

var (
	black = Pixel{0, 0, 0}
	white = Pixel{255, 255, 255}
)

// Brightness returns the summed channel value used to order pixels.
func (p Pixel) Brightness() int {
	return int(p.R) + int(p.G) + int(p.B)
}

// Image is the read side of a pixel grid. x is the column, y the row, both 0-based.
type Image interface {
	Width() int
	Height() int
	PixelAt(x, y int) Pixel
}

// Frame is an Image backed by an *image.NRGBA whose bounds start at the origin.
// Alpha is always opaque.
type Frame struct {
	img *image.NRGBA
}

// NewFrame allocates a black frame of the given size.
func NewFrame(w, h int) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return &Frame{img: img}
}

// FromImage converts any image.Image to a Frame, rebasing its bounds to (0,0).
func FromImage(src image.Image) *Frame {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := NewFrame(b.Dx(), b.Dy())
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			di := out.img.PixOffset(0, y)
			copy(out.img.Pix[di:di+4*b.Dx()], n.Pix[si:si+4*b.Dx()])
		}
		for i := 3; i < len(out.img.Pix); i += 4 {
			out.img.Pix[i] = 255
		}
		return out
	}
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b_, a := src.At(x, y).RGBA()
			if a != 0 && a != 0xffff {
				// un-premultiply
				r = r * 0xffff / a
				g = g * 0xffff / a
				b_ = b_ * 0xffff / a
			}
			out.img.Pix[idx+0] = uint8(r >> 8)
			out.img.Pix[idx+1] = uint8(g >> 8)
			out.img.Pix[idx+2] = uint8(b_ >> 8)
			idx += 4
		}
	}
	return out
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.img.Rect.Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.img.Rect.Dy() }

// PixelAt returns the pixel at (x, y). Coordinates must be in range.
func (f *Frame) PixelAt(x, y int) Pixel {
	i := f.img.PixOffset(x, y)
	return Pixel{f.img.Pix[i+0], f.img.Pix[i+1], f.img.Pix[i+2]}
}

// Set stores p at (x, y).
func (f *Frame) Set(x, y int, p Pixel) {
	i := f.img.PixOffset(x, y)
	f.img.Pix[i+0] = p.R
	f.img.Pix[i+1] = p.G
	f.img.Pix[i+2] = p.B
	f.img.Pix[i+3] = 255
}

// NRGBA exposes the backing image for encoders. Callers must not mutate it
// while a filter reads the frame.
func (f *Frame) NRGBA() *image.NRGBA { return f.img }

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := &Frame{img: image.NewNRGBA(f.img.Rect)}
	copy(out.img.Pix, f.img.Pix)
	return out
}

// Equal reports whether both frames have the same size and pixels.
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Width() != o.Width() || f.Height() != o.Height() {
		return false
	}
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			if f.PixelAt(x, y) != o.PixelAt(x, y) {
				return false
			}
		}
	}
	return true
}

// copyFrame snapshots any Image into a new Frame.
func copyFrame(src Image) *Frame {
	if f, ok := src.(*Frame); ok {
		return f.Clone()
	}
	w, h := src.Width(), src.Height()
	out := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, src.PixelAt(x, y))
		}
	}
	return out
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp8 rounds v and clamps it into a channel value.
func clamp8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// sampleClamped returns the pixel at (x, y) with both coordinates clamped to the image.
func sampleClamped(src Image, x, y int) Pixel {
	x = clampInt(x, 0, src.Width()-1)
	y = clampInt(y, 0, src.Height()-1)
	return src.PixelAt(x, y)
}

func isEmpty(src Image) bool {
	if src == nil {
		return true
	}
	if f, ok := src.(*Frame); ok && (f == nil || f.img == nil) {
		return true
	}
	return src.Width() <= 0 || src.Height() <= 0
}
