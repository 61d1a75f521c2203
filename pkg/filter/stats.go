package filter

import "fmt"

// channelAverages returns the mean of each channel over the whole image.
func channelAverages(src Image) (r, g, b float64) {
	w, h := src.Width(), src.Height()
	var sr, sg, sb float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := src.PixelAt(x, y)
			sr += float64(p.R)
			sg += float64(p.G)
			sb += float64(p.B)
		}
	}
	n := float64(w * h)
	return sr / n, sg / n, sb / n
}

// brightnessRange returns the global min and max of max(R,G,B) per pixel.
func brightnessRange(src Image) (vmin, vmax int) {
	vmin, vmax = 255, 0
	w, h := src.Width(), src.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := src.PixelAt(x, y)
			v := int(max(p.R, p.G, p.B))
			if v > vmax {
				vmax = v
			}
			if v < vmin {
				vmin = v
			}
		}
	}
	return vmin, vmax
}

// scaleChannel multiplies c by num/den and clamps. A zero den maps to 0.
func scaleChannel(c uint8, num, den float64) uint8 {
	if den == 0 {
		return 0
	}
	return clamp8(float64(c) * num / den)
}

// GrayWorld balances colors so that every channel mean equals the mean of the
// three channel means. A channel that is zero everywhere stays zero.
type GrayWorld struct{}

func (GrayWorld) Process(src Image, opts *Options) (*Frame, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	ar, ag, ab := channelAverages(src)
	avg := (ar + ag + ab) / 3
	e := EvaluatorFunc(func(src Image, x, y int) Pixel {
		p := src.PixelAt(x, y)
		return Pixel{
			R: scaleChannel(p.R, avg, ar),
			G: scaleChannel(p.G, avg, ag),
			B: scaleChannel(p.B, avg, ab),
		}
	})
	return Run(src, e, opts), nil
}

// BaseColor rescales every channel so that the reference pixel at (RefX, RefY)
// becomes Target.
type BaseColor struct {
	RefX, RefY int
	Target     Pixel
}

func (b BaseColor) Process(src Image, opts *Options) (*Frame, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	if b.RefX < 0 || b.RefX >= src.Width() || b.RefY < 0 || b.RefY >= src.Height() {
		return nil, fmt.Errorf("%w: reference (%d,%d) outside %dx%d image", ErrOutOfBounds, b.RefX, b.RefY, src.Width(), src.Height())
	}
	ref := src.PixelAt(b.RefX, b.RefY)
	if ref.R == 0 || ref.G == 0 || ref.B == 0 {
		return nil, fmt.Errorf("%w: reference pixel %v has a zero channel", ErrDivideByZero, ref)
	}
	e := EvaluatorFunc(func(src Image, x, y int) Pixel {
		p := src.PixelAt(x, y)
		return Pixel{
			R: scaleChannel(p.R, float64(b.Target.R), float64(ref.R)),
			G: scaleChannel(p.G, float64(b.Target.G), float64(ref.G)),
			B: scaleChannel(p.B, float64(b.Target.B), float64(ref.B)),
		}
	})
	return Run(src, e, opts), nil
}

// HistogramStretch linearly maps the range of per-pixel maximum channel values
// onto [0,255]. Flat images yield ErrDegenerateRange.
type HistogramStretch struct{}

func (HistogramStretch) Process(src Image, opts *Options) (*Frame, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	vmin, vmax := brightnessRange(src)
	if vmax == vmin {
		return nil, fmt.Errorf("%w: every pixel peaks at %d", ErrDegenerateRange, vmax)
	}
	span := vmax - vmin
	stretch := func(c uint8) uint8 {
		return uint8(clampInt((int(c)-vmin)*255/span, 0, 255))
	}
	e := EvaluatorFunc(func(src Image, x, y int) Pixel {
		p := src.PixelAt(x, y)
		return Pixel{stretch(p.R), stretch(p.G), stretch(p.B)}
	})
	return Run(src, e, opts), nil
}
