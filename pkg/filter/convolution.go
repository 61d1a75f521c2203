package filter

import (
	"fmt"
	"math"
)

// Convolution applies a Kernel as a weighted sum over each pixel's
// neighborhood. Samples past the border are clamped to the nearest edge pixel.
type Convolution struct {
	Kernel Kernel
}

// Evaluate returns black for a zero Kernel; Process reports it as an error.
func (c Convolution) Evaluate(src Image, x, y int) Pixel {
	k := c.Kernel
	if !k.valid() {
		return black
	}
	r := k.radius
	sr, sg, sb := 0.0, 0.0, 0.0
	for di := -r; di <= r; di++ {
		for dj := -r; dj <= r; dj++ {
			wgt := k.At(di, dj)
			p := sampleClamped(src, x+dj, y+di)
			sr += float64(p.R) * wgt
			sg += float64(p.G) * wgt
			sb += float64(p.B) * wgt
		}
	}
	return Pixel{clamp8(sr), clamp8(sg), clamp8(sb)}
}

func (c Convolution) Process(src Image, opts *Options) (*Frame, error) {
	if !c.Kernel.valid() {
		return nil, fmt.Errorf("%w: zero kernel", ErrInvalidKernel)
	}
	return process(src, c, opts)
}

// Gradient is the composite edge detector: grayscale, then the two directional
// convolutions, then the per-pixel magnitude sqrt(gx²+gy²) of their green channels.
// The directional results are clamped to [0,255] before the magnitude is taken,
// so only positive responses contribute.
type Gradient struct {
	X, Y Kernel
}

// Sobel returns the Sobel gradient-magnitude filter.
func Sobel() Gradient { return Gradient{X: SobelX(), Y: SobelY()} }

// Prewitt returns the Prewitt gradient-magnitude filter.
func Prewitt() Gradient { return Gradient{X: PrewittX(), Y: PrewittY()} }

func (g Gradient) Process(src Image, opts *Options) (*Frame, error) {
	gray, err := Grayscale{}.Process(src, opts)
	if err != nil {
		return nil, err
	}
	gx, err := Convolution{Kernel: g.X}.Process(gray, opts)
	if err != nil {
		return nil, fmt.Errorf("x pass: %w", err)
	}
	gy, err := Convolution{Kernel: g.Y}.Process(gray, opts)
	if err != nil {
		return nil, fmt.Errorf("y pass: %w", err)
	}
	e := EvaluatorFunc(func(_ Image, x, y int) Pixel {
		a := float64(gx.PixelAt(x, y).G)
		b := float64(gy.PixelAt(x, y).G)
		m := clamp8(math.Sqrt(a*a + b*b))
		return Pixel{m, m, m}
	})
	return Run(gray, e, opts), nil
}
