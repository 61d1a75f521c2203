package filter

// Defaults for the point filters.
const (
	DefaultSepiaDepth = 15
	DefaultBrightness = 50
)

// intensity is the luma weighting used by Grayscale and Sepia.
// The blue weight is 0.113, not the Rec. 601 0.114.
func intensity(p Pixel) float64 {
	return 0.299*float64(p.R) + 0.587*float64(p.G) + 0.113*float64(p.B)
}

// Invert maps every channel c to 255-c.
type Invert struct{}

func (Invert) Evaluate(src Image, x, y int) Pixel {
	p := src.PixelAt(x, y)
	return Pixel{255 - p.R, 255 - p.G, 255 - p.B}
}

func (f Invert) Process(src Image, opts *Options) (*Frame, error) { return process(src, f, opts) }

// Grayscale sets all channels to the rounded luma of the pixel.
type Grayscale struct{}

func (Grayscale) Evaluate(src Image, x, y int) Pixel {
	v := clamp8(intensity(src.PixelAt(x, y)))
	return Pixel{v, v, v}
}

func (f Grayscale) Process(src Image, opts *Options) (*Frame, error) { return process(src, f, opts) }

// Sepia tints the luma toward brown: R=I+2K, G=I+K/2, B=I-K.
type Sepia struct {
	K float64
}

// NewSepia returns a Sepia with the default depth.
func NewSepia() Sepia { return Sepia{K: DefaultSepiaDepth} }

func (s Sepia) Evaluate(src Image, x, y int) Pixel {
	i := intensity(src.PixelAt(x, y))
	return Pixel{
		R: clamp8(i + 2*s.K),
		G: clamp8(i + 0.5*s.K),
		B: clamp8(i - s.K),
	}
}

func (s Sepia) Process(src Image, opts *Options) (*Frame, error) { return process(src, s, opts) }

// Brightness adds K to every channel.
type Brightness struct {
	K float64
}

// NewBrightness returns a Brightness with the default offset.
func NewBrightness() Brightness { return Brightness{K: DefaultBrightness} }

func (b Brightness) Evaluate(src Image, x, y int) Pixel {
	p := src.PixelAt(x, y)
	return Pixel{
		R: clamp8(float64(p.R) + b.K),
		G: clamp8(float64(p.G) + b.K),
		B: clamp8(float64(p.B) + b.K),
	}
}

func (b Brightness) Process(src Image, opts *Options) (*Frame, error) { return process(src, b, opts) }
