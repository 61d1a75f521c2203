package filter

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Params carries the already-resolved defaults used when a command argument
// is omitted. Acquiring them (flags, config, prompts) is the caller's job.
type Params struct {
	Seed           int64
	SepiaDepth     float64
	Brightness     float64
	ShiftOffset    int
	GlassSpread    float64
	MedianRadius   int
	MedianRank     MedianRank
	BlurRadius     int
	GaussianRadius int
	GaussianSigma  float64
	BaseX, BaseY   int
	BaseTarget     Pixel
	Shape          string
}

// DefaultParams returns the built-in defaults.
func DefaultParams() Params {
	return Params{
		SepiaDepth:     DefaultSepiaDepth,
		Brightness:     DefaultBrightness,
		ShiftOffset:    DefaultShift,
		GlassSpread:    DefaultGlassSpread,
		MedianRadius:   DefaultMedianRadius,
		MedianRank:     RankMiddle,
		BlurRadius:     DefaultBlurRadius,
		GaussianRadius: DefaultGaussianRadius,
		GaussianSigma:  DefaultGaussianSigma,
		BaseTarget:     Pixel{128, 128, 128},
		Shape:          "plus",
	}
}

// ParseMedianRank accepts "middle" or "fixed".
func ParseMedianRank(s string) (MedianRank, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "middle", "median":
		return RankMiddle, nil
	case "fixed", "12":
		return RankFixed, nil
	default:
		return RankMiddle, fmt.Errorf("invalid median rank %q (want middle or fixed)", s)
	}
}

// ParsePixel parses "R,G,B" with each channel in 0..255.
func ParsePixel(s string) (Pixel, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Pixel{}, fmt.Errorf("invalid color %q: want R,G,B", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return Pixel{}, fmt.Errorf("invalid color %q: channel %d must be 0..255", s, i)
		}
		ch[i] = uint8(v)
	}
	return Pixel{ch[0], ch[1], ch[2]}, nil
}

// ParseShape resolves a structuring element name: "plus", "square" (3×3),
// "squareN", or explicit rows such as "010,111,010".
func ParseShape(s string) (StructuringElement, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "plus":
		return PlusElement(), nil
	case s == "square":
		return SquareElement(3)
	case strings.HasPrefix(s, "square"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "square"))
		if err != nil {
			return StructuringElement{}, fmt.Errorf("%w: bad square size in %q", ErrInvalidMask, s)
		}
		return SquareElement(n)
	default:
		return ParseStructuringElement(s)
	}
}

// argReader reads optional positional args, falling back to defaults on "".
type argReader struct {
	cmd  string
	args []string
	spec []ArgSpec
}

func (a argReader) raw(i int) string {
	if i < len(a.args) {
		return strings.TrimSpace(a.args[i])
	}
	return ""
}

func (a argReader) name(i int) string {
	if i < len(a.spec) {
		return a.spec[i].Name
	}
	return strconv.Itoa(i)
}

func (a argReader) intArg(i, def int) (int, error) {
	s := a.raw(i)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid %s: %w", a.cmd, a.name(i), err)
	}
	return v, nil
}

func (a argReader) floatArg(i int, def float64) (float64, error) {
	s := a.raw(i)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid %s: %w", a.cmd, a.name(i), err)
	}
	return v, nil
}

func (a argReader) shape(i int, def string) (StructuringElement, error) {
	s := a.raw(i)
	if s == "" {
		s = def
	}
	se, err := ParseShape(s)
	if err != nil {
		return StructuringElement{}, fmt.Errorf("%s: %w", a.cmd, err)
	}
	return se, nil
}

// Build constructs the named filter from textual args. Missing or empty args
// take their value from p.
func Build(name string, args []string, p Params) (Filter, error) {
	spec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(args) > len(spec.Args) {
		return nil, fmt.Errorf("%s takes at most %d args, got %d (usage: %s)", spec.Name, len(spec.Args), len(args), spec.Usage)
	}
	a := argReader{cmd: spec.Name, args: args, spec: spec.Args}

	switch spec.Name {
	case "invert":
		return Invert{}, nil
	case "grayscale":
		return Grayscale{}, nil

	case "sepia":
		k, err := a.floatArg(0, p.SepiaDepth)
		if err != nil {
			return nil, err
		}
		return Sepia{K: k}, nil

	case "brightness":
		k, err := a.floatArg(0, p.Brightness)
		if err != nil {
			return nil, err
		}
		return Brightness{K: k}, nil

	case "grayWorld":
		return GrayWorld{}, nil

	case "baseColor":
		x, err := a.intArg(0, p.BaseX)
		if err != nil {
			return nil, err
		}
		y, err := a.intArg(1, p.BaseY)
		if err != nil {
			return nil, err
		}
		target := p.BaseTarget
		if s := a.raw(2); s != "" {
			if target, err = ParsePixel(s); err != nil {
				return nil, fmt.Errorf("baseColor: %w", err)
			}
		}
		return BaseColor{RefX: x, RefY: y, Target: target}, nil

	case "histogram":
		return HistogramStretch{}, nil

	case "shift":
		off, err := a.intArg(0, p.ShiftOffset)
		if err != nil {
			return nil, err
		}
		if off < 0 {
			return nil, fmt.Errorf("shift: offset must be >= 0, got %d", off)
		}
		return Shift{Offset: off}, nil

	case "glass":
		spread, err := a.floatArg(0, p.GlassSpread)
		if err != nil {
			return nil, err
		}
		if !(spread > 0) {
			return nil, fmt.Errorf("glass: spread must be > 0, got %v", spread)
		}
		seed := p.Seed
		if s := a.raw(1); s != "" {
			if seed, err = strconv.ParseInt(s, 10, 64); err != nil {
				return nil, fmt.Errorf("glass: invalid seed: %w", err)
			}
		}
		return Glass{Rand: rand.New(rand.NewSource(seed)), Spread: spread}, nil

	case "median":
		r, err := a.intArg(0, p.MedianRadius)
		if err != nil {
			return nil, err
		}
		if r < 0 || r > MaxRadius {
			return nil, fmt.Errorf("median: radius must be in 0..%d, got %d", MaxRadius, r)
		}
		rank := p.MedianRank
		if s := a.raw(1); s != "" {
			if rank, err = ParseMedianRank(s); err != nil {
				return nil, fmt.Errorf("median: %w", err)
			}
		}
		return Median{Radius: r, Rank: rank}, nil

	case "blur":
		r, err := a.intArg(0, p.BlurRadius)
		if err != nil {
			return nil, err
		}
		k, err := Blur(r)
		if err != nil {
			return nil, fmt.Errorf("blur: %w", err)
		}
		return Convolution{Kernel: k}, nil

	case "gaussian":
		r, err := a.intArg(0, p.GaussianRadius)
		if err != nil {
			return nil, err
		}
		sigma, err := a.floatArg(1, p.GaussianSigma)
		if err != nil {
			return nil, err
		}
		k, err := Gaussian(r, sigma)
		if err != nil {
			return nil, fmt.Errorf("gaussian: %w", err)
		}
		return Convolution{Kernel: k}, nil

	case "sharpen":
		return Convolution{Kernel: Sharpness()}, nil
	case "sharpenMore":
		return Convolution{Kernel: MoreSharpness()}, nil
	case "sobel":
		return Sobel(), nil
	case "sobelX":
		return Convolution{Kernel: SobelX()}, nil
	case "sobelY":
		return Convolution{Kernel: SobelY()}, nil
	case "prewitt":
		return Prewitt(), nil
	case "prewittX":
		return Convolution{Kernel: PrewittX()}, nil
	case "prewittY":
		return Convolution{Kernel: PrewittY()}, nil

	case "dilate", "erode", "open", "close", "morphGradient":
		se, err := a.shape(0, p.Shape)
		if err != nil {
			return nil, err
		}
		op := MorphOp(spec.Name)
		if spec.Name == "morphGradient" {
			op = OpGradient
		}
		return Morphology{Op: op, Element: se}, nil

	default:
		return nil, fmt.Errorf("command %s is registered but not buildable", spec.Name)
	}
}

// ParseStep splits "name:arg1:arg2" into a command name and its args. Args are
// separated by ':' because colors and masks contain commas, as in
// "baseColor:10:20:200,180,160".
func ParseStep(step string) (string, []string) {
	name, rest, found := strings.Cut(step, ":")
	if !found || rest == "" {
		return strings.TrimSpace(name), nil
	}
	return strings.TrimSpace(name), strings.Split(rest, ":")
}
