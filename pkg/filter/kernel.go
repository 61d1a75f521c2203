package filter

import (
	"fmt"
	"math"
)

const (
	DefaultBlurRadius     = 5
	DefaultGaussianRadius = 5
	DefaultGaussianSigma  = 3.0
)

// Kernel is an immutable square convolution matrix of size 2*radius+1.
// Weights are row-major with the center at (radius, radius); rows follow the
// y offset and columns the x offset.
type Kernel struct {
	radius  int
	weights []float64
}

// MaxRadius bounds the radius of every window sized from user input.
const MaxRadius = 64

func checkRadius(radius int) error {
	if radius < 0 {
		return fmt.Errorf("%w: negative radius %d", ErrInvalidKernel, radius)
	}
	if radius > MaxRadius {
		return fmt.Errorf("%w: radius %d exceeds %d", ErrInvalidKernel, radius, MaxRadius)
	}
	return nil
}

// NewKernel copies weights into a new Kernel. len(weights) must be (2*radius+1)².
func NewKernel(radius int, weights []float64) (Kernel, error) {
	if err := checkRadius(radius); err != nil {
		return Kernel{}, err
	}
	size := 2*radius + 1
	if len(weights) != size*size {
		return Kernel{}, fmt.Errorf("%w: radius %d needs %d weights, got %d", ErrInvalidKernel, radius, size*size, len(weights))
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return Kernel{radius: radius, weights: w}, nil
}

// mustKernel is for the fixed presets below, whose shapes are known to be valid.
func mustKernel(radius int, weights []float64) Kernel {
	k, err := NewKernel(radius, weights)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Kernel) Radius() int { return k.radius }
func (k Kernel) Size() int   { return 2*k.radius + 1 }

// At returns the weight at row offset di and column offset dj, both in [-r, r].
func (k Kernel) At(di, dj int) float64 {
	return k.weights[(di+k.radius)*k.Size()+dj+k.radius]
}

// Weights returns a copy of the row-major weights.
func (k Kernel) Weights() []float64 {
	w := make([]float64, len(k.weights))
	copy(w, k.weights)
	return w
}

// Sum returns the sum of all weights.
func (k Kernel) Sum() float64 {
	s := 0.0
	for _, v := range k.weights {
		s += v
	}
	return s
}

func (k Kernel) valid() bool {
	return len(k.weights) == k.Size()*k.Size() && len(k.weights) > 0
}

// SobelX returns the Sobel kernel responding to changes along y rows.
func SobelX() Kernel {
	return mustKernel(1, []float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	})
}

// SobelY returns the Sobel kernel responding to changes along x columns.
func SobelY() Kernel {
	return mustKernel(1, []float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	})
}

func PrewittX() Kernel {
	return mustKernel(1, []float64{
		-1, 0, 1,
		-1, 0, 1,
		-1, 0, 1,
	})
}

func PrewittY() Kernel {
	return mustKernel(1, []float64{
		-1, -1, -1,
		0, 0, 0,
		1, 1, 1,
	})
}

// Sharpness is the 4-neighbor sharpening kernel.
func Sharpness() Kernel {
	return mustKernel(1, []float64{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	})
}

// MoreSharpness is the 8-neighbor sharpening kernel.
func MoreSharpness() Kernel {
	return mustKernel(1, []float64{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	})
}

// Blur returns a box kernel whose weights are all 1/size².
func Blur(radius int) (Kernel, error) {
	if err := checkRadius(radius); err != nil {
		return Kernel{}, err
	}
	size := 2*radius + 1
	w := make([]float64, size*size)
	for i := range w {
		w[i] = 1.0 / float64(len(w))
	}
	return NewKernel(radius, w)
}

// Gaussian returns exp(-(dx²+dy²)/sigma²) weights normalized to sum 1.
func Gaussian(radius int, sigma float64) (Kernel, error) {
	if err := checkRadius(radius); err != nil {
		return Kernel{}, err
	}
	if !(sigma > 0) {
		return Kernel{}, fmt.Errorf("%w: sigma must be positive, got %v", ErrInvalidKernel, sigma)
	}
	size := 2*radius + 1
	w := make([]float64, size*size)
	sum := 0.0
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			v := math.Exp(-float64(dx*dx+dy*dy) / (sigma * sigma))
			w[(dx+radius)*size+dy+radius] = v
			sum += v
		}
	}
	// normalize
	for i := range w {
		w[i] /= sum
	}
	return NewKernel(radius, w)
}
