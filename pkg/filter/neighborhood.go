package filter

import (
	"math/rand"
	"sort"
	"time"
)

const (
	DefaultGlassSpread  = 5
	DefaultMedianRadius = 2
	DefaultShift        = 50
)

// Glass displaces every pixel by a random offset drawn uniformly from
// [-Spread, Spread) on each axis. Samples that land outside the image fall back
// to the pixel itself.
type Glass struct {
	Rand   *rand.Rand
	Spread float64
}

// NewGlass returns a Glass with the default spread and a generator seeded with seed.
func NewGlass(seed int64) Glass {
	return Glass{Rand: rand.New(rand.NewSource(seed)), Spread: DefaultGlassSpread}
}

// Process draws all offsets sequentially in row-major order, then runs the
// scan. Output depends only on the generator state, not on Workers.
func (g Glass) Process(src Image, opts *Options) (*Frame, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	rng := g.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	spread := g.Spread
	if spread <= 0 {
		spread = DefaultGlassSpread
	}
	w, h := src.Width(), src.Height()
	targets := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := float64(x) + (rng.Float64()*2-1)*spread
			fy := float64(y) + (rng.Float64()*2-1)*spread
			if fx >= 0 && fx < float64(w) && fy >= 0 && fy < float64(h) {
				targets[y*w+x] = int(fy)*w + int(fx)
			} else {
				targets[y*w+x] = y*w + x
			}
		}
	}
	e := EvaluatorFunc(func(src Image, x, y int) Pixel {
		t := targets[y*w+x]
		return src.PixelAt(t%w, t/w)
	})
	return Run(src, e, opts), nil
}

// MedianRank selects which order statistic Median outputs.
type MedianRank int

const (
	// RankMiddle picks index count/2 of the collected samples, the true median
	// even where the window is cut by the border.
	RankMiddle MedianRank = iota
	// RankFixed always picks index size²/2 of the full window. Near borders, where
	// fewer samples exist, that index is skewed toward the bright end and yields
	// black once it runs past the collected samples.
	RankFixed
)

// Median replaces each pixel by an order statistic of its (2*Radius+1)² window,
// ordered by brightness. Out-of-range offsets are skipped, not clamped.
type Median struct {
	Radius int
	Rank   MedianRank
}

// NewMedian returns a 5×5 true-median filter.
func NewMedian() Median { return Median{Radius: DefaultMedianRadius, Rank: RankMiddle} }

func (m Median) Evaluate(src Image, x, y int) Pixel {
	r := m.Radius
	if r < 0 {
		r = 0
	}
	size := 2*r + 1
	w, h := src.Width(), src.Height()
	samples := make([]Pixel, 0, size*size)
	for i := -r; i <= r; i++ {
		for j := -r; j <= r; j++ {
			if x+i < 0 || x+i >= w || y+j < 0 || y+j >= h {
				continue
			}
			samples = append(samples, src.PixelAt(x+i, y+j))
		}
	}
	sort.SliceStable(samples, func(a, b int) bool {
		return samples[a].Brightness() < samples[b].Brightness()
	})
	idx := len(samples) / 2
	if m.Rank == RankFixed {
		idx = size * size / 2
		if idx >= len(samples) {
			return black
		}
	}
	return samples[idx]
}

func (m Median) Process(src Image, opts *Options) (*Frame, error) { return process(src, m, opts) }

// Shift translates the image left by Offset columns and fills the freed
// columns on the right with black.
type Shift struct {
	Offset int
}

// NewShift returns a Shift with the default offset.
func NewShift() Shift { return Shift{Offset: DefaultShift} }

func (s Shift) Evaluate(src Image, x, y int) Pixel {
	off := s.Offset
	if off < 0 {
		off = 0
	}
	if x < src.Width()-off {
		return src.PixelAt(x+off, y)
	}
	return black
}

func (s Shift) Process(src Image, opts *Options) (*Frame, error) { return process(src, s, opts) }
