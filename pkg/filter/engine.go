package filter

import (
	"runtime"
	"sync"
)

// Filter turns a source image into a freshly allocated frame. Implementations
// never mutate src.
type Filter interface {
	Process(src Image, opts *Options) (*Frame, error)
}

// Evaluator computes one output pixel from the source image alone.
type Evaluator interface {
	Evaluate(src Image, x, y int) Pixel
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(src Image, x, y int) Pixel

func (f EvaluatorFunc) Evaluate(src Image, x, y int) Pixel { return f(src, x, y) }

// Options are the execution parameters shared by all filters.
type Options struct {
	// Workers is the number of goroutines used for the pixel scan.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Workers int
}

// minParallelRows is the height below which scans stay single-threaded.
const minParallelRows = 64

func (o *Options) workers() int {
	if o == nil || o.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Run evaluates e at every coordinate of src and returns the assembled frame.
func Run(src Image, e Evaluator, opts *Options) *Frame {
	out := NewFrame(src.Width(), src.Height())
	scanRows(src.Height(), opts, func(y0, y1 int) {
		w := src.Width()
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				out.Set(x, y, e.Evaluate(src, x, y))
			}
		}
	})
	return out
}

// scanRows splits [0,h) into contiguous bands and runs fn on each band.
// Bands never overlap, so fn may write its rows without locking.
func scanRows(h int, opts *Options, fn func(y0, y1 int)) {
	workers := opts.workers()
	// fallback to single-threaded for small images
	if h < minParallelRows || workers <= 1 {
		fn(0, h)
		return
	}
	chunk := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for wi := 0; wi < workers; wi++ {
		y0 := wi * chunk
		y1 := y0 + chunk
		if y1 > h {
			y1 = h
		}
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

// process is the shared Process body for stateless evaluators.
func process(src Image, e Evaluator, opts *Options) (*Frame, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	return Run(src, e, opts), nil
}
