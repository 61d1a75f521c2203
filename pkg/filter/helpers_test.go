package filter

import (
	"math/rand"
	"testing"
)

func makeSolid(w, h int, p Pixel) *Frame {
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, p)
		}
	}
	return f
}

// makeNoise fills a frame with reproducible random colors.
func makeNoise(w, h int, seed int64) *Frame {
	rng := rand.New(rand.NewSource(seed))
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, Pixel{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))})
		}
	}
	return f
}

// makeBinary returns a black w×h frame with white pixels wherever on(x, y) holds.
func makeBinary(w, h int, on func(x, y int) bool) *Frame {
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if on(x, y) {
				f.Set(x, y, white)
			}
		}
	}
	return f
}

func mustProcess(t *testing.T, f Filter, src Image) *Frame {
	t.Helper()
	out, err := f.Process(src, nil)
	if err != nil {
		t.Fatalf("%T.Process: %v", f, err)
	}
	if out.Width() != src.Width() || out.Height() != src.Height() {
		t.Fatalf("%T changed size: %dx%d -> %dx%d", f, src.Width(), src.Height(), out.Width(), out.Height())
	}
	return out
}

func assertPixel(t *testing.T, f *Frame, x, y int, want Pixel) {
	t.Helper()
	if got := f.PixelAt(x, y); got != want {
		t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func assertUniform(t *testing.T, f *Frame, want Pixel) {
	t.Helper()
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			if got := f.PixelAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}
