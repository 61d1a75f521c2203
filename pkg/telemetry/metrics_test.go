package telemetry

import (
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Fepozopo/pixfx/pkg/filter"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStage(t *testing.T) {
	m := New()
	m.ObserveStage("blur", 2*time.Millisecond, filter.NewFrame(4, 3), nil)
	m.ObserveStage("blur", time.Millisecond, filter.NewFrame(2, 2), nil)
	m.ObserveStage("histogram", time.Millisecond, nil, fmt.Errorf("stage 0: %w", filter.ErrDegenerateRange))
	m.Recovered("histogram")

	if got := testutil.ToFloat64(m.pixels.WithLabelValues("blur")); got != 16 {
		t.Fatalf("blur pixels = %v, want 16", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues("histogram", "degenerate_range")); got != 1 {
		t.Fatalf("histogram errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.recoveries.WithLabelValues("histogram")); got != 1 {
		t.Fatalf("recoveries = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 2 {
		t.Fatalf("duration series = %d, want 2", n)
	}
}

func TestFileDone(t *testing.T) {
	m := New()
	m.FileDone(nil)
	m.FileDone(nil)
	m.FileDone(io.ErrUnexpectedEOF)
	if got := testutil.ToFloat64(m.files.WithLabelValues("ok")); got != 2 {
		t.Fatalf("ok files = %v", got)
	}
	if got := testutil.ToFloat64(m.files.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed files = %v", got)
	}
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{filter.ErrOutOfBounds, "out_of_bounds"},
		{filter.ErrDivideByZero, "divide_by_zero"},
		{fmt.Errorf("blur: %w", filter.ErrInvalidKernel), "invalid_kernel"},
		{filter.ErrInvalidMask, "invalid_mask"},
		{filter.ErrEmptyImage, "empty_image"},
		{io.EOF, "other"},
	}
	for _, c := range cases {
		if got := ErrorKind(c.err); got != c.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestWriteTextfileAndHandler(t *testing.T) {
	m := New()
	m.ObserveStage("invert", time.Millisecond, filter.NewFrame(1, 1), nil)

	path := filepath.Join(t.TempDir(), "pixfx.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `pixfx_pixels_processed_total{filter="invert"} 1`) {
		t.Fatalf("textfile missing pixel counter:\n%s", b)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "pixfx_filter_duration_seconds_count") {
		t.Fatalf("handler output missing histogram:\n%s", rec.Body.String())
	}
}
