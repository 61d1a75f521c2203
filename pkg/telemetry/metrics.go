// Package telemetry records filter run metrics in a private prometheus
// registry, for scraping while a batch runs or for a node-exporter textfile.
package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/Fepozopo/pixfx/pkg/filter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg *prometheus.Registry

	duration   *prometheus.HistogramVec
	errors     *prometheus.CounterVec
	pixels     *prometheus.CounterVec
	recoveries *prometheus.CounterVec
	files      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pixfx",
			Name:      "filter_duration_seconds",
			Help:      "Time spent in one filter stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"filter"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixfx",
			Name:      "filter_errors_total",
			Help:      "Filter stages that failed, by filter and error kind.",
		}, []string{"filter", "kind"}),
		pixels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixfx",
			Name:      "pixels_processed_total",
			Help:      "Output pixels produced, by filter.",
		}, []string{"filter"}),
		recoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixfx",
			Name:      "filter_recoveries_total",
			Help:      "Degenerate inputs echoed unchanged instead of failing.",
		}, []string{"filter"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixfx",
			Name:      "files_total",
			Help:      "Files handled by apply and batch, by outcome.",
		}, []string{"status"}),
	}
	m.reg.MustRegister(m.duration, m.errors, m.pixels, m.recoveries, m.files)
	return m
}

// ObserveStage has the shape of filter.StageObserver.
func (m *Metrics) ObserveStage(name string, elapsed time.Duration, out *filter.Frame, err error) {
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		m.errors.WithLabelValues(name, ErrorKind(err)).Inc()
		return
	}
	if out != nil {
		m.pixels.WithLabelValues(name).Add(float64(out.Width() * out.Height()))
	}
}

func (m *Metrics) Recovered(name string) { m.recoveries.WithLabelValues(name).Inc() }

// FileDone counts one processed file as "ok" or "failed".
func (m *Metrics) FileDone(err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.files.WithLabelValues(status).Inc()
}

// ErrorKind buckets err by the filter sentinel it wraps.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, filter.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, filter.ErrDivideByZero):
		return "divide_by_zero"
	case errors.Is(err, filter.ErrDegenerateRange):
		return "degenerate_range"
	case errors.Is(err, filter.ErrInvalidKernel):
		return "invalid_kernel"
	case errors.Is(err, filter.ErrInvalidMask):
		return "invalid_mask"
	case errors.Is(err, filter.ErrEmptyImage):
		return "empty_image"
	default:
		return "other"
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current values atomically in the text exposition
// format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
