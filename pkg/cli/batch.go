package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type batchOptions struct {
	pipelineFlags
	ext       string
	keepGoing bool
}

func newBatchCmd(a *app) *cobra.Command {
	var opt batchOptions
	cmd := &cobra.Command{
		Use:   "batch <out-dir> <input>...",
		Short: "Run the same filter pipeline over many images concurrently",
		Example: `  pixfx batch out/ shots/*.jpg -f grayWorld -f sharpen --jobs 4
  pixfx batch thumbs/ *.png -f open:square5 --ext jpg --keep-going`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.flush(a.batch(cmd.Context(), args[0], args[1:], opt))
		},
	}
	addPipelineFlags(cmd, &opt.pipelineFlags)
	f := cmd.Flags()
	f.Int("jobs", 0, "files processed concurrently (0 = GOMAXPROCS)")
	f.StringVar(&opt.ext, "ext", "", "output extension, e.g. png (default keeps the input's)")
	f.BoolVar(&opt.keepGoing, "keep-going", false, "log failed files and continue with the rest")
	f.String("metrics-addr", "", "serve /metrics on this address while the batch runs")
	return cmd
}

// outputPath places the base name of in under dir, swapping the extension when
// ext is set.
func outputPath(dir, in, ext string) string {
	base := filepath.Base(in)
	if ext != "" {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + "." + strings.TrimPrefix(ext, ".")
	}
	return filepath.Join(dir, base)
}

func (a *app) batch(ctx context.Context, outDir string, inputs []string, opt batchOptions) error {
	// fail on a bad step before touching any file
	if _, err := a.buildPipeline(opt.pipelineFlags); err != nil {
		return err
	}
	outputs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		out := outputPath(outDir, in, opt.ext)
		if prev, dup := seen[out]; dup {
			return fmt.Errorf("%s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in
		outputs[i] = out
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	if a.cfg.MetricsAddr != "" {
		stop := a.serveMetrics(a.cfg.MetricsAddr)
		defer stop()
	}

	jobs := a.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range inputs {
		in := in
		out := outputs[i]
		g.Go(func() error {
			err := a.processFile(gctx, in, out, opt.pipelineFlags)
			if err == nil || !opt.keepGoing {
				return err
			}
			failed.Add(1)
			a.log.Error("file failed", "in", in, "err", err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(inputs))
	}
	a.log.Info("batch done", "files", len(inputs), "jobs", jobs, "out", outDir)
	return nil
}

// serveMetrics exposes the registry until the returned stop func is called.
func (a *app) serveMetrics(addr string) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	a.log.Info("serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
