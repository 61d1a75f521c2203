package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Fepozopo/pixfx/pkg/filter"
	"github.com/Fepozopo/pixfx/pkg/imageio"
	"github.com/spf13/cobra"
)

type pipelineFlags struct {
	steps    []string
	tolerant bool
}

func addPipelineFlags(cmd *cobra.Command, pf *pipelineFlags) {
	f := cmd.Flags()
	f.StringArrayVarP(&pf.steps, "filter", "f", nil, "filter step as name[:arg[:arg...]], repeatable, applied in order")
	f.BoolVar(&pf.tolerant, "tolerant", false, "echo the input of a stage whose image is degenerate instead of failing")
	f.Int64("seed", 0, "seed for stochastic filters")
	f.Int("quality", 0, "JPEG quality 1..100 (default from jpeg_quality)")
	_ = cmd.MarkFlagRequired("filter")
}

// buildPipeline turns textual steps into a pipeline. It is cheap, and filters
// such as glass carry their own random source, so every file gets a fresh one.
func (a *app) buildPipeline(pf pipelineFlags) (*filter.Pipeline, error) {
	if len(pf.steps) == 0 {
		return nil, errors.New("no filters given; use -f name[:arg...]")
	}
	params := a.cfg.Params()
	p := filter.NewPipeline()
	for _, step := range pf.steps {
		name, args := filter.ParseStep(step)
		spec, err := a.store.Get(name)
		if err != nil {
			return nil, err
		}
		norm, err := NormalizeArgs(a.store, spec.Name, args)
		if err != nil {
			return nil, err
		}
		f, err := filter.Build(spec.Name, norm, params)
		if err != nil {
			return nil, err
		}
		if pf.tolerant {
			stage := spec.Name
			f = filter.Tolerant{Filter: f, OnRecover: func(err error) {
				a.metrics.Recovered(stage)
				a.log.Warn("stage input is degenerate, passing it through", "filter", stage, "err", err)
			}}
		}
		p.Add(spec.Name, f)
	}
	p.Observe = func(name string, elapsed time.Duration, out *filter.Frame, err error) {
		a.metrics.ObserveStage(name, elapsed, out, err)
		if err == nil {
			a.log.Debug("stage done", "filter", name, "duration", elapsed, "width", out.Width(), "height", out.Height())
		}
	}
	return p, nil
}

// processFile loads in, runs the pipeline and writes out.
func (a *app) processFile(ctx context.Context, in, out string, pf pipelineFlags) (err error) {
	defer func() { a.metrics.FileDone(err) }()
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := a.buildPipeline(pf)
	if err != nil {
		return err
	}
	src, err := imageio.Load(in)
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := p.Process(src, &filter.Options{Workers: a.cfg.Workers})
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := imageio.Save(out, res.NRGBA(), a.cfg.JPEGQuality); err != nil {
		return err
	}
	a.log.Info("wrote image", "in", in, "out", out, "width", res.Width(), "height", res.Height(), "stages", len(p.Stages), "duration", time.Since(start))
	return nil
}
