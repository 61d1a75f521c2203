package cli

import (
	"fmt"
	"strings"

	"github.com/Fepozopo/pixfx/pkg/imageio"
	"github.com/spf13/cobra"
)

func newApplyCmd(a *app) *cobra.Command {
	var pf pipelineFlags
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "apply <input> <output>",
		Short: "Run a filter pipeline over one image",
		Example: `  pixfx apply in.png out.png -f grayscale -f median:3 -f sobel
  pixfx apply photo.jpg warm.jpg -f baseColor:10:20:200,180,160 --quality 90
  pixfx apply photo.jpg out.png -f blur:2 --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				return a.dryRun(cmd, args[0], args[1], pf)
			}
			return a.flush(a.processFile(cmd.Context(), args[0], args[1], pf))
		},
	}
	addPipelineFlags(cmd, &pf)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the pipeline and report the input without writing")
	return cmd
}

// dryRun reads only the input header and checks every step.
func (a *app) dryRun(cmd *cobra.Command, in, out string, pf pipelineFlags) error {
	info, err := imageio.Probe(in)
	if err != nil {
		return err
	}
	p, err := a.buildPipeline(pf)
	if err != nil {
		return err
	}
	names := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		names[i] = s.Name
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %s\n", in, info)
	fmt.Fprintf(w, "pipeline: %s\n", strings.Join(names, " -> "))
	fmt.Fprintf(w, "would write %s\n", out)
	return nil
}
