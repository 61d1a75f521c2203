// Package cli wires the filter engine to the pixfx command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Fepozopo/pixfx/pkg/config"
	"github.com/Fepozopo/pixfx/pkg/filter"
	"github.com/Fepozopo/pixfx/pkg/logging"
	"github.com/Fepozopo/pixfx/pkg/telemetry"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	cfg     config.Config
	log     *slog.Logger
	metrics *telemetry.Metrics
	store   *MetaStore
	detect  func(repo string) (*selfupdate.Release, bool, error)
}

func newApp() *app {
	return &app{
		log:     logging.L(),
		metrics: telemetry.New(),
		store:   NewMetaStore(filter.Commands),
		detect:  detectLatest,
	}
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pixfx",
		Short: "Image filter pipelines",
		Long: `pixfx runs pipelines of point, convolution, neighborhood, statistical
and morphological filters over PNG, JPEG, GIF, BMP, TIFF and WebP images.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.pixfx.yaml)")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.Bool("log-json", false, "log as JSON")
	pf.Int("workers", 0, "goroutines per filter (0 = GOMAXPROCS)")
	pf.String("metrics-file", "", "write prometheus metrics to this textfile when done")

	root.AddCommand(newApplyCmd(a), newBatchCmd(a), newListCmd(a), newUpdateCmd(a), newVersionCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.Configure(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, Output: cmd.ErrOrStderr()})
	a.log = logging.L()
	if cfg.File != "" {
		a.log.Debug("using config file", "path", cfg.File)
	}
	return nil
}

// flush writes the metrics textfile, if configured, and passes err through.
func (a *app) flush(err error) error {
	if a.cfg.MetricsFile == "" {
		return err
	}
	if werr := a.metrics.WriteTextfile(a.cfg.MetricsFile); werr != nil {
		return errors.Join(err, fmt.Errorf("write metrics: %w", werr))
	}
	return err
}

// Execute runs the command line and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pixfx:", err)
		os.Exit(1)
	}
}
