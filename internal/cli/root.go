// Package cli holds the cobra scaffolding shared by the command-line tools.
package cli

import (
	"context"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whitepaper-gen/internal/logging"
	"whitepaper-gen/internal/observability"
	"whitepaper-gen/internal/pipeline"
)

// Env is the per-invocation state handed to a tool's run function.
type Env struct {
	Verbose         bool
	MetricsTextfile string

	Logger  *zap.Logger
	Metrics *observability.Metrics
	FS      afero.Fs
}

// Runtime returns the pipeline runtime for this invocation.
func (e *Env) Runtime() pipeline.Runtime {
	return pipeline.NewRuntime(e.FS, e.Logger, e.Metrics)
}

// RunFunc is the body of a tool.
type RunFunc func(ctx context.Context, env *Env) error

// NewRoot builds a root command with the common --verbose and
// --metrics-textfile flags. The logger and run counters are created before
// run is called; the counters are written out afterwards even when run
// fails.
func NewRoot(use, short string, run RunFunc) (*cobra.Command, *Env) {
	env := &Env{FS: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(env.Verbose)
			if err != nil {
				return err
			}
			env.Logger = logger.Named(use)
			env.Metrics = observability.NewMetrics(use)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), env)
			env.Metrics.RecordRun(err)
			if werr := env.Metrics.WriteTextfile(env.MetricsTextfile); werr != nil {
				env.Logger.Warn("metrics textfile not written", zap.Error(werr))
			}
			if err != nil {
				env.Logger.Error("run failed", zap.Error(err))
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env.Logger != nil {
				_ = env.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&env.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&env.MetricsTextfile, "metrics-textfile", "", "Write run metrics to this Prometheus textfile")
	return cmd, env
}

// Execute runs cmd and exits non-zero when it fails.
func Execute(cmd *cobra.Command) {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
