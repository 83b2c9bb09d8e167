// Package orchestrator runs every generator over one intake bundle.
// Phases: metrics macros → provenance → hyperparameters → figures
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"whitepaper-gen/internal/figures"
	"whitepaper-gen/internal/idhash"
	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/pipeline"
)

// Phase names.
const (
	PhaseMacros   = "macros"
	PhasePreamble = "preamble"
	PhaseHparams  = "hparams"
	PhasePlots    = "plots"
)

// Options locate the intake bundle and output directories.
type Options struct {
	IntakeDir   string // holds the intake files under their conventional names
	SAPPath     string
	MetricsDSN  string // overrides intake/metrics_long.csv when set
	IncludesDir string
	FiguresDir  string
	Renderer    figures.Renderer
}

// DefaultOptions returns the conventional layout relative to the working
// directory.
func DefaultOptions() Options {
	return Options{
		IntakeDir:   "intake",
		SAPPath:     "config/sap.yaml",
		IncludesDir: "includes",
		FiguresDir:  "figures",
	}
}

// Orchestrator coordinates the generator pipelines.
type Orchestrator struct {
	rt   pipeline.Runtime
	opts Options
}

// New creates an orchestrator. A nil renderer draws PDFs.
func New(rt pipeline.Runtime, opts Options) *Orchestrator {
	if opts.Renderer == nil {
		opts.Renderer = figures.NewPDF()
	}
	return &Orchestrator{rt: rt, opts: opts}
}

// PhaseResult is the outcome of one phase.
type PhaseResult struct {
	Phase    string
	Duration time.Duration
	Err      error
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	Phases []PhaseResult
	Files  int
	Digest string // idhash.BundleDigest of every file written
}

// Failed returns the phases that returned an error.
func (r *RunResult) Failed() []PhaseResult {
	var out []PhaseResult
	for _, p := range r.Phases {
		if p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

// Run executes every phase in order. A failed phase does not stop later
// ones; the returned error summarizes the failures.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	phases := []struct {
		name string
		run  func(context.Context) error
	}{
		{PhaseMacros, func(ctx context.Context) error {
			return pipeline.NewMacrosPipeline(o.rt, o.MacrosConfig()).Run(ctx)
		}},
		{PhasePreamble, func(ctx context.Context) error {
			return pipeline.NewPreamblePipeline(o.rt, o.PreambleConfig()).Run(ctx)
		}},
		{PhaseHparams, func(context.Context) error {
			return pipeline.NewHparamsPipeline(o.rt, o.HparamsConfig()).Run()
		}},
		{PhasePlots, func(ctx context.Context) error {
			return pipeline.NewPlotsPipeline(o.rt, o.PlotsConfig(), o.opts.Renderer).Run(ctx)
		}},
	}

	for i, phase := range phases {
		o.rt.Log.Info("phase started", zap.Int("phase", i+1), zap.String("name", phase.name))
		start := time.Now()
		err := phase.run(ctx)
		pr := PhaseResult{Phase: phase.name, Duration: time.Since(start), Err: err}
		result.Phases = append(result.Phases, pr)
		if err != nil {
			o.rt.Log.Error("phase failed", zap.String("name", phase.name), zap.Error(err))
			continue
		}
		o.rt.Log.Info("phase completed", zap.String("name", phase.name), zap.Duration("duration", pr.Duration))
	}

	written := o.rt.Written()
	result.Files = len(written)
	result.Digest = idhash.BundleDigest(written)
	o.rt.Log.Info("outputs written", zap.Int("files", result.Files), zap.String("bundle_sha256", result.Digest))

	if failed := result.Failed(); len(failed) > 0 {
		return result, fmt.Errorf("%d of %d phases failed, first %s: %w",
			len(failed), len(result.Phases), failed[0].Phase, failed[0].Err)
	}
	return result, nil
}

func (o *Orchestrator) intake(name string) string {
	return filepath.Join(o.opts.IntakeDir, name)
}

func (o *Orchestrator) metrics() pipeline.RowSource {
	return pipeline.RowSource{Path: o.intake("metrics_long.csv"), DSN: o.opts.MetricsDSN}
}

// MacrosConfig derives the metrics macros configuration.
func (o *Orchestrator) MacrosConfig() pipeline.MacrosConfig {
	return pipeline.MacrosConfig{
		UncertaintyPath: o.intake("metrics_uncertainty.json"),
		SlicesPath:      o.intake("fairness_slices.json"),
		Metrics:         o.metrics(),
		SAPPath:         o.opts.SAPPath,
		CertificatePaths: []string{
			o.intake(filepath.Join("certificates", "synthetic_quality_certificate.json")),
			intake.DefaultCertificatePaths[1],
		},
		OutDir: o.opts.IncludesDir,
	}
}

// PreambleConfig derives the provenance configuration.
func (o *Orchestrator) PreambleConfig() pipeline.PreambleConfig {
	return pipeline.PreambleConfig{
		ManifestPath: o.intake("manifest.json"),
		SAPPath:      o.opts.SAPPath,
		Metrics:      o.metrics(),
		OutPath:      filepath.Join(o.opts.IncludesDir, "provenance_macros.tex"),
		Quiet:        true,
	}
}

// HparamsConfig derives the hyperparameter table configuration.
func (o *Orchestrator) HparamsConfig() pipeline.HparamsConfig {
	return pipeline.HparamsConfig{
		ConfigPath: o.intake("model_hyperparams.yaml"),
		OutDir:     o.opts.IncludesDir,
	}
}

// PlotsConfig derives the figure configuration.
func (o *Orchestrator) PlotsConfig() pipeline.PlotsConfig {
	return pipeline.PlotsConfig{
		UncertaintyPath: o.intake("metrics_uncertainty.json"),
		SelectionPath:   o.intake("selection_rates.csv"),
		Metrics:         o.metrics(),
		SAPPath:         o.opts.SAPPath,
		OutDir:          o.opts.FiguresDir,
	}
}
