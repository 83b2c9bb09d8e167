package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/reporting"
)

// MacrosConfig locates the inputs and output directory of the metrics
// macros run.
type MacrosConfig struct {
	UncertaintyPath  string
	SlicesPath       string
	Metrics          RowSource
	SAPPath          string
	CertificatePaths []string
	OutDir           string
}

// DefaultMacrosConfig returns the conventional intake layout.
func DefaultMacrosConfig() MacrosConfig {
	return MacrosConfig{
		UncertaintyPath:  "intake/metrics_uncertainty.json",
		SlicesPath:       "intake/fairness_slices.json",
		Metrics:          RowSource{Path: "intake/metrics_long.csv"},
		SAPPath:          "config/sap.yaml",
		CertificatePaths: intake.DefaultCertificatePaths,
		OutDir:           "includes",
	}
}

// MacrosPipeline writes metrics_macros.tex and the metric tables.
type MacrosPipeline struct {
	rt  Runtime
	cfg MacrosConfig
}

// NewMacrosPipeline creates the metrics macros pipeline.
func NewMacrosPipeline(rt Runtime, cfg MacrosConfig) *MacrosPipeline {
	return &MacrosPipeline{rt: rt, cfg: cfg}
}

// Run loads every input, degrading each independently, and writes the six
// output files.
func (p *MacrosPipeline) Run(ctx context.Context) error {
	in := reporting.MetricsInput{}

	thr, err := intake.LoadThresholds(p.rt.FS, p.cfg.SAPPath)
	if err != nil {
		p.rt.degraded("sap", p.cfg.SAPPath, err)
	}
	in.Thresholds = thr

	u, err := intake.LoadUncertainty(p.rt.FS, p.cfg.UncertaintyPath)
	if err != nil {
		p.rt.degraded("uncertainty", p.cfg.UncertaintyPath, err)
		u = domain.FairnessUncertainty{}
	}
	in.Uncertainty = u

	if s, err := intake.LoadSlices(p.rt.FS, p.cfg.SlicesPath); err != nil {
		p.rt.degraded("slices", p.cfg.SlicesPath, err)
	} else {
		in.Slices = &s
	}

	if c, used, err := intake.LoadCertificate(p.rt.FS, p.cfg.CertificatePaths); err != nil {
		p.rt.degraded("certificate", used, err)
	} else {
		p.rt.Log.Debug("using quality certificate", zap.String("path", used))
		in.Certificate = &c
	}

	rows := p.rt.loadRows(ctx, p.cfg.Metrics)
	report, err := reporting.NewGenerator(rows).Metrics(ctx, in)
	if err != nil {
		return fmt.Errorf("build metrics report: %w", err)
	}
	p.rt.Log.Info("metrics report built",
		zap.String("source", string(report.Source)),
		zap.Int("air_rows", len(report.AIRRows)),
		zap.Int("air_violations", report.AIR.Violations),
		zap.Int("ece_rows", len(report.ECERows)))

	artifacts, err := reporting.RenderMetrics(report)
	if err != nil {
		return fmt.Errorf("render metrics: %w", err)
	}
	for _, a := range artifacts {
		if err := p.rt.writeArtifact(p.cfg.OutDir, a); err != nil {
			return err
		}
	}
	return nil
}
