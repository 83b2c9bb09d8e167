package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/figures"
	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/reporting"
	"whitepaper-gen/internal/storage/memory"
)

// PlotsConfig locates the inputs and output directory of the figure run.
type PlotsConfig struct {
	UncertaintyPath string
	SelectionPath   string
	Metrics         RowSource
	SAPPath         string
	OutDir          string
}

// DefaultPlotsConfig returns the conventional intake layout.
func DefaultPlotsConfig() PlotsConfig {
	return PlotsConfig{
		UncertaintyPath: "intake/metrics_uncertainty.json",
		SelectionPath:   "intake/selection_rates.csv",
		Metrics:         RowSource{Path: "intake/metrics_long.csv"},
		SAPPath:         "config/sap.yaml",
		OutDir:          "figures",
	}
}

// PlotsPipeline writes selection_rates.pdf and air_summary.pdf.
type PlotsPipeline struct {
	rt       Runtime
	cfg      PlotsConfig
	renderer figures.Renderer
}

// NewPlotsPipeline creates the figure pipeline drawing with renderer.
func NewPlotsPipeline(rt Runtime, cfg PlotsConfig, renderer figures.Renderer) *PlotsPipeline {
	return &PlotsPipeline{rt: rt, cfg: cfg, renderer: renderer}
}

// Run draws the figures. The output directory is always created. Without
// an uncertainty payload, figures need both the selection file and the
// metrics table; missing either produces nothing.
func (p *PlotsPipeline) Run(ctx context.Context) error {
	if err := p.rt.ensureDir(p.cfg.OutDir); err != nil {
		return err
	}

	thr, err := intake.LoadThresholds(p.rt.FS, p.cfg.SAPPath)
	if err != nil {
		p.rt.degraded("sap", p.cfg.SAPPath, err)
	}

	u, err := intake.LoadUncertainty(p.rt.FS, p.cfg.UncertaintyPath)
	if err != nil {
		p.rt.degraded("uncertainty", p.cfg.UncertaintyPath, err)
		u = domain.FairnessUncertainty{}
	}

	rows := memory.NewMetricRowStore()
	if u.Empty() {
		if !intake.Exists(p.rt.FS, p.cfg.SelectionPath) || !p.rt.sourcePresent(p.cfg.Metrics) {
			p.rt.Log.Info("no figure inputs, skipping",
				zap.String("selection", p.cfg.SelectionPath),
				zap.String("metrics", p.cfg.Metrics.Path))
			p.rt.Metrics.RecordFigureSkipped("no inputs")
			return nil
		}
		rows = p.rt.loadRows(ctx, p.cfg.Metrics)
	}

	report, err := reporting.NewGenerator(rows).Figures(ctx, u, thr)
	if err != nil {
		return fmt.Errorf("build figure report: %w", err)
	}

	artifacts, skips, err := figures.NewEmitter(p.renderer).Emit(report)
	if err != nil {
		p.rt.Log.Warn("figure rendering failed", zap.Error(err))
		p.rt.Metrics.RecordFigureSkipped("render error")
		return nil
	}
	for _, s := range skips {
		p.rt.Log.Info("figure skipped", zap.String("figure", s.Name), zap.String("reason", s.Reason))
		p.rt.Metrics.RecordFigureSkipped(s.Reason)
	}
	for _, a := range artifacts {
		if err := p.rt.writeArtifact(p.cfg.OutDir, a); err != nil {
			return err
		}
	}
	return nil
}
