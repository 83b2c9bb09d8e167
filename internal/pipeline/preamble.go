package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/reporting"
)

// PreambleConfig locates the inputs and output file of the provenance run.
type PreambleConfig struct {
	ManifestPath string
	SAPPath      string
	Metrics      RowSource
	OutPath      string
	Quiet        bool
}

// DefaultPreambleConfig returns the conventional intake layout.
func DefaultPreambleConfig() PreambleConfig {
	return PreambleConfig{
		ManifestPath: "intake/manifest.json",
		SAPPath:      "config/sap.yaml",
		Metrics:      RowSource{Path: "intake/metrics_long.csv"},
		OutPath:      "includes/provenance_macros.tex",
	}
}

// PreamblePipeline writes provenance_macros.tex.
type PreamblePipeline struct {
	rt  Runtime
	cfg PreambleConfig
}

// NewPreamblePipeline creates the provenance pipeline.
func NewPreamblePipeline(rt Runtime, cfg PreambleConfig) *PreamblePipeline {
	return &PreamblePipeline{rt: rt, cfg: cfg}
}

// Run writes the provenance macros. A missing manifest yields the default
// manifest; the metrics table is only consulted for degenerate intervals and
// calibration rows.
func (p *PreamblePipeline) Run(ctx context.Context) error {
	m, err := intake.LoadManifest(p.rt.FS, p.cfg.ManifestPath)
	if err != nil {
		p.rt.degraded("manifest", p.cfg.ManifestPath, err)
		m = domain.DefaultManifest()
	}

	sap, err := intake.LoadThresholds(p.rt.FS, p.cfg.SAPPath)
	if err != nil && !m.Current {
		p.rt.degraded("sap", p.cfg.SAPPath, err)
	}

	rows := p.rt.optionalRows(ctx, p.cfg.Metrics)
	report, err := reporting.NewGenerator(rows).Provenance(ctx, m, sap)
	if err != nil {
		return fmt.Errorf("build provenance report: %w", err)
	}

	if err := p.rt.writeFile(p.cfg.OutPath, reporting.RenderProvenance(report)); err != nil {
		return err
	}
	if !p.cfg.Quiet {
		p.rt.Log.Info("wrote provenance macros",
			zap.String("path", p.cfg.OutPath),
			zap.String("schema_version", m.SchemaVersion),
			zap.Bool("current_schema", m.Current))
	}
	return nil
}
