package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/reporting"
)

// HparamsConfig locates the hyperparameter config and output directory.
type HparamsConfig struct {
	ConfigPath string
	OutDir     string
}

// DefaultHparamsConfig returns the conventional intake layout.
func DefaultHparamsConfig() HparamsConfig {
	return HparamsConfig{
		ConfigPath: "intake/model_hyperparams.yaml",
		OutDir:     "includes",
	}
}

// HparamsPipeline writes table_hparams_chosen.tex.
type HparamsPipeline struct {
	rt  Runtime
	cfg HparamsConfig
}

// NewHparamsPipeline creates the hyperparameter table pipeline.
func NewHparamsPipeline(rt Runtime, cfg HparamsConfig) *HparamsPipeline {
	return &HparamsPipeline{rt: rt, cfg: cfg}
}

// Run writes the table; an unreadable config yields the placeholder table.
func (p *HparamsPipeline) Run() error {
	branches, err := intake.LoadHyperparams(p.rt.FS, p.cfg.ConfigPath)
	if err != nil {
		p.rt.degraded("hyperparams", p.cfg.ConfigPath, err)
		branches = nil
	}
	p.rt.Log.Debug("loaded hyperparameter branches", zap.Int("branches", len(branches)))

	a, err := reporting.RenderHyperparams(reporting.NewGenerator(nil).Hyperparams(branches))
	if err != nil {
		return fmt.Errorf("render hyperparams: %w", err)
	}
	return p.rt.writeArtifact(p.cfg.OutDir, a)
}
