package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/storage"
)

// LoadConfig names the metrics file to publish.
type LoadConfig struct {
	MetricsPath string
	Replace     bool // discard previously stored rows
}

// LoadPipeline copies a metrics_long file into a metric row store. Unlike
// the generators it fails on unreadable input, since loading nothing is
// never the intent.
type LoadPipeline struct {
	rt    Runtime
	cfg   LoadConfig
	store storage.MetricRowStore
}

// NewLoadPipeline creates a loader writing to store.
func NewLoadPipeline(rt Runtime, cfg LoadConfig, store storage.MetricRowStore) *LoadPipeline {
	return &LoadPipeline{rt: rt, cfg: cfg, store: store}
}

// Run reads the file and stores its rows, returning the number stored.
func (p *LoadPipeline) Run(ctx context.Context) (int, error) {
	rows, err := intake.LoadMetricRows(p.rt.FS, p.cfg.MetricsPath)
	if err != nil {
		return 0, fmt.Errorf("read metrics: %w", err)
	}

	if p.cfg.Replace {
		err = p.store.ReplaceAll(ctx, rows)
	} else {
		err = p.store.InsertBulk(ctx, rows)
	}
	if err != nil {
		return 0, fmt.Errorf("store metrics: %w", err)
	}

	p.rt.Log.Info("metrics loaded",
		zap.String("path", p.cfg.MetricsPath),
		zap.Int("rows", len(rows)),
		zap.Bool("replace", p.cfg.Replace))
	return len(rows), nil
}
