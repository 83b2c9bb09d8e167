package main

import (
	"context"

	"whitepaper-gen/internal/cli"
	"whitepaper-gen/internal/pipeline"
)

func main() {
	cfg := pipeline.DefaultPreambleConfig()

	cmd, _ := cli.NewRoot("wp-preamble", "Generate provenance macros from the run manifest",
		func(ctx context.Context, env *cli.Env) error {
			return pipeline.NewPreamblePipeline(env.Runtime(), cfg).Run(ctx)
		})

	f := cmd.Flags()
	f.StringVar(&cfg.ManifestPath, "manifest", cfg.ManifestPath, "Path to manifest.json")
	f.StringVar(&cfg.SAPPath, "sap", cfg.SAPPath, "Path to the SAP YAML (thresholds for legacy manifests)")
	f.StringVar(&cfg.Metrics.Path, "metrics", cfg.Metrics.Path, "Path to metrics_long CSV or XLSX (degenerate CI and ECE detection)")
	f.StringVar(&cfg.Metrics.DSN, "metrics-dsn", "", "PostgreSQL connection string; reads metrics_long from the database instead of --metrics")
	f.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Output path for provenance_macros.tex")
	f.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Suppress informational messages")

	cli.Execute(cmd)
}
