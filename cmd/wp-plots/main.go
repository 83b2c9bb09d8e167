package main

import (
	"context"

	"whitepaper-gen/internal/cli"
	"whitepaper-gen/internal/figures"
	"whitepaper-gen/internal/pipeline"
)

func main() {
	cfg := pipeline.DefaultPlotsConfig()

	cmd, _ := cli.NewRoot("wp-plots", "Generate PDF figures from intake",
		func(ctx context.Context, env *cli.Env) error {
			return pipeline.NewPlotsPipeline(env.Runtime(), cfg, figures.NewPDF()).Run(ctx)
		})

	f := cmd.Flags()
	f.StringVar(&cfg.UncertaintyPath, "uncertainty", cfg.UncertaintyPath, "Path to metrics_uncertainty.json (preferred source)")
	f.StringVar(&cfg.SelectionPath, "selection", cfg.SelectionPath, "Path to selection_rates.csv (required for the legacy source)")
	f.StringVar(&cfg.Metrics.Path, "metrics", cfg.Metrics.Path, "Path to metrics_long CSV or XLSX")
	f.StringVar(&cfg.Metrics.DSN, "metrics-dsn", "", "PostgreSQL connection string; reads metrics_long from the database instead of --metrics")
	f.StringVar(&cfg.SAPPath, "sap", cfg.SAPPath, "Path to the SAP YAML (AIR threshold line)")
	f.StringVar(&cfg.OutDir, "outdir", cfg.OutDir, "Output directory for figures")

	cli.Execute(cmd)
}
