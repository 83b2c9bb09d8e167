package main

import (
	"context"

	"whitepaper-gen/internal/cli"
	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/pipeline"
)

func main() {
	cfg := pipeline.DefaultMacrosConfig()

	cmd, _ := cli.NewRoot("wp-macros", "Generate metrics macros and metric tables from intake",
		func(ctx context.Context, env *cli.Env) error {
			return pipeline.NewMacrosPipeline(env.Runtime(), cfg).Run(ctx)
		})

	f := cmd.Flags()
	f.StringVar(&cfg.UncertaintyPath, "uncertainty", cfg.UncertaintyPath, "Path to metrics_uncertainty.json (preferred AIR/SRG source)")
	f.StringVar(&cfg.SlicesPath, "slices", cfg.SlicesPath, "Path to fairness_slices.json")
	f.StringVar(&cfg.Metrics.Path, "metrics", cfg.Metrics.Path, "Path to metrics_long CSV or XLSX")
	f.StringVar(&cfg.Metrics.DSN, "metrics-dsn", "", "PostgreSQL connection string; reads metrics_long from the database instead of --metrics")
	f.StringVar(&cfg.SAPPath, "sap", cfg.SAPPath, "Path to the SAP YAML with thresholds")
	f.StringSliceVar(&cfg.CertificatePaths, "certificate", intake.DefaultCertificatePaths, "Quality certificate search path (repeatable, first existing wins)")
	f.StringVar(&cfg.OutDir, "outdir", cfg.OutDir, "Output directory for macros and tables")

	cli.Execute(cmd)
}
