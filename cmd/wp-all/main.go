package main

import (
	"context"

	"go.uber.org/zap"

	"whitepaper-gen/internal/cli"
	"whitepaper-gen/internal/orchestrator"
)

func main() {
	opts := orchestrator.DefaultOptions()

	cmd, _ := cli.NewRoot("wp-all", "Run every generator over one intake bundle",
		func(ctx context.Context, env *cli.Env) error {
			result, err := orchestrator.New(env.Runtime(), opts).Run(ctx)
			if result != nil {
				env.Logger.Info("run finished",
					zap.Int("phases", len(result.Phases)),
					zap.Int("failed", len(result.Failed())))
			}
			return err
		})

	f := cmd.Flags()
	f.StringVar(&opts.IntakeDir, "intake", opts.IntakeDir, "Intake bundle directory")
	f.StringVar(&opts.SAPPath, "sap", opts.SAPPath, "Path to the SAP YAML with thresholds")
	f.StringVar(&opts.MetricsDSN, "metrics-dsn", "", "PostgreSQL connection string; reads metrics_long from the database")
	f.StringVar(&opts.IncludesDir, "includes", opts.IncludesDir, "Output directory for macros and tables")
	f.StringVar(&opts.FiguresDir, "figures", opts.FiguresDir, "Output directory for figures")

	cli.Execute(cmd)
}
