package main

import (
	"context"

	"whitepaper-gen/internal/cli"
	"whitepaper-gen/internal/pipeline"
)

func main() {
	cfg := pipeline.DefaultHparamsConfig()

	cmd, _ := cli.NewRoot("wp-hparams", "Generate the chosen hyperparameter table",
		func(_ context.Context, env *cli.Env) error {
			return pipeline.NewHparamsPipeline(env.Runtime(), cfg).Run()
		})

	f := cmd.Flags()
	f.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Path to model_hyperparams.yaml")
	f.StringVar(&cfg.OutDir, "outdir", cfg.OutDir, "Output directory for table_hparams_chosen.tex")

	cli.Execute(cmd)
}
