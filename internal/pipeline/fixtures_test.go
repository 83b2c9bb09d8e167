package pipeline

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const fixtureMetricsCSV = "\ufeffMetric,Group,Value,CI_Low,CI_High,p_value,reference_group,run_id,model_id,split,ci_degenerate\n" +
	"air,race:black,0.95,0.90,1.00,,white,,,,\n" +
	"air,gender:female,0.72,0.60,0.84,0.01,male,,,,\n" +
	"srg,gender:female,-0.08,-0.12,-0.04,0.01,male,,,,\n" +
	"selection_rate,gender:female,0.36,0.31,0.41,,,,,,\n" +
	"selection_rate,gender:male,0.50,0.45,0.55,,,,,,\n" +
	"ece,,0.011,0.008,0.015,,,run_1,ctgan,test,\n" +
	"ece,,0.031,0.031,0.031,,,run_2,tvae,test,true\n" +
	"tpr_gap,gender:female,0.07,,,,,,,,\n" +
	"fpr_gap,gender:female,0.01,,,,,,,,\n"

const fixtureUncertaintyJSON = `{
  "fairness_uncertainty": {
    "gender": {
      "reference_group": "male",
      "protected_group": "female",
      "display_in_main_pdf": true,
      "air": {"point": 0.91, "ci95": [0.85, 0.97], "p_value": 0.2},
      "srg": {"point": -0.03, "ci95": [-0.05, -0.01]},
      "selection_rates": {"female": {"point": 0.40, "ci95": [0.35, 0.45]}, "male": {"point": 0.44, "ci95": [0.39, 0.49]}}
    },
    "race": {
      "reference_group": "white",
      "display_in_main_pdf": true,
      "observed": {"min_group_n": 37, "min_group_pct": 0.0412},
      "worst_case_pair": "black_vs_white",
      "pairs": {
        "black_vs_white": {"air": {"point": 0.74, "ci95": [0.6, 0.88], "p_value": 0.01, "p_value_adjusted": 0.03}}
      }
    }
  }
}`

const fixtureSlicesJSON = `{
  "schema_version": "fairness_slices.v1",
  "reference_group": "male",
  "protected_group": "female",
  "slices": {
    "historical": {"air": {"point": 0.70, "ci95": [0.6, 0.8]}, "counts": {"ref_n": 1200, "prot_n": 800}},
    "amplification": {"air": {"point": 0.69}, "counts": {"ref_n": 1200, "prot_n": 800}},
    "intrinsic": {"air": {"point": 0.93, "ci95": [0.88, 0.98]}, "counts": {"ref_n": 1000, "prot_n": 1000}}
  },
  "improvement": {"abs_uplift_air": 0.23, "rel_uplift_air": 0.3286},
  "bias_preservation": {"abs_delta_air": 0.01, "rel_delta_air": 0.0143}
}`

const fixtureSAP = "thresholds:\n  air_min: 0.8\n  tpr_gap_max: 0.05\n  fpr_gap_max: 0.05\n  ece_max: 0.02\n"

const fixtureManifest = `{
  "schema_version": "wp-intake.v1",
  "run_id": "run_42",
  "code_commit": "abc_123",
  "inference": {"method": "bca", "replicates": 5000, "alpha": 0.05},
  "thresholds": {"air_min": 0.8, "eo_gap_max": 0.05, "ece_max": 0.02},
  "seeds": {"rng_seed": 7}
}`

const fixtureHyperparams = `branches:
  main:
    chosen:
      batch_size: 500
      epochs: 300
      embedding_dim: 128
      pac: 10
      generator_dim: [256, 256]
      discriminator_dim: [256, 256]
`

const fixtureCertificate = `{"quality_threshold_used": 0.8, "quality_threshold_met": true, "overall_quality_score": 0.87}`

// writeIntake lays out a complete intake bundle.
func writeIntake(t *testing.T, fs afero.Fs) {
	t.Helper()
	files := map[string]string{
		"intake/metrics_long.csv":                                fixtureMetricsCSV,
		"intake/selection_rates.csv":                             "group,rate\n",
		"intake/metrics_uncertainty.json":                        fixtureUncertaintyJSON,
		"intake/fairness_slices.json":                            fixtureSlicesJSON,
		"intake/manifest.json":                                   fixtureManifest,
		"intake/model_hyperparams.yaml":                          fixtureHyperparams,
		"intake/certificates/synthetic_quality_certificate.json": fixtureCertificate,
		"config/sap.yaml":                                        fixtureSAP,
	}
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err, path)
	return string(data)
}
