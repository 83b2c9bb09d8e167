package domain

// ManifestSchemaPrefix marks the current (wp-intake) manifest schema.
const ManifestSchemaPrefix = "wp-intake."

// NotAvailable is the placeholder for provenance fields missing from the manifest.
const NotAvailable = "not_available"

// Provenance defaults.
const (
	DefaultInferenceMethod     = "percentile"
	DefaultInferenceReplicates = 2000
	DefaultInferenceAlpha      = 0.05
	DefaultScenarioType        = "synthetic_audit"
	DefaultScenarioLabel       = "Synthetic audit"
)

// Inference describes how the reported intervals were computed upstream.
type Inference struct {
	Method     string // display form, e.g. "BCa", "percentile"
	Replicates int
	Alpha      float64
	Smoothing  float64 // 0 when not used
}

// Scenario describes the audit scenario.
type Scenario struct {
	Type  string
	Label string
}

// ProvenanceThresholds are the thresholds recorded in a current-schema manifest.
type ProvenanceThresholds struct {
	AIRMin   float64
	EOGapMax float64
	ECEMax   float64
}

// Manifest is the provenance record of the run that produced the intake bundle.
// All string fields are defaulted at load time.
type Manifest struct {
	SchemaVersion string
	Current       bool // schema_version carries ManifestSchemaPrefix

	RunID             string
	CodeCommit        string
	DatasetHash       string
	ConfigHash        string
	APIImageDigest    string
	WorkerImageDigest string
	RNGSeed           string // raw seed text, empty when absent
	BootstrapSeed     string

	Inference  Inference
	Scenario   Scenario
	Thresholds *ProvenanceThresholds // nil for legacy manifests

	EOEnabled  bool
	ECEEnabled bool // capabilities.ece_enabled or capabilities.calibration_enabled
}

// DefaultManifest returns the manifest used when no manifest file is readable.
func DefaultManifest() Manifest {
	return Manifest{
		SchemaVersion:     NotAvailable,
		RunID:             NotAvailable,
		CodeCommit:        NotAvailable,
		DatasetHash:       NotAvailable,
		ConfigHash:        NotAvailable,
		APIImageDigest:    NotAvailable,
		WorkerImageDigest: NotAvailable,
		Inference: Inference{
			Method:     DefaultInferenceMethod,
			Replicates: DefaultInferenceReplicates,
			Alpha:      DefaultInferenceAlpha,
		},
		Scenario: Scenario{
			Type:  DefaultScenarioType,
			Label: DefaultScenarioLabel,
		},
	}
}
