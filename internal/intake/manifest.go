package intake

import (
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"whitepaper-gen/internal/domain"
)

// LoadManifest reads the provenance manifest. A wp-intake.* schema supplies
// inference, thresholds and scenario blocks directly; any other document is
// treated as a legacy runs[] manifest whose first run names the commit and
// scenario. Missing fields take their defaults.
func LoadManifest(fsys afero.Fs, path string) (domain.Manifest, error) {
	root, err := readJSONObject(fsys, path)
	if err != nil {
		return domain.Manifest{}, err
	}
	return parseManifest(root), nil
}

func parseManifest(root gjson.Result) domain.Manifest {
	m := domain.DefaultManifest()

	schema := jsonString(root.Get("schema_version"))
	m.SchemaVersion = firstNonEmpty(schema, domain.NotAvailable)
	m.Current = strings.HasPrefix(schema, domain.ManifestSchemaPrefix)

	m.RunID = firstNonEmpty(jsonString(root.Get("run_id")), domain.NotAvailable)
	m.DatasetHash = firstNonEmpty(jsonString(root.Get("dataset_hash")), domain.NotAvailable)
	m.ConfigHash = firstNonEmpty(jsonString(root.Get("config_hash")), domain.NotAvailable)
	m.APIImageDigest = firstNonEmpty(jsonString(root.Get("container_digests.api_image_digest")), domain.NotAvailable)
	m.WorkerImageDigest = firstNonEmpty(jsonString(root.Get("container_digests.worker_image_digest")), domain.NotAvailable)
	m.RNGSeed = jsonString(root.Get("seeds.rng_seed"))
	m.BootstrapSeed = jsonString(root.Get("seeds.bootstrap_seed"))

	m.EOEnabled = jsonTruthy(root.Get("capabilities.eo_enabled"))
	m.ECEEnabled = jsonTruthy(root.Get("capabilities.ece_enabled")) ||
		jsonTruthy(root.Get("capabilities.calibration_enabled"))

	if !m.Current {
		first := root.Get("runs.0")
		if !root.Get("runs").IsArray() || !first.IsObject() {
			first = gjson.Result{}
		}
		m.CodeCommit = firstNonEmpty(jsonString(first.Get("code_commit")), domain.NotAvailable)
		m.Scenario.Label = firstNonEmpty(jsonString(first.Get("scenario")), domain.DefaultScenarioLabel)
		return m
	}

	m.CodeCommit = firstNonEmpty(
		jsonString(root.Get("code_commit")),
		jsonString(root.Get("commit_sha")),
		domain.NotAvailable,
	)
	m.Inference = parseInference(objectOrEmpty(root.Get("inference")))

	sc := objectOrEmpty(root.Get("scenario"))
	m.Scenario = domain.Scenario{
		Type:  firstNonEmpty(jsonString(sc.Get("type")), domain.DefaultScenarioType),
		Label: firstNonEmpty(jsonString(sc.Get("label")), domain.DefaultScenarioLabel),
	}

	thr := objectOrEmpty(root.Get("thresholds"))
	m.Thresholds = &domain.ProvenanceThresholds{
		AIRMin:   jsonFloatOr(thr.Get("air_min"), domain.DefaultAIRMin),
		EOGapMax: jsonFloatOr(thr.Get("eo_gap_max"), domain.DefaultTPRGapMax),
		ECEMax:   jsonFloatOr(thr.Get("ece_max"), domain.DefaultECEMax),
	}
	return m
}

func parseInference(inf gjson.Result) domain.Inference {
	method := strings.ToLower(firstNonEmpty(jsonString(inf.Get("method")), domain.DefaultInferenceMethod))
	if method == "bca" {
		method = "BCa"
	}

	replicates := jsonInt(inf.Get("replicates"), domain.DefaultInferenceReplicates)
	if replicates == 0 {
		replicates = domain.DefaultInferenceReplicates
	}
	alpha := jsonFloatOr(inf.Get("alpha"), domain.DefaultInferenceAlpha)
	if alpha == 0 {
		alpha = domain.DefaultInferenceAlpha
	}

	return domain.Inference{
		Method:     method,
		Replicates: replicates,
		Alpha:      alpha,
		Smoothing:  jsonFloatOr(inf.Get("smoothing"), 0),
	}
}

func objectOrEmpty(r gjson.Result) gjson.Result {
	if r.IsObject() {
		return r
	}
	return gjson.Result{}
}
