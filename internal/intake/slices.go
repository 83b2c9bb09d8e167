package intake

import (
	"fmt"

	"github.com/spf13/afero"

	"whitepaper-gen/internal/domain"
)

// LoadSlices reads fairness_slices.json. Only domain.SlicesSchemaVersion is
// accepted.
func LoadSlices(fsys afero.Fs, path string) (domain.FairnessSlices, error) {
	root, err := readJSONObject(fsys, path)
	if err != nil {
		return domain.FairnessSlices{}, err
	}
	if v := jsonString(root.Get("schema_version")); v != domain.SlicesSchemaVersion {
		return domain.FairnessSlices{}, fmt.Errorf("%w: %s: unsupported schema_version %q", ErrMalformed, path, v)
	}

	out := domain.FairnessSlices{
		ReferenceGroup: jsonString(root.Get("reference_group")),
		ProtectedGroup: jsonString(root.Get("protected_group")),
		Slices:         make(map[string]domain.SliceComparison),
		AbsUpliftAIR:   jsonFloat(root.Get("improvement.abs_uplift_air")),
		RelUpliftAIR:   jsonFloat(root.Get("improvement.rel_uplift_air")),
		AbsDeltaAIR:    jsonFloat(root.Get("bias_preservation.abs_delta_air")),
		RelDeltaAIR:    jsonFloat(root.Get("bias_preservation.rel_delta_air")),
	}

	slices := root.Get("slices")
	for _, s := range domain.SliceOrder {
		v := slices.Get(s.Key)
		if !v.IsObject() {
			continue
		}
		out.Slices[s.Key] = domain.SliceComparison{
			AIR:   parseEstimate(v.Get("air")),
			RefN:  jsonInt(v.Get("counts.ref_n"), 0),
			ProtN: jsonInt(v.Get("counts.prot_n"), 0),
		}
	}
	return out, nil
}
