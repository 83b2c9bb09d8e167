package domain

// SlicesSchemaVersion is the only fairness_slices schema understood.
const SlicesSchemaVersion = "fairness_slices.v1"

// Slice keys in display order.
const (
	SliceHistorical    = "historical"
	SliceAmplification = "amplification"
	SliceIntrinsic     = "intrinsic"
)

// SliceOrder lists slice keys with their display labels.
var SliceOrder = []struct {
	Key   string
	Label string
}{
	{SliceHistorical, "Historical"},
	{SliceAmplification, "Amplification (bias-preserving)"},
	{SliceIntrinsic, "Intrinsic (de-biased)"},
}

// SliceComparison is one slice of the gender AIR comparison.
type SliceComparison struct {
	AIR   Estimate
	RefN  int
	ProtN int
}

// FairnessSlices is the decoded fairness_slices.json payload.
type FairnessSlices struct {
	ReferenceGroup string
	ProtectedGroup string
	Slices         map[string]SliceComparison

	AbsUpliftAIR *float64 // improvement.abs_uplift_air
	RelUpliftAIR *float64 // improvement.rel_uplift_air (fraction)
	AbsDeltaAIR  *float64 // bias_preservation.abs_delta_air
	RelDeltaAIR  *float64 // bias_preservation.rel_delta_air (fraction)
}

// Slice returns the slice for key, if present.
func (s FairnessSlices) Slice(key string) (SliceComparison, bool) {
	c, ok := s.Slices[key]
	return c, ok
}
