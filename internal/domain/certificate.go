package domain

// QualityCertificate is the synthetic-quality certificate. Each Has* flag
// records whether the key was present at all; a present key with an
// unusable value still produces a TBD macro.
type QualityCertificate struct {
	HasThresholdUsed bool
	ThresholdUsed    *float64

	HasThresholdMet bool
	ThresholdMet    bool

	HasScore bool
	Score    *float64
}
