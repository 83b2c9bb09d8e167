package domain

// Thresholds holds the named compliance thresholds from the SAP config.
// Values are not capped: an AIR floor above 1 is a legal configuration.
type Thresholds struct {
	AIRMin    float64 `validate:"gte=0"` // adverse impact ratio floor
	TPRGapMax float64 `validate:"gte=0"` // true positive rate gap ceiling
	FPRGapMax float64 `validate:"gte=0"` // false positive rate gap ceiling
	ECEMax    float64 `validate:"gte=0"` // expected calibration error ceiling
}

// Default threshold values used when the SAP config omits them.
const (
	DefaultAIRMin    = 0.80
	DefaultTPRGapMax = 0.05
	DefaultFPRGapMax = 0.05
	DefaultECEMax    = 0.02
)

// DefaultThresholds returns the threshold set used when no config is available.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AIRMin:    DefaultAIRMin,
		TPRGapMax: DefaultTPRGapMax,
		FPRGapMax: DefaultFPRGapMax,
		ECEMax:    DefaultECEMax,
	}
}
