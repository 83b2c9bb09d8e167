package metrics

import "whitepaper-gen/internal/latex"

// Compliance is the verdict of an AIR point estimate against its floor.
type Compliance string

const (
	CompliancePass    Compliance = "PASS"
	ComplianceFail    Compliance = "FAIL"
	ComplianceUnknown Compliance = latex.Placeholder
)

// AIRCompliance labels an AIR point: PASS at or above airMin, FAIL below,
// unknown when the point is absent.
func AIRCompliance(point *float64, airMin float64) Compliance {
	if !latex.Usable(point) {
		return ComplianceUnknown
	}
	if KindAIR.Violates(*point, airMin) {
		return ComplianceFail
	}
	return CompliancePass
}
