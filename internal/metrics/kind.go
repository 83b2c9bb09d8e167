// Package metrics centralizes how each fairness metric is judged against its
// threshold and how metric rows are summarized.
package metrics

import (
	"strings"

	"whitepaper-gen/internal/domain"
)

// Direction is the side of the threshold a compliant value lies on.
type Direction int

const (
	// DirectionNone marks metrics reported without a threshold.
	DirectionNone Direction = iota
	// DirectionFloor violates when value < threshold.
	DirectionFloor
	// DirectionCeiling violates when value > threshold.
	DirectionCeiling
)

func (d Direction) String() string {
	switch d {
	case DirectionFloor:
		return "floor"
	case DirectionCeiling:
		return "ceiling"
	default:
		return "none"
	}
}

// Kind identifies a metric in the long-format table.
type Kind string

const (
	KindAIR           Kind = domain.MetricAIR
	KindSRG           Kind = domain.MetricSRG
	KindSelectionRate Kind = domain.MetricSelectionRate
	KindTPRGap        Kind = domain.MetricTPRGap
	KindFPRGap        Kind = domain.MetricFPRGap
	KindECE           Kind = domain.MetricECE
)

var knownKinds = map[Kind]struct{}{
	KindAIR:           {},
	KindSRG:           {},
	KindSelectionRate: {},
	KindTPRGap:        {},
	KindFPRGap:        {},
	KindECE:           {},
}

// KindOf resolves a metric name, case-insensitively.
func KindOf(metric string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(metric)))
	_, ok := knownKinds[k]
	return k, ok
}

// Direction returns the threshold direction of the metric.
func (k Kind) Direction() Direction {
	switch k {
	case KindAIR:
		return DirectionFloor
	case KindTPRGap, KindFPRGap, KindECE:
		return DirectionCeiling
	default:
		return DirectionNone
	}
}

// Threshold selects the configured threshold for the metric.
func (k Kind) Threshold(t domain.Thresholds) (float64, bool) {
	switch k {
	case KindAIR:
		return t.AIRMin, true
	case KindTPRGap:
		return t.TPRGapMax, true
	case KindFPRGap:
		return t.FPRGapMax, true
	case KindECE:
		return t.ECEMax, true
	default:
		return 0, false
	}
}

// Violates reports whether value is on the wrong side of threshold.
func (k Kind) Violates(value, threshold float64) bool {
	switch k.Direction() {
	case DirectionFloor:
		return value < threshold
	case DirectionCeiling:
		return value > threshold
	default:
		return false
	}
}
