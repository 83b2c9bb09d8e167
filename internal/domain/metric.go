package domain

import "strings"

// MetricRow represents one row of the long-format metrics table (metrics_long).
type MetricRow struct {
	Metric         string   // metric name as written upstream, e.g. "air", "ece"
	Group          string   // "attribute:subgroup"
	Value          *float64 // nil when the cell failed numeric coercion
	CILow          *float64
	CIHigh         *float64
	PValue         *float64
	ReferenceGroup string // optional, legacy AIR rows only
	RunID          string
	ModelID        string
	Split          string
	CIDegenerate   bool
}

// Metric name constants as they appear in metrics_long.
const (
	MetricAIR           = "air"
	MetricSRG           = "srg"
	MetricSelectionRate = "selection_rate"
	MetricTPRGap        = "tpr_gap"
	MetricFPRGap        = "fpr_gap"
	MetricECE           = "ece"
)

// GroupKey is a decomposed "attribute:subgroup" key.
type GroupKey struct {
	Attribute string // lowercased
	Subgroup  string
}

// ParseGroupKey splits a group key on the first colon. The attribute is trimmed
// and lowercased; a key without a colon is all attribute.
func ParseGroupKey(group string) GroupKey {
	attr, sub, _ := strings.Cut(group, ":")
	return GroupKey{
		Attribute: strings.ToLower(strings.TrimSpace(attr)),
		Subgroup:  strings.TrimSpace(sub),
	}
}

// Key returns the metric name normalized for matching.
func (r MetricRow) Key() string {
	return strings.ToLower(strings.TrimSpace(r.Metric))
}

// GroupKey returns the decomposed group key of the row.
func (r MetricRow) GroupKey() GroupKey {
	return ParseGroupKey(r.Group)
}
