package reporting

import (
	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/metrics"
)

// Source records which input a summary was built from.
type Source string

const (
	SourceNone        Source = "none"
	SourceUncertainty Source = "uncertainty"
	SourceLegacy      Source = "metrics_long"
)

// MetricsReport is the normalized content of metrics_macros.tex and the
// metric tables.
type MetricsReport struct {
	Thresholds domain.Thresholds
	Source     Source // origin of the AIR/SRG rows

	// Threshold summaries
	AIR    metrics.Summary
	TPRGap metrics.Summary
	FPRGap metrics.Summary
	ECE    metrics.Summary

	Gender GenderSection
	Race   RaceSection
	Slices SliceSection

	// Certificate is nil when no quality certificate was found.
	Certificate *domain.QualityCertificate

	// Table rows
	AIRRows       []SummaryRow
	SRGRows       []SummaryRow
	ECERows       []ECERow
	SliceRows     []SliceRow
	SelectionRows []SelectionRateRow
}

// GenderSection backs the Gender* macros.
type GenderSection struct {
	ReferenceGroup string
	ProtectedGroup string
	AIR            domain.Estimate
	SRG            domain.Estimate
}

// RaceSection backs the Race* macros. The worst-case pair stands in for the
// attribute as a whole.
type RaceSection struct {
	Show           bool
	ReferenceGroup string
	WorstCaseGroup string
	WorstAIR       domain.Estimate
	Observed       domain.Observed
}

// SliceSection backs the GenderAIR{Historical,Amplification,Intrinsic} and
// uplift/fidelity macros.
type SliceSection struct {
	Available     bool
	Historical    domain.Estimate
	Amplification domain.Estimate
	Intrinsic     domain.Estimate
	UpliftAbs     *float64
	UpliftRel     *float64 // fraction
	FidelityAbs   *float64
	FidelityRel   *float64 // fraction
}

// SummaryRow is one row of the AIR or SRG summary table.
type SummaryRow struct {
	Attribute string
	Protected string
	Reference string
	Value     *float64
	CILow     *float64
	CIHigh    *float64
	PValue    *float64
}

// ECERow is one row of the calibration table.
type ECERow struct {
	RunID   string
	ModelID string
	Split   string
	Value   *float64
	CILow   *float64
	CIHigh  *float64
}

// SliceRow is one row of the gender slice comparison table.
type SliceRow struct {
	Label      string
	RefN       int
	ProtN      int
	AIR        *float64
	CILow      *float64
	CIHigh     *float64
	Compliance metrics.Compliance
}

// SelectionRateRow is one subgroup selection rate.
type SelectionRateRow struct {
	Attribute string
	Group     string
	Rate      *float64
	CILow     *float64
	CIHigh    *float64
}

// ProvenanceReport is the normalized content of provenance_macros.tex.
type ProvenanceReport struct {
	Manifest         domain.Manifest
	Thresholds       domain.ProvenanceThresholds
	HasDegenerateCIs bool
	ECEEvaluated     bool
}

// HyperparamReport is the normalized content of table_hparams_chosen.tex.
type HyperparamReport struct {
	Branches []domain.HyperparamBranch
}

// FigureReport is the data behind the PDF figures.
type FigureReport struct {
	Source    Source
	AIRMin    float64
	Facets    []SelectionFacet
	AIRPoints []AIRPoint
}

// SelectionFacet is one attribute panel of the selection-rate figure.
// Points are sorted by group name.
type SelectionFacet struct {
	Attribute string
	Points    []SelectionRateRow
}

// AIRPoint is one point of the AIR summary figure.
type AIRPoint struct {
	Attribute string
	Label     string
	AIR       *float64
	CILow     *float64
	CIHigh    *float64
}
