package reporting

import (
	"context"
	"fmt"
	"sort"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/metrics"
	"whitepaper-gen/internal/storage"
)

// Generator normalizes intake records and stored metric rows into reports.
type Generator struct {
	rows storage.MetricRowStore
}

// NewGenerator creates a new report generator over the metrics table.
func NewGenerator(rows storage.MetricRowStore) *Generator {
	return &Generator{rows: rows}
}

// MetricsInput carries the decoded intake documents for the metrics report.
type MetricsInput struct {
	Uncertainty domain.FairnessUncertainty // empty selects the legacy rows
	Slices      *domain.FairnessSlices     // nil when unavailable
	Certificate *domain.QualityCertificate // nil when unavailable
	Thresholds  domain.Thresholds
}

// Metrics builds the metrics report. The uncertainty payload, when non-empty,
// is the only source of AIR/SRG rows; otherwise legacy air/srg rows are used.
// Calibration and gap metrics always come from the metrics table.
func (g *Generator) Metrics(ctx context.Context, in MetricsInput) (*MetricsReport, error) {
	all, err := g.rows.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metric rows: %w", err)
	}

	r := &MetricsReport{Thresholds: in.Thresholds, Certificate: in.Certificate}

	airTracker := metrics.NewTracker(metrics.KindAIR, in.Thresholds)
	switch {
	case !in.Uncertainty.Empty():
		r.Source = SourceUncertainty
		g.fromUncertainty(r, in.Uncertainty)
	case len(metrics.FilterRows(all, metrics.KindAIR)) > 0 || len(metrics.FilterRows(all, metrics.KindSRG)) > 0:
		r.Source = SourceLegacy
		g.fromLegacy(r, all)
	default:
		r.Source = SourceNone
	}
	for _, row := range r.AIRRows {
		airTracker.Observe(row.Value)
	}
	r.AIR = airTracker.Summary()

	r.TPRGap = metrics.Summarize(all, metrics.KindTPRGap, in.Thresholds)
	r.FPRGap = metrics.Summarize(all, metrics.KindFPRGap, in.Thresholds)
	eceRows, err := g.rows.GetByMetric(ctx, domain.MetricECE)
	if err != nil {
		return nil, fmt.Errorf("load ece rows: %w", err)
	}
	r.ECE = metrics.Summarize(eceRows, metrics.KindECE, in.Thresholds)
	for _, row := range eceRows {
		r.ECERows = append(r.ECERows, ECERow{
			RunID:   row.RunID,
			ModelID: row.ModelID,
			Split:   row.Split,
			Value:   row.Value,
			CILow:   row.CILow,
			CIHigh:  row.CIHigh,
		})
	}

	if len(r.SelectionRows) == 0 {
		r.SelectionRows = selectionRowsFromTable(all)
	}

	if in.Slices != nil {
		applySlices(r, *in.Slices, in.Thresholds.AIRMin)
	}
	return r, nil
}

// fromUncertainty fills the AIR/SRG rows, the Gender and Race sections and
// selection rates from the payload. A multi-valued attribute is tabulated
// through its worst-case pair, and only when flagged for display.
func (g *Generator) fromUncertainty(r *MetricsReport, u domain.FairnessUncertainty) {
	if gender, ok := u.Attribute("gender"); ok {
		r.Gender = GenderSection{
			ReferenceGroup: gender.ReferenceGroup,
			ProtectedGroup: gender.ProtectedGroup,
			AIR:            gender.AIR,
			SRG:            gender.SRG,
		}
	}
	if race, ok := u.Attribute("race"); ok {
		worst, _ := race.WorstPair()
		r.Race = RaceSection{
			Show:           race.Display,
			ReferenceGroup: race.ReferenceGroup,
			WorstCaseGroup: race.WorstCasePair,
			WorstAIR:       worst.AIR,
			Observed:       race.Observed,
		}
	}

	for _, name := range metrics.OrderAttributes(attributeNames(u)) {
		a, _ := u.Attribute(name)
		if !a.MultiValued() {
			r.AIRRows = append(r.AIRRows, summaryRow(name, a.ProtectedGroup, a.ReferenceGroup, a.AIR, a.AIR.PValue))
			r.SRGRows = append(r.SRGRows, summaryRow(name, a.ProtectedGroup, a.ReferenceGroup, a.SRG, a.AIR.PValue))
			r.SelectionRows = append(r.SelectionRows, selectionRowsFromPayload(name, a.SelectionRates)...)
			continue
		}
		if !a.Display || a.WorstCasePair == "" {
			continue
		}
		worst, _ := a.WorstPair()
		p := worst.AIR.PValueAdjusted
		if p == nil {
			p = worst.AIR.PValue
		}
		r.AIRRows = append(r.AIRRows, summaryRow(name, a.WorstCasePair, a.ReferenceGroup, worst.AIR, p))
		r.SRGRows = append(r.SRGRows, summaryRow(name, a.WorstCasePair, a.ReferenceGroup, worst.SRG, p))
		r.SelectionRows = append(r.SelectionRows, selectionRowsFromPayload(name, a.SelectionRates)...)
	}
}

// fromLegacy fills the AIR/SRG rows from metrics_long rows, ordered by
// attribute and otherwise kept in input order. The first gender row backs
// the Gender macros.
func (g *Generator) fromLegacy(r *MetricsReport, all []domain.MetricRow) {
	r.AIRRows = legacySummaryRows(metrics.FilterRows(all, metrics.KindAIR))
	r.SRGRows = legacySummaryRows(metrics.FilterRows(all, metrics.KindSRG))

	for _, row := range r.AIRRows {
		if row.Attribute == "gender" {
			r.Gender.ReferenceGroup = row.Reference
			r.Gender.ProtectedGroup = row.Protected
			r.Gender.AIR = estimateOf(row)
			break
		}
	}
	for _, row := range r.SRGRows {
		if row.Attribute == "gender" {
			r.Gender.SRG = estimateOf(row)
			break
		}
	}
}

// applySlices fills the slice table and macros. Slice group names are used
// only when the payload did not name the gender groups.
func applySlices(r *MetricsReport, s domain.FairnessSlices, airMin float64) {
	r.Slices.Available = true
	if r.Gender.ReferenceGroup == "" {
		r.Gender.ReferenceGroup = s.ReferenceGroup
	}
	if r.Gender.ProtectedGroup == "" {
		r.Gender.ProtectedGroup = s.ProtectedGroup
	}

	for _, o := range domain.SliceOrder {
		c, ok := s.Slice(o.Key)
		if !ok {
			continue
		}
		r.SliceRows = append(r.SliceRows, SliceRow{
			Label:      o.Label,
			RefN:       c.RefN,
			ProtN:      c.ProtN,
			AIR:        c.AIR.Point,
			CILow:      c.AIR.CI.Low,
			CIHigh:     c.AIR.CI.High,
			Compliance: metrics.AIRCompliance(c.AIR.Point, airMin),
		})
		switch o.Key {
		case domain.SliceHistorical:
			r.Slices.Historical = c.AIR
		case domain.SliceAmplification:
			r.Slices.Amplification = c.AIR
		case domain.SliceIntrinsic:
			r.Slices.Intrinsic = c.AIR
		}
	}

	r.Slices.UpliftAbs = s.AbsUpliftAIR
	r.Slices.UpliftRel = s.RelUpliftAIR
	r.Slices.FidelityAbs = s.AbsDeltaAIR
	r.Slices.FidelityRel = s.RelDeltaAIR
}

// Provenance builds the provenance report. Current-schema manifests carry
// their own thresholds; legacy ones borrow the SAP thresholds, with the TPR
// gap standing in for the equal-opportunity gap.
func (g *Generator) Provenance(ctx context.Context, m domain.Manifest, sap domain.Thresholds) (*ProvenanceReport, error) {
	all, err := g.rows.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metric rows: %w", err)
	}

	r := &ProvenanceReport{Manifest: m}
	if m.Current && m.Thresholds != nil {
		r.Thresholds = *m.Thresholds
	} else {
		r.Thresholds = domain.ProvenanceThresholds{
			AIRMin:   sap.AIRMin,
			EOGapMax: sap.TPRGapMax,
			ECEMax:   sap.ECEMax,
		}
	}

	for _, row := range all {
		if row.CIDegenerate {
			r.HasDegenerateCIs = true
		}
		if metrics.Kind(row.Key()) == metrics.KindECE {
			r.ECEEvaluated = true
		}
	}
	if !r.ECEEvaluated {
		r.ECEEvaluated = m.ECEEnabled
	}
	return r, nil
}

// Hyperparams builds the hyperparameter report.
func (g *Generator) Hyperparams(branches []domain.HyperparamBranch) *HyperparamReport {
	return &HyperparamReport{Branches: branches}
}

// Figures builds the figure data. With a non-empty payload only attributes
// flagged for display are drawn; otherwise selection_rate and air rows from
// the metrics table are used.
func (g *Generator) Figures(ctx context.Context, u domain.FairnessUncertainty, thr domain.Thresholds) (*FigureReport, error) {
	r := &FigureReport{AIRMin: thr.AIRMin, Source: SourceNone}

	if !u.Empty() {
		r.Source = SourceUncertainty
		for _, name := range metrics.OrderAttributes(attributeNames(u)) {
			a, _ := u.Attribute(name)
			if !a.Display {
				continue
			}
			if rows := selectionRowsFromPayload(name, a.SelectionRates); len(rows) > 0 {
				r.Facets = append(r.Facets, SelectionFacet{Attribute: name, Points: rows})
			}
			est, label := a.AIR, name
			if a.MultiValued() {
				worst, ok := a.WorstPair()
				if !ok {
					continue
				}
				est, label = worst.AIR, fmt.Sprintf("%s (%s)", name, a.WorstCasePair)
			}
			r.AIRPoints = append(r.AIRPoints, AIRPoint{
				Attribute: name, Label: label,
				AIR: est.Point, CILow: est.CI.Low, CIHigh: est.CI.High,
			})
		}
		return r, nil
	}

	all, err := g.rows.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metric rows: %w", err)
	}
	if len(all) > 0 {
		r.Source = SourceLegacy
	}
	r.Facets = facetsFromRows(selectionRowsFromTable(all))
	r.AIRPoints = airPointsFromRows(legacySummaryRows(metrics.FilterRows(all, metrics.KindAIR)))
	return r, nil
}

func attributeNames(u domain.FairnessUncertainty) []string {
	names := make([]string, 0, len(u.Attributes))
	for name := range u.Attributes {
		names = append(names, name)
	}
	return names
}

func summaryRow(attr, protected, reference string, e domain.Estimate, p *float64) SummaryRow {
	return SummaryRow{
		Attribute: attr,
		Protected: protected,
		Reference: reference,
		Value:     e.Point,
		CILow:     e.CI.Low,
		CIHigh:    e.CI.High,
		PValue:    p,
	}
}

func estimateOf(row SummaryRow) domain.Estimate {
	return domain.Estimate{
		Point:  row.Value,
		CI:     domain.Interval{Low: row.CILow, High: row.CIHigh},
		PValue: row.PValue,
	}
}

// legacySummaryRows maps air/srg rows to table rows, stably ordered by
// attribute display order.
func legacySummaryRows(rows []domain.MetricRow) []SummaryRow {
	out := make([]SummaryRow, 0, len(rows))
	for _, row := range rows {
		key := row.GroupKey()
		out = append(out, SummaryRow{
			Attribute: key.Attribute,
			Protected: key.Subgroup,
			Reference: row.ReferenceGroup,
			Value:     row.Value,
			CILow:     row.CILow,
			CIHigh:    row.CIHigh,
			PValue:    row.PValue,
		})
	}
	rank := attributeRank(out, func(r SummaryRow) string { return r.Attribute })
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i].Attribute] < rank[out[j].Attribute]
	})
	return out
}

func selectionRowsFromPayload(attr string, rates map[string]domain.Estimate) []SelectionRateRow {
	out := make([]SelectionRateRow, 0, len(rates))
	for group, e := range rates {
		out = append(out, SelectionRateRow{
			Attribute: attr,
			Group:     group,
			Rate:      e.Point,
			CILow:     e.CI.Low,
			CIHigh:    e.CI.High,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// selectionRowsFromTable returns selection_rate rows ordered by attribute,
// then group name.
func selectionRowsFromTable(all []domain.MetricRow) []SelectionRateRow {
	var out []SelectionRateRow
	for _, row := range metrics.FilterRows(all, metrics.KindSelectionRate) {
		key := row.GroupKey()
		out = append(out, SelectionRateRow{
			Attribute: key.Attribute,
			Group:     key.Subgroup,
			Rate:      row.Value,
			CILow:     row.CILow,
			CIHigh:    row.CIHigh,
		})
	}
	rank := attributeRank(out, func(r SelectionRateRow) string { return r.Attribute })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Attribute != out[j].Attribute {
			return rank[out[i].Attribute] < rank[out[j].Attribute]
		}
		return out[i].Group < out[j].Group
	})
	return out
}

func facetsFromRows(rows []SelectionRateRow) []SelectionFacet {
	var facets []SelectionFacet
	for _, row := range rows {
		if n := len(facets); n == 0 || facets[n-1].Attribute != row.Attribute {
			facets = append(facets, SelectionFacet{Attribute: row.Attribute})
		}
		f := &facets[len(facets)-1]
		f.Points = append(f.Points, row)
	}
	return facets
}

// airPointsFromRows labels each point by attribute, adding the subgroup when
// an attribute has several rows.
func airPointsFromRows(rows []SummaryRow) []AIRPoint {
	perAttr := make(map[string]int)
	for _, row := range rows {
		perAttr[row.Attribute]++
	}
	out := make([]AIRPoint, 0, len(rows))
	for _, row := range rows {
		label := row.Attribute
		if perAttr[row.Attribute] > 1 && row.Protected != "" {
			label = fmt.Sprintf("%s (%s)", row.Attribute, row.Protected)
		}
		out = append(out, AIRPoint{
			Attribute: row.Attribute, Label: label,
			AIR: row.Value, CILow: row.CILow, CIHigh: row.CIHigh,
		})
	}
	return out
}

// attributeRank maps each attribute of rows to its display position. Rows
// without an attribute sort last.
func attributeRank[T any](rows []T, attr func(T) string) map[string]int {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, attr(r))
	}
	ordered := metrics.OrderAttributes(names)
	rank := make(map[string]int, len(ordered)+1)
	for i, name := range ordered {
		rank[name] = i
	}
	rank[""] = len(ordered)
	return rank
}
