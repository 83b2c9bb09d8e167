package domain

// Interval is a two-sided confidence interval. Either bound may be absent.
type Interval struct {
	Low  *float64
	High *float64
}

// Estimate is a point estimate with its interval and test statistics.
type Estimate struct {
	Point          *float64
	CI             Interval
	PValue         *float64
	PValueAdjusted *float64 // multiplicity-adjusted, multi-valued attributes only
}

// PairEstimate holds the estimates for one protected/reference pair of a
// multi-valued attribute.
type PairEstimate struct {
	AIR Estimate
	SRG Estimate
}

// Observed carries sample-size diagnostics for an attribute.
type Observed struct {
	MinGroupN   int
	MinGroupPct float64
}

// AttributeUncertainty is the uncertainty record of one protected attribute.
type AttributeUncertainty struct {
	Name           string // lowercased attribute key, e.g. "gender"
	ReferenceGroup string
	ProtectedGroup string
	AIR            Estimate
	SRG            Estimate
	Observed       Observed
	Display        bool // display_in_main_pdf
	Pairs          map[string]PairEstimate
	WorstCasePair  string
	SelectionRates map[string]Estimate // subgroup -> selection rate, optional
}

// MultiValued reports whether the attribute is reported per pair.
func (a AttributeUncertainty) MultiValued() bool {
	return len(a.Pairs) > 0
}

// WorstPair returns the estimates of the worst-case pair, if named and present.
func (a AttributeUncertainty) WorstPair() (PairEstimate, bool) {
	if a.WorstCasePair == "" {
		return PairEstimate{}, false
	}
	p, ok := a.Pairs[a.WorstCasePair]
	return p, ok
}

// FairnessUncertainty is the source-of-truth fairness payload, keyed by
// lowercased attribute name.
type FairnessUncertainty struct {
	Attributes map[string]AttributeUncertainty
}

// Empty reports whether the payload carries no attributes.
func (u FairnessUncertainty) Empty() bool {
	return len(u.Attributes) == 0
}

// Attribute returns the record for name (lowercased key).
func (u FairnessUncertainty) Attribute(name string) (AttributeUncertainty, bool) {
	a, ok := u.Attributes[name]
	return a, ok
}
