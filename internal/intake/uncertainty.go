package intake

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"whitepaper-gen/internal/domain"
)

// LoadUncertainty reads the fairness_uncertainty object of
// metrics_uncertainty.json. A file whose fairness_uncertainty is absent or
// not an object yields ErrMalformed; an empty object is returned as an empty
// payload so callers can fall back to legacy rows.
func LoadUncertainty(fsys afero.Fs, path string) (domain.FairnessUncertainty, error) {
	root, err := readJSONObject(fsys, path)
	if err != nil {
		return domain.FairnessUncertainty{}, err
	}
	fu := root.Get("fairness_uncertainty")
	if !fu.IsObject() {
		return domain.FairnessUncertainty{}, fmt.Errorf("%w: %s: fairness_uncertainty is not an object", ErrMalformed, path)
	}

	out := domain.FairnessUncertainty{Attributes: make(map[string]domain.AttributeUncertainty)}
	fu.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		name := strings.ToLower(strings.TrimSpace(key.String()))
		if name == "" {
			return true
		}
		if _, dup := out.Attributes[name]; dup {
			return true
		}
		out.Attributes[name] = parseAttribute(name, value)
		return true
	})
	return out, nil
}

func parseAttribute(name string, v gjson.Result) domain.AttributeUncertainty {
	a := domain.AttributeUncertainty{
		Name:           name,
		ReferenceGroup: jsonString(v.Get("reference_group")),
		ProtectedGroup: jsonString(v.Get("protected_group")),
		AIR:            parseEstimate(v.Get("air")),
		SRG:            parseEstimate(v.Get("srg")),
		Observed: domain.Observed{
			MinGroupN:   jsonInt(v.Get("observed.min_group_n"), 0),
			MinGroupPct: jsonFloatOr(v.Get("observed.min_group_pct"), 0),
		},
		Display:       jsonTruthy(v.Get("display_in_main_pdf")),
		WorstCasePair: jsonString(v.Get("worst_case_pair")),
	}

	if pairs := v.Get("pairs"); pairs.IsObject() {
		a.Pairs = make(map[string]domain.PairEstimate)
		pairs.ForEach(func(k, p gjson.Result) bool {
			if p.IsObject() {
				a.Pairs[k.String()] = domain.PairEstimate{
					AIR: parseEstimate(p.Get("air")),
					SRG: parseEstimate(p.Get("srg")),
				}
			}
			return true
		})
	}

	if rates := v.Get("selection_rates"); rates.IsObject() {
		a.SelectionRates = make(map[string]domain.Estimate)
		rates.ForEach(func(k, r gjson.Result) bool {
			switch {
			case r.IsObject():
				a.SelectionRates[k.String()] = parseEstimate(r)
			case jsonFloat(r) != nil:
				a.SelectionRates[k.String()] = domain.Estimate{Point: jsonFloat(r)}
			}
			return true
		})
	}
	return a
}

// parseEstimate decodes {point, ci95: [lo, hi], p_value, p_value_adjusted}.
// Anything but an object yields an all-absent estimate.
func parseEstimate(v gjson.Result) domain.Estimate {
	if !v.IsObject() {
		return domain.Estimate{}
	}
	return domain.Estimate{
		Point:          jsonFloat(v.Get("point")),
		CI:             parseInterval(v.Get("ci95")),
		PValue:         jsonFloat(v.Get("p_value")),
		PValueAdjusted: jsonFloat(v.Get("p_value_adjusted")),
	}
}

// parseInterval decodes a two-element array; any other shape is absent.
func parseInterval(v gjson.Result) domain.Interval {
	if !v.IsArray() {
		return domain.Interval{}
	}
	bounds := v.Array()
	if len(bounds) != 2 {
		return domain.Interval{}
	}
	return domain.Interval{Low: jsonFloat(bounds[0]), High: jsonFloat(bounds[1])}
}
