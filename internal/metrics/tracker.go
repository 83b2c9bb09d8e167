package metrics

import (
	"github.com/montanaflynn/stats"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/latex"
)

// Tracker accumulates the violation count and the extreme value of one
// metric kind: the minimum for floors, the maximum otherwise.
type Tracker struct {
	kind      Kind
	threshold float64
	bounded   bool

	values     stats.Float64Data
	violations int
}

// NewTracker returns a tracker for kind using its threshold from t.
func NewTracker(kind Kind, t domain.Thresholds) *Tracker {
	thr, ok := kind.Threshold(t)
	return &Tracker{kind: kind, threshold: thr, bounded: ok}
}

// Observe records a value. Absent or non-finite values are ignored.
func (t *Tracker) Observe(v *float64) {
	if !latex.Usable(v) {
		return
	}
	t.values = append(t.values, *v)
	if t.bounded && t.kind.Violates(*v, t.threshold) {
		t.violations++
	}
}

// ObserveRows records the value of every row of the tracker's kind.
func (t *Tracker) ObserveRows(rows []domain.MetricRow) {
	for _, r := range rows {
		if Kind(r.Key()) == t.kind {
			t.Observe(r.Value)
		}
	}
}

// Count returns the number of values observed.
func (t *Tracker) Count() int {
	return len(t.values)
}

// Violations returns the number of observed values breaching the threshold.
func (t *Tracker) Violations() int {
	return t.violations
}

// Extreme returns the worst observed value, or nil when nothing was observed.
func (t *Tracker) Extreme() *float64 {
	var (
		v   float64
		err error
	)
	if t.kind.Direction() == DirectionFloor {
		v, err = stats.Min(t.values)
	} else {
		v, err = stats.Max(t.values)
	}
	if err != nil {
		return nil
	}
	return &v
}

// Summary is a snapshot of a tracker.
type Summary struct {
	Kind       Kind
	Count      int
	Violations int
	Extreme    *float64
}

// Summary returns the tracker's current state.
func (t *Tracker) Summary() Summary {
	return Summary{
		Kind:       t.kind,
		Count:      t.Count(),
		Violations: t.violations,
		Extreme:    t.Extreme(),
	}
}

// Summarize tracks kind over rows.
func Summarize(rows []domain.MetricRow, kind Kind, t domain.Thresholds) Summary {
	tr := NewTracker(kind, t)
	tr.ObserveRows(rows)
	return tr.Summary()
}

// FilterRows returns the rows of the given kind, in input order.
func FilterRows(rows []domain.MetricRow, kind Kind) []domain.MetricRow {
	var out []domain.MetricRow
	for _, r := range rows {
		if Kind(r.Key()) == kind {
			out = append(out, r)
		}
	}
	return out
}
