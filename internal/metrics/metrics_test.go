package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitepaper-gen/internal/domain"
)

func TestKindDirection(t *testing.T) {
	tests := []struct {
		kind Kind
		want Direction
	}{
		{KindAIR, DirectionFloor},
		{KindTPRGap, DirectionCeiling},
		{KindFPRGap, DirectionCeiling},
		{KindECE, DirectionCeiling},
		{KindSRG, DirectionNone},
		{KindSelectionRate, DirectionNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Direction())
		})
	}
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(" ECE ")
	assert.True(t, ok)
	assert.Equal(t, KindECE, k)

	_, ok = KindOf("accuracy")
	assert.False(t, ok)
}

func TestKindThreshold(t *testing.T) {
	thr := domain.Thresholds{AIRMin: 0.8, TPRGapMax: 0.05, FPRGapMax: 0.06, ECEMax: 0.02}

	v, ok := KindFPRGap.Threshold(thr)
	assert.True(t, ok)
	assert.Equal(t, 0.06, v)

	_, ok = KindSRG.Threshold(thr)
	assert.False(t, ok)
}

func TestTracker_AIRFloor(t *testing.T) {
	rows := []domain.MetricRow{
		{Metric: "air", Group: "gender:female", Value: ptr(0.72)},
		{Metric: "AIR", Group: "race:black", Value: ptr(0.95)},
		{Metric: "srg", Group: "gender:female", Value: ptr(-0.2)},
	}

	s := Summarize(rows, KindAIR, domain.DefaultThresholds())

	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 1, s.Violations)
	require.NotNil(t, s.Extreme)
	assert.Equal(t, 0.72, *s.Extreme)
}

func TestTracker_ECECeiling(t *testing.T) {
	tr := NewTracker(KindECE, domain.DefaultThresholds())
	tr.Observe(ptr(0.01))
	tr.Observe(ptr(0.035))
	tr.Observe(ptr(0.02))
	tr.Observe(nil)
	nan := math.NaN()
	tr.Observe(&nan)

	assert.Equal(t, 3, tr.Count())
	assert.Equal(t, 1, tr.Violations(), "0.02 equals the ceiling and is not a violation")
	require.NotNil(t, tr.Extreme())
	assert.Equal(t, 0.035, *tr.Extreme())
}

func TestTracker_Empty(t *testing.T) {
	tr := NewTracker(KindTPRGap, domain.DefaultThresholds())
	assert.Zero(t, tr.Violations())
	assert.Nil(t, tr.Extreme())
}

func TestTracker_Unbounded(t *testing.T) {
	tr := NewTracker(KindSRG, domain.DefaultThresholds())
	tr.Observe(ptr(-0.9))
	tr.Observe(ptr(0.9))
	assert.Zero(t, tr.Violations())
	assert.Equal(t, 0.9, *tr.Extreme())
}

func TestFilterRows(t *testing.T) {
	rows := []domain.MetricRow{
		{Metric: "ece", RunID: "a"},
		{Metric: "air"},
		{Metric: "ECE", RunID: "b"},
	}
	got := FilterRows(rows, KindECE)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].RunID)
	assert.Equal(t, "b", got[1].RunID)
}

func TestOrderAttributes(t *testing.T) {
	got := OrderAttributes([]string{"age", "Race", "disability", "gender", "race", "", "age"})
	assert.Equal(t, []string{"gender", "race", "age", "disability"}, got)

	assert.Equal(t, []string{"age"}, OrderAttributes([]string{"age"}))
	assert.Empty(t, OrderAttributes(nil))
}

func TestAIRCompliance(t *testing.T) {
	assert.Equal(t, CompliancePass, AIRCompliance(ptr(0.80), 0.80))
	assert.Equal(t, ComplianceFail, AIRCompliance(ptr(0.79), 0.80))
	assert.Equal(t, ComplianceUnknown, AIRCompliance(nil, 0.80))
	assert.Equal(t, "TBD", string(ComplianceUnknown))
}

func ptr(v float64) *float64 {
	return &v
}
