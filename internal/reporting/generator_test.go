package reporting

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/metrics"
	"whitepaper-gen/internal/storage/memory"
)

func setupStore(t *testing.T, rows ...domain.MetricRow) *memory.MetricRowStore {
	t.Helper()
	store := memory.NewMetricRowStore()
	require.NoError(t, store.InsertBulk(context.Background(), rows))
	return store
}

func legacyRows() []domain.MetricRow {
	return []domain.MetricRow{
		{Metric: "air", Group: "race:black", Value: ptr(0.95), CILow: ptr(0.9), CIHigh: ptr(1.0), ReferenceGroup: "white"},
		{Metric: "air", Group: "gender:female", Value: ptr(0.72), CILow: ptr(0.6), CIHigh: ptr(0.84), PValue: ptr(0.01), ReferenceGroup: "male"},
		{Metric: "srg", Group: "gender:female", Value: ptr(-0.08)},
		{Metric: "ece", RunID: "run_1", ModelID: "m_1", Split: "test", Value: ptr(0.01)},
		{Metric: "ece", RunID: "run_2", ModelID: "m_1", Split: "test", Value: ptr(0.03), CIDegenerate: true},
		{Metric: "tpr_gap", Group: "gender:female", Value: ptr(0.07)},
		{Metric: "fpr_gap", Group: "gender:female", Value: ptr(0.01)},
		{Metric: "selection_rate", Group: "gender:male", Value: ptr(0.5)},
		{Metric: "selection_rate", Group: "gender:female", Value: ptr(0.36)},
		{Metric: "selection_rate", Group: "age:old", Value: ptr(0.4)},
	}
}

func payload() domain.FairnessUncertainty {
	return domain.FairnessUncertainty{Attributes: map[string]domain.AttributeUncertainty{
		"gender": {
			Name: "gender", ReferenceGroup: "male", ProtectedGroup: "female",
			AIR: domain.Estimate{Point: ptr(0.91), CI: domain.Interval{Low: ptr(0.85), High: ptr(0.97)}, PValue: ptr(0.2)},
			SRG: domain.Estimate{Point: ptr(-0.03)},
			SelectionRates: map[string]domain.Estimate{
				"male":   {Point: ptr(0.44)},
				"female": {Point: ptr(0.40)},
			},
			Display: true,
		},
		"race": {
			Name: "race", ReferenceGroup: "white", Display: true,
			WorstCasePair: "black_vs_white",
			Pairs: map[string]domain.PairEstimate{
				"black_vs_white": {AIR: domain.Estimate{Point: ptr(0.74), PValue: ptr(0.01), PValueAdjusted: ptr(0.03)}},
			},
			Observed: domain.Observed{MinGroupN: 37, MinGroupPct: 0.0412},
		},
		"age": {
			Name: "age", Display: false,
			Pairs: map[string]domain.PairEstimate{"old_vs_young": {}}, WorstCasePair: "old_vs_young",
		},
	}}
}

func TestMetrics_PayloadPreferredOverLegacy(t *testing.T) {
	g := NewGenerator(setupStore(t, legacyRows()...))

	r, err := g.Metrics(context.Background(), MetricsInput{
		Uncertainty: payload(),
		Thresholds:  domain.DefaultThresholds(),
	})
	require.NoError(t, err)

	assert.Equal(t, SourceUncertainty, r.Source)
	require.Len(t, r.AIRRows, 2, "hidden multi-valued attributes are not tabulated")
	assert.Equal(t, "gender", r.AIRRows[0].Attribute)
	assert.Equal(t, ptr(0.91), r.AIRRows[0].Value)
	assert.Equal(t, "race", r.AIRRows[1].Attribute)
	assert.Equal(t, "black_vs_white", r.AIRRows[1].Protected)
	assert.Equal(t, ptr(0.03), r.AIRRows[1].PValue, "adjusted p-value preferred")

	require.Len(t, r.SRGRows, 2)
	assert.Equal(t, ptr(0.2), r.SRGRows[0].PValue, "SRG rows carry the AIR p-value")

	for _, row := range r.AIRRows {
		assert.NotEqual(t, ptr(0.95), row.Value, "legacy AIR rows must not leak in")
	}

	assert.Equal(t, 1, r.AIR.Violations)
	assert.Equal(t, ptr(0.74), r.AIR.Extreme)

	assert.Equal(t, 1, r.ECE.Violations)
	assert.Equal(t, ptr(0.03), r.ECE.Extreme)
	assert.Len(t, r.ECERows, 2)
	assert.Equal(t, 1, r.TPRGap.Violations)
	assert.Zero(t, r.FPRGap.Violations)

	assert.True(t, r.Race.Show)
	assert.Equal(t, "black_vs_white", r.Race.WorstCaseGroup)
	assert.Equal(t, 37, r.Race.Observed.MinGroupN)

	require.Len(t, r.SelectionRows, 2)
	assert.Equal(t, "female", r.SelectionRows[0].Group)
}

func TestMetrics_LegacyFallback(t *testing.T) {
	g := NewGenerator(setupStore(t, legacyRows()...))

	r, err := g.Metrics(context.Background(), MetricsInput{Thresholds: domain.DefaultThresholds()})
	require.NoError(t, err)

	assert.Equal(t, SourceLegacy, r.Source)
	require.Len(t, r.AIRRows, 2)
	assert.Equal(t, "gender", r.AIRRows[0].Attribute, "gender sorts before race")
	assert.Equal(t, "female", r.AIRRows[0].Protected)
	assert.Equal(t, "male", r.AIRRows[0].Reference)

	assert.Equal(t, 1, r.AIR.Violations)
	require.NotNil(t, r.AIR.Extreme)
	assert.Equal(t, 0.72, *r.AIR.Extreme)

	assert.Equal(t, "female", r.Gender.ProtectedGroup)
	assert.Equal(t, ptr(-0.08), r.Gender.SRG.Point)

	require.Len(t, r.SelectionRows, 3)
	assert.Equal(t, []string{"female", "male", "old"},
		[]string{r.SelectionRows[0].Group, r.SelectionRows[1].Group, r.SelectionRows[2].Group})
}

// byMetricStore fails metric-filtered reads while serving full reads.
type byMetricStore struct {
	*memory.MetricRowStore
	queried []string
}

func (s *byMetricStore) GetByMetric(_ context.Context, metric string) ([]domain.MetricRow, error) {
	s.queried = append(s.queried, metric)
	return nil, errors.New("read failed")
}

func TestMetrics_ECERowsReadByMetric(t *testing.T) {
	store := &byMetricStore{MetricRowStore: setupStore(t, legacyRows()...)}

	_, err := NewGenerator(store).Metrics(context.Background(), MetricsInput{Thresholds: domain.DefaultThresholds()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load ece rows")
	assert.Equal(t, []string{domain.MetricECE}, store.queried)
}

func TestMetrics_ECERowsCaseInsensitive(t *testing.T) {
	g := NewGenerator(setupStore(t,
		domain.MetricRow{Metric: "ECE", RunID: "run_1", Split: "test", Value: ptr(0.05)},
		domain.MetricRow{Metric: " ece ", RunID: "run_2", Split: "test", Value: ptr(0.01)},
		domain.MetricRow{Metric: "air", Group: "gender:female", Value: ptr(0.9)},
	))

	r, err := g.Metrics(context.Background(), MetricsInput{Thresholds: domain.DefaultThresholds()})
	require.NoError(t, err)

	require.Len(t, r.ECERows, 2)
	assert.Equal(t, "run_1", r.ECERows[0].RunID)
	assert.Equal(t, 1, r.ECE.Violations)
	require.NotNil(t, r.ECE.Extreme)
	assert.Equal(t, 0.05, *r.ECE.Extreme)
}

func TestMetrics_NoInput(t *testing.T) {
	g := NewGenerator(memory.NewMetricRowStore())

	r, err := g.Metrics(context.Background(), MetricsInput{Thresholds: domain.DefaultThresholds()})
	require.NoError(t, err)

	assert.Equal(t, SourceNone, r.Source)
	assert.Empty(t, r.AIRRows)
	assert.Nil(t, r.AIR.Extreme)
	assert.Zero(t, r.AIR.Violations)
}

func TestMetrics_Slices(t *testing.T) {
	g := NewGenerator(memory.NewMetricRowStore())
	slices := &domain.FairnessSlices{
		ReferenceGroup: "men",
		ProtectedGroup: "women",
		Slices: map[string]domain.SliceComparison{
			domain.SliceHistorical: {AIR: domain.Estimate{Point: ptr(0.7)}, RefN: 100, ProtN: 80},
			domain.SliceIntrinsic:  {AIR: domain.Estimate{Point: ptr(0.93)}},
		},
		RelUpliftAIR: ptr(0.3286),
	}

	r, err := g.Metrics(context.Background(), MetricsInput{Slices: slices, Thresholds: domain.DefaultThresholds()})
	require.NoError(t, err)

	assert.True(t, r.Slices.Available)
	require.Len(t, r.SliceRows, 2)
	assert.Equal(t, "Historical", r.SliceRows[0].Label)
	assert.Equal(t, metrics.ComplianceFail, r.SliceRows[0].Compliance)
	assert.Equal(t, "Intrinsic (de-biased)", r.SliceRows[1].Label)
	assert.Equal(t, metrics.CompliancePass, r.SliceRows[1].Compliance)
	assert.Equal(t, "women", r.Gender.ProtectedGroup, "slice names fill in when the payload has none")
}

func TestMetrics_PayloadGroupNamesWinOverSlices(t *testing.T) {
	g := NewGenerator(memory.NewMetricRowStore())
	slices := &domain.FairnessSlices{ReferenceGroup: "men", ProtectedGroup: "women"}

	r, err := g.Metrics(context.Background(), MetricsInput{
		Uncertainty: payload(), Slices: slices, Thresholds: domain.DefaultThresholds(),
	})
	require.NoError(t, err)
	assert.Equal(t, "female", r.Gender.ProtectedGroup)
	assert.Equal(t, "male", r.Gender.ReferenceGroup)
}

func TestProvenance(t *testing.T) {
	g := NewGenerator(setupStore(t, legacyRows()...))
	sap := domain.Thresholds{AIRMin: 0.9, TPRGapMax: 0.04, FPRGapMax: 0.06, ECEMax: 0.03}

	t.Run("legacy uses SAP", func(t *testing.T) {
		r, err := g.Provenance(context.Background(), domain.DefaultManifest(), sap)
		require.NoError(t, err)
		assert.Equal(t, domain.ProvenanceThresholds{AIRMin: 0.9, EOGapMax: 0.04, ECEMax: 0.03}, r.Thresholds)
		assert.True(t, r.HasDegenerateCIs)
		assert.True(t, r.ECEEvaluated)
	})

	t.Run("current uses manifest", func(t *testing.T) {
		m := domain.DefaultManifest()
		m.Current = true
		m.Thresholds = &domain.ProvenanceThresholds{AIRMin: 0.85, EOGapMax: 0.1, ECEMax: 0.05}
		r, err := g.Provenance(context.Background(), m, sap)
		require.NoError(t, err)
		assert.Equal(t, 0.85, r.Thresholds.AIRMin)
	})

	t.Run("capability fallback", func(t *testing.T) {
		empty := NewGenerator(memory.NewMetricRowStore())
		m := domain.DefaultManifest()
		m.ECEEnabled = true
		r, err := empty.Provenance(context.Background(), m, sap)
		require.NoError(t, err)
		assert.True(t, r.ECEEvaluated)
		assert.False(t, r.HasDegenerateCIs)
	})
}

func TestFigures_Payload(t *testing.T) {
	g := NewGenerator(setupStore(t, legacyRows()...))

	r, err := g.Figures(context.Background(), payload(), domain.DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, SourceUncertainty, r.Source)
	require.Len(t, r.Facets, 1)
	assert.Equal(t, "gender", r.Facets[0].Attribute)
	require.Len(t, r.AIRPoints, 2)
	assert.Equal(t, "gender", r.AIRPoints[0].Label)
	assert.Equal(t, "race (black_vs_white)", r.AIRPoints[1].Label)
	assert.Equal(t, ptr(0.74), r.AIRPoints[1].AIR)
}

func TestFigures_Legacy(t *testing.T) {
	rows := append(legacyRows(), domain.MetricRow{Metric: "air", Group: "race:asian", Value: ptr(0.88)})
	g := NewGenerator(setupStore(t, rows...))

	r, err := g.Figures(context.Background(), domain.FairnessUncertainty{}, domain.DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, SourceLegacy, r.Source)
	require.Len(t, r.Facets, 2)
	assert.Equal(t, "gender", r.Facets[0].Attribute)
	assert.Equal(t, "age", r.Facets[1].Attribute)
	require.Len(t, r.AIRPoints, 3)
	assert.Equal(t, "gender", r.AIRPoints[0].Label)
	assert.Equal(t, "race (black)", r.AIRPoints[1].Label)
}

func TestRenderMetrics_ColumnCounts(t *testing.T) {
	g := NewGenerator(setupStore(t, legacyRows()...))
	r, err := g.Metrics(context.Background(), MetricsInput{Uncertainty: payload(), Thresholds: domain.DefaultThresholds()})
	require.NoError(t, err)

	artifacts, err := RenderMetrics(r)
	require.NoError(t, err)
	require.Len(t, artifacts, 6)

	widths := map[string]int{
		FileAIRSummary:      7,
		FileSRGSummary:      7,
		FileECESummary:      6,
		FileGenderAIRSlices: 7,
		FileSelectionRates:  5,
	}
	for _, a := range artifacts[1:] {
		want, ok := widths[a.Name]
		require.True(t, ok, a.Name)
		assertColumnCount(t, string(a.Content), want)
	}
	assert.True(t, artifacts[4].Placeholder, "no slices input gives a placeholder slice table")
}

func TestRenderMetricsMacros(t *testing.T) {
	g := NewGenerator(setupStore(t, legacyRows()...))
	r, err := g.Metrics(context.Background(), MetricsInput{
		Uncertainty: payload(),
		Thresholds:  domain.DefaultThresholds(),
		Certificate: &domain.QualityCertificate{HasThresholdUsed: true, ThresholdUsed: ptr(0.8), HasScore: true},
	})
	require.NoError(t, err)

	out := renderMetricsMacros(r)
	for _, want := range []string{
		"% Auto-generated metrics macros\n",
		"\\renewcommand{\\AIRThreshold}{0.800}\n",
		"\\renewcommand{\\MinAIR}{\\num{0.740}}\n",
		"\\renewcommand{\\NumAIRViolations}{1}\n",
		"\\renewcommand{\\MaxECE}{\\num{0.030}}\n",
		"\\renewcommand{\\NumTPRGapViol}{1}\n",
		"\\renewcommand{\\GenderAIRPValue}{\\num{0.200000}}\n",
		"\\renewcommand{\\GenderSRGLCI}{TBD}\n",
		"\\renewcommand{\\GenderSlicesAvailable}{0}\n",
		"\\renewcommand{\\GenderAIRUpliftRelPct}{TBD}\n",
		"\\renewcommand{\\RaceWorstCaseGroup}{black\\_vs\\_white}\n",
		"\\renewcommand{\\RaceWorstAIRPValueAdj}{\\num{0.030000}}\n",
		"\\renewcommand{\\RaceObservedMinGroupPct}{0.0412}\n",
		"\\renewcommand{\\SqThresholdUsed}{0.800}\n",
		"\\renewcommand{\\SqScore}{TBD}\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "SqThresholdMet")
}

func TestRenderProvenance(t *testing.T) {
	m := domain.DefaultManifest()
	m.Inference = domain.Inference{Method: "BCa", Replicates: 5000, Alpha: 0.05, Smoothing: 0.001}
	m.CodeCommit = "abc_123"
	m.RNGSeed = "42"

	a := RenderProvenance(&ProvenanceReport{
		Manifest:   m,
		Thresholds: domain.ProvenanceThresholds{AIRMin: 0.8, EOGapMax: 0.05, ECEMax: 0.02},
	})
	out := string(a.Content)

	assert.Equal(t, FileProvenanceMacros, a.Name)
	for _, want := range []string{
		"\\newcommand{\\InferenceMethod}{BCa}\n",
		"\\newcommand{\\InferenceReplicates}{5000}\n",
		"\\newcommand{\\InferenceAlpha}{0.05}\n",
		"\\newcommand{\\InferenceSmoothing}{0.001000}\n",
		"\\newcommand{\\ScenarioLabel}{Synthetic audit}\n",
		"\\newcommand{\\EoGapMax}{0.050}\n",
		"\\newcommand{\\CodeCommit}{abc\\_123}\n",
		"\\newcommand{\\RunId}{not\\_available}\n",
		"\\newcommand{\\RngSeed}{42}\n",
		"\\newcommand{\\BootstrapSeed}{}\n",
		"\\newcommand{\\EceEvaluated}{0}\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderHyperparams(t *testing.T) {
	a, err := RenderHyperparams(&HyperparamReport{Branches: []domain.HyperparamBranch{
		{Name: "main_branch", BatchSize: "500", Epochs: "300", EmbeddingDim: "128", PAC: "10",
			GeneratorDim: []int{256, 256}, DiscriminatorDim: []int{256, 128}},
	}})
	require.NoError(t, err)
	assert.Contains(t, string(a.Content), "main\\_branch & 500 & 300 & 128 & 10 & 256-256 & 256-128\\\\\n")
	assertColumnCount(t, string(a.Content), 7)

	empty, err := RenderHyperparams(&HyperparamReport{})
	require.NoError(t, err)
	assert.True(t, empty.Placeholder)
	assert.Contains(t, string(empty.Content), "\\multicolumn{7}{c}{\\emph{No hyperparameter configuration found in intake}}\\\\\n")
}

// assertColumnCount checks every body row between \midrule and \bottomrule.
func assertColumnCount(t *testing.T, table string, want int) {
	t.Helper()
	body := table[strings.Index(table, "\\midrule\n")+len("\\midrule\n") : strings.Index(table, "\\bottomrule")]
	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		if strings.HasPrefix(line, "\\multicolumn{") {
			assert.True(t, strings.HasPrefix(line, "\\multicolumn{"+strconv.Itoa(want)+"}"), line)
			continue
		}
		assert.Equal(t, want, strings.Count(line, " & ")+1, line)
	}
}

func ptr(v float64) *float64 {
	return &v
}
