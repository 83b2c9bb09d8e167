package reporting

import (
	"strconv"
	"strings"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/latex"
)

// Artifact file names.
const (
	FileMetricsMacros    = "metrics_macros.tex"
	FileAIRSummary       = "table_air_summary.tex"
	FileSRGSummary       = "table_srg_summary.tex"
	FileECESummary       = "table_ece_summary.tex"
	FileGenderAIRSlices  = "table_gender_air_slices.tex"
	FileSelectionRates   = "table_selection_rates.tex"
	FileProvenanceMacros = "provenance_macros.tex"
	FileHparamsChosen    = "table_hparams_chosen.tex"
)

// Placeholder texts for empty tables.
const (
	NoRowsPlaceholder        = "No rows found in intake"
	NoHyperparamsPlaceholder = "No hyperparameter configuration found in intake"
)

// Table layouts.
var (
	AIRSummaryTable = latex.Table{
		Align:       "lllSSSS",
		Width:       7,
		Header:      "attribute & protected & reference & {AIR} & {LCI} & {UCI} & {p}",
		Placeholder: NoRowsPlaceholder,
	}
	SRGSummaryTable = latex.Table{
		Align:       "lllSSSS",
		Width:       7,
		Header:      "attribute & protected & reference & {SRG} & {LCI} & {UCI} & {p}",
		Placeholder: NoRowsPlaceholder,
	}
	ECESummaryTable = latex.Table{
		Align:       "lllSSS",
		Width:       6,
		Header:      "run & model & split & {ECE} & {LCI} & {UCI}",
		Placeholder: NoRowsPlaceholder,
	}
	GenderAIRSlicesTable = latex.Table{
		Align:       "lSSSSSl",
		Width:       7,
		Header:      "slice & {$n_{ref}$} & {$n_{prot}$} & {AIR} & {LCI} & {UCI} & {compliance}",
		Placeholder: NoRowsPlaceholder,
	}
	SelectionRatesTable = latex.Table{
		Align:       "llSSS",
		Width:       5,
		Header:      "attribute & group & {rate} & {LCI} & {UCI}",
		Placeholder: NoRowsPlaceholder,
	}
	HparamsChosenTable = latex.Table{
		Align:       "lrrrrrr",
		Width:       7,
		Header:      "branch & batch size & epochs & embedding dim & pac & gen. layers & disc. layers",
		Placeholder: NoHyperparamsPlaceholder,
	}
)

// Artifact is one rendered output file.
type Artifact struct {
	Name        string
	Kind        string // "macros", "table" or "figure"
	Content     []byte
	Placeholder bool // table rendered with its placeholder row
}

func tableArtifact(name string, t latex.Table, rows [][]string) (Artifact, error) {
	body, err := t.Render(rows)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: name, Kind: "table", Content: []byte(body), Placeholder: len(rows) == 0}, nil
}

// RenderMetrics renders metrics_macros.tex and the five metric tables.
func RenderMetrics(r *MetricsReport) ([]Artifact, error) {
	out := []Artifact{{
		Name:    FileMetricsMacros,
		Kind:    "macros",
		Content: []byte(renderMetricsMacros(r)),
	}}

	tables := []struct {
		name  string
		table latex.Table
		rows  [][]string
	}{
		{FileAIRSummary, AIRSummaryTable, summaryCells(r.AIRRows)},
		{FileSRGSummary, SRGSummaryTable, summaryCells(r.SRGRows)},
		{FileECESummary, ECESummaryTable, eceCells(r.ECERows)},
		{FileGenderAIRSlices, GenderAIRSlicesTable, sliceCells(r.SliceRows)},
		{FileSelectionRates, SelectionRatesTable, selectionCells(r.SelectionRows)},
	}
	for _, t := range tables {
		a, err := tableArtifact(t.name, t.table, t.rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func renderMetricsMacros(r *MetricsReport) string {
	m := latex.NewMacros("renewcommand", "Auto-generated metrics macros")
	thr := r.Thresholds

	m.Def("AIRThreshold", latex.Fixed(thr.AIRMin, 3))
	m.Def("TprGapThreshold", latex.Fixed(thr.TPRGapMax, 3))
	m.Def("FprGapThreshold", latex.Fixed(thr.FPRGapMax, 3))
	m.Def("EceThreshold", latex.Fixed(thr.ECEMax, 3))

	m.Def("MinAIR", latex.Num(r.AIR.Extreme, latex.RatioDecimals))
	m.Def("NumAIRViolations", strconv.Itoa(r.AIR.Violations))
	m.Def("MaxECE", latex.Num(r.ECE.Extreme, latex.RatioDecimals))
	m.Def("NumTPRGapViol", strconv.Itoa(r.TPRGap.Violations))
	m.Def("NumFPRGapViol", strconv.Itoa(r.FPRGap.Violations))
	m.Def("NumECEViolations", strconv.Itoa(r.ECE.Violations))

	g := r.Gender
	m.Def("GenderReferenceGroup", latex.Escape(g.ReferenceGroup))
	m.Def("GenderProtectedGroup", latex.Escape(g.ProtectedGroup))
	m.Def("GenderAIR", latex.Num(g.AIR.Point, latex.RatioDecimals))
	m.Def("GenderAIRLCI", latex.Num(g.AIR.CI.Low, latex.RatioDecimals))
	m.Def("GenderAIRUCI", latex.Num(g.AIR.CI.High, latex.RatioDecimals))
	m.Def("GenderAIRPValue", latex.Num(g.AIR.PValue, latex.PValueDecimals))
	m.Def("GenderSRG", latex.Num(g.SRG.Point, latex.RatioDecimals))
	m.Def("GenderSRGLCI", latex.Num(g.SRG.CI.Low, latex.RatioDecimals))
	m.Def("GenderSRGUCI", latex.Num(g.SRG.CI.High, latex.RatioDecimals))

	s := r.Slices
	m.Def("GenderSlicesAvailable", latex.Flag(s.Available))
	for _, sl := range []struct {
		name string
		est  domain.Estimate
	}{
		{"Historical", s.Historical},
		{"Amplification", s.Amplification},
		{"Intrinsic", s.Intrinsic},
	} {
		m.Def("GenderAIR"+sl.name, latex.Num(sl.est.Point, latex.RatioDecimals))
		m.Def("GenderAIR"+sl.name+"LCI", latex.Num(sl.est.CI.Low, latex.RatioDecimals))
		m.Def("GenderAIR"+sl.name+"UCI", latex.Num(sl.est.CI.High, latex.RatioDecimals))
	}
	m.Def("GenderAIRUpliftAbs", latex.Num(s.UpliftAbs, latex.RatioDecimals))
	m.Def("GenderAIRUpliftRelPct", latex.Percent(s.UpliftRel, 1))
	m.Def("GenderAIRFidelityAbs", latex.Num(s.FidelityAbs, latex.RatioDecimals))
	m.Def("GenderAIRFidelityRelPct", latex.Percent(s.FidelityRel, 2))

	race := r.Race
	m.Def("ShowRaceMain", latex.Flag(race.Show))
	m.Def("RaceReferenceGroup", latex.Escape(race.ReferenceGroup))
	m.Def("RaceWorstCaseGroup", latex.Escape(race.WorstCaseGroup))
	m.Def("RaceWorstAIR", latex.Num(race.WorstAIR.Point, latex.RatioDecimals))
	m.Def("RaceWorstAIRLCI", latex.Num(race.WorstAIR.CI.Low, latex.RatioDecimals))
	m.Def("RaceWorstAIRUCI", latex.Num(race.WorstAIR.CI.High, latex.RatioDecimals))
	m.Def("RaceWorstAIRPValue", latex.Num(race.WorstAIR.PValue, latex.PValueDecimals))
	m.Def("RaceWorstAIRPValueAdj", latex.Num(race.WorstAIR.PValueAdjusted, latex.PValueDecimals))
	m.Def("RaceObservedMinGroupN", strconv.Itoa(race.Observed.MinGroupN))
	m.Def("RaceObservedMinGroupPct", latex.Fixed(race.Observed.MinGroupPct, 4))

	if c := r.Certificate; c != nil {
		if c.HasThresholdUsed {
			m.Def("SqThresholdUsed", latex.Plain(c.ThresholdUsed, 3))
		}
		if c.HasThresholdMet {
			m.Def("SqThresholdMet", latex.Flag(c.ThresholdMet))
		}
		if c.HasScore {
			m.Def("SqScore", latex.Num(c.Score, latex.RatioDecimals))
		}
	}
	return m.String()
}

func summaryCells(rows []SummaryRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			latex.Escape(r.Attribute),
			latex.Escape(r.Protected),
			latex.Escape(r.Reference),
			latex.Num(r.Value, latex.RatioDecimals),
			latex.Num(r.CILow, latex.RatioDecimals),
			latex.Num(r.CIHigh, latex.RatioDecimals),
			latex.Num(r.PValue, latex.PValueDecimals),
		})
	}
	return out
}

func eceCells(rows []ECERow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			latex.Escape(r.RunID),
			latex.Escape(r.ModelID),
			latex.Escape(r.Split),
			latex.Num(r.Value, latex.RatioDecimals),
			latex.Num(r.CILow, latex.RatioDecimals),
			latex.Num(r.CIHigh, latex.RatioDecimals),
		})
	}
	return out
}

func sliceCells(rows []SliceRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			latex.Escape(r.Label),
			latex.Count(r.RefN),
			latex.Count(r.ProtN),
			latex.Num(r.AIR, latex.RatioDecimals),
			latex.Num(r.CILow, latex.RatioDecimals),
			latex.Num(r.CIHigh, latex.RatioDecimals),
			latex.Escape(string(r.Compliance)),
		})
	}
	return out
}

func selectionCells(rows []SelectionRateRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			latex.Escape(r.Attribute),
			latex.Escape(r.Group),
			latex.Num(r.Rate, latex.RatioDecimals),
			latex.Num(r.CILow, latex.RatioDecimals),
			latex.Num(r.CIHigh, latex.RatioDecimals),
		})
	}
	return out
}

// RenderProvenance renders provenance_macros.tex.
func RenderProvenance(r *ProvenanceReport) Artifact {
	m := latex.NewMacros("newcommand", "Auto-generated provenance/inference macros")
	man := r.Manifest

	m.Def("InferenceMethod", latex.Escape(man.Inference.Method))
	m.Def("InferenceReplicates", strconv.Itoa(man.Inference.Replicates))
	m.Def("InferenceAlpha", latex.Fixed(man.Inference.Alpha, 2))
	smoothing := ""
	if man.Inference.Smoothing > 0 {
		smoothing = latex.Fixed(man.Inference.Smoothing, 6)
	}
	m.Def("InferenceSmoothing", smoothing)
	m.Def("ScenarioType", latex.Escape(man.Scenario.Type))
	m.Def("ScenarioLabel", latex.Escape(man.Scenario.Label))
	m.Def("AirMin", latex.Fixed(r.Thresholds.AIRMin, 3))
	m.Def("EoGapMax", latex.Fixed(r.Thresholds.EOGapMax, 3))
	m.Def("EceMax", latex.Fixed(r.Thresholds.ECEMax, 3))
	m.Def("CodeCommit", latex.Escape(man.CodeCommit))
	m.Def("RunId", latex.Escape(man.RunID))
	m.Def("SchemaVersion", latex.Escape(man.SchemaVersion))
	m.Def("DatasetHash", latex.Escape(man.DatasetHash))
	m.Def("ConfigHash", latex.Escape(man.ConfigHash))
	m.Def("ApiImageDigest", latex.Escape(man.APIImageDigest))
	m.Def("WorkerImageDigest", latex.Escape(man.WorkerImageDigest))
	m.Def("RngSeed", latex.Escape(man.RNGSeed))
	m.Def("BootstrapSeed", latex.Escape(man.BootstrapSeed))
	m.Def("EoEnabled", latex.Flag(man.EOEnabled))
	m.Def("EceEnabled", latex.Flag(man.ECEEnabled))
	m.Def("HasDegenerateCIs", latex.Flag(r.HasDegenerateCIs))
	m.Def("EceEvaluated", latex.Flag(r.ECEEvaluated))

	return Artifact{Name: FileProvenanceMacros, Kind: "macros", Content: []byte(m.String())}
}

// RenderHyperparams renders table_hparams_chosen.tex.
func RenderHyperparams(r *HyperparamReport) (Artifact, error) {
	rows := make([][]string, 0, len(r.Branches))
	for _, b := range r.Branches {
		rows = append(rows, []string{
			latex.Escape(b.Name),
			latex.Escape(b.BatchSize),
			latex.Escape(b.Epochs),
			latex.Escape(b.EmbeddingDim),
			latex.Escape(b.PAC),
			layers(b.GeneratorDim),
			layers(b.DiscriminatorDim),
		})
	}
	return tableArtifact(FileHparamsChosen, HparamsChosenTable, rows)
}

// layers joins layer widths with "-", e.g. 256-256.
func layers(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "-")
}
