package figures

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"whitepaper-gen/internal/latex"
	"whitepaper-gen/internal/reporting"
)

// ErrUnavailable is returned by renderers without a drawing backend.
var ErrUnavailable = errors.New("chart renderer unavailable")

// Figure titles and axis labels.
const (
	SelectionTitle  = "Selection rates by protected attribute"
	SelectionXLabel = "Selection rate"
	AIRYLabel       = "Adverse impact ratio (AIR)"
)

// Skip records a figure that was not produced.
type Skip struct {
	Name   string
	Reason string
}

// Emitter renders figure data to PDF artifacts.
type Emitter struct {
	renderer Renderer
}

// NewEmitter creates an emitter drawing with r.
func NewEmitter(r Renderer) *Emitter {
	return &Emitter{renderer: r}
}

// Emit renders both figures. Figures without data are skipped, and an
// unavailable renderer skips everything; neither is an error.
func (e *Emitter) Emit(r *reporting.FigureReport) ([]reporting.Artifact, []Skip, error) {
	if !e.renderer.Available() {
		return nil, []Skip{
			{Name: FileSelectionRates, Reason: "renderer unavailable"},
			{Name: FileAIRSummary, Reason: "renderer unavailable"},
		}, nil
	}

	var (
		out   []reporting.Artifact
		skips []Skip
	)

	sel := SelectionChartOf(r)
	if len(sel.Panels) == 0 {
		skips = append(skips, Skip{Name: FileSelectionRates, Reason: "no selection rates"})
	} else {
		var buf bytes.Buffer
		if err := e.renderer.RenderSelection(&buf, sel); err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", FileSelectionRates, err)
		}
		out = append(out, reporting.Artifact{Name: FileSelectionRates, Kind: "figure", Content: buf.Bytes()})
	}

	air := AIRChartOf(r)
	if len(air.Bars) == 0 {
		skips = append(skips, Skip{Name: FileAIRSummary, Reason: "no AIR points"})
	} else {
		var buf bytes.Buffer
		if err := e.renderer.RenderAIR(&buf, air); err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", FileAIRSummary, err)
		}
		out = append(out, reporting.Artifact{Name: FileAIRSummary, Kind: "figure", Content: buf.Bytes()})
	}
	return out, skips, nil
}

// SelectionChartOf builds the faceted selection-rate chart. Points without a
// usable rate are dropped, and so are facets left empty.
func SelectionChartOf(r *reporting.FigureReport) SelectionChart {
	c := SelectionChart{Title: SelectionTitle, XLabel: SelectionXLabel}
	for _, f := range r.Facets {
		p := Panel{Title: capitalize(f.Attribute)}
		for _, pt := range f.Points {
			if !latex.Usable(pt.Rate) {
				continue
			}
			p.Bars = append(p.Bars, bar(pt.Group, *pt.Rate, pt.CILow, pt.CIHigh))
		}
		if len(p.Bars) > 0 {
			c.Panels = append(c.Panels, p)
		}
	}
	return c
}

// AIRChartOf builds the AIR summary chart with its threshold line.
func AIRChartOf(r *reporting.FigureReport) AIRChart {
	c := AIRChart{
		YLabel:         AIRYLabel,
		Threshold:      r.AIRMin,
		ThresholdLabel: fmt.Sprintf("Threshold %.2f", r.AIRMin),
	}
	for _, pt := range r.AIRPoints {
		if !latex.Usable(pt.AIR) {
			continue
		}
		c.Bars = append(c.Bars, bar(pt.Label, *pt.AIR, pt.CILow, pt.CIHigh))
	}
	c.YMax = AIRYMax(c.Bars)
	return c
}

// AIRYMax is the upper y bound: max(1.0, 1.05 * highest upper bound, 0.85).
// A bar without an interval contributes its value.
func AIRYMax(bars []Bar) float64 {
	tops := []float64{1.0, 0.85}
	for _, b := range bars {
		top := b.Value
		if b.High != nil {
			top = *b.High
		}
		tops = append(tops, 1.05*top)
	}
	return floats.Max(tops)
}

// bar keeps the interval only when both bounds are usable.
func bar(label string, v float64, lo, hi *float64) Bar {
	b := Bar{Label: label, Value: v}
	if latex.Usable(lo) && latex.Usable(hi) {
		b.Low, b.High = lo, hi
	}
	return b
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
