// Package figures turns figure data into PDF charts.
package figures

import "io"

// Figure file names.
const (
	FileSelectionRates = "selection_rates.pdf"
	FileAIRSummary     = "air_summary.pdf"
)

// Bar is one point with an optional error bar. Low and High are nil when
// the interval is unavailable.
type Bar struct {
	Label string
	Value float64
	Low   *float64
	High  *float64
}

// Panel is one facet of a faceted chart.
type Panel struct {
	Title string
	Bars  []Bar
}

// SelectionChart is a row of facets with horizontal error bars on a [0,1] axis.
type SelectionChart struct {
	Title  string
	XLabel string
	Panels []Panel
}

// AIRChart is a single panel of vertical error bars with a dashed
// reference line.
type AIRChart struct {
	YLabel         string
	YMax           float64
	Threshold      float64
	ThresholdLabel string
	Bars           []Bar
}

// Renderer draws charts. A renderer that is not Available is never asked to
// draw.
type Renderer interface {
	Available() bool
	RenderSelection(w io.Writer, c SelectionChart) error
	RenderAIR(w io.Writer, c AIRChart) error
}

// Unavailable is a Renderer for environments without a chart backend.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) RenderSelection(io.Writer, SelectionChart) error { return ErrUnavailable }

func (Unavailable) RenderAIR(io.Writer, AIRChart) error { return ErrUnavailable }
