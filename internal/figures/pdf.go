package figures

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in points.
const (
	panelWidth  = 288.0 // 4in per facet
	panelHeight = 216.0 // 3in
	marginLeft  = 56.0
	marginRight = 14.0
	marginTop   = 30.0
	marginBot   = 40.0
	markerR     = 2.0
	capHalf     = 3.0
)

// fixedCreationDate keeps repeated renders byte-identical.
var fixedCreationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// PDF draws charts with gofpdf using the core Helvetica font.
type PDF struct {
	created  time.Time
	compress bool
}

// NewPDF creates a PDF renderer.
func NewPDF() *PDF {
	return &PDF{created: fixedCreationDate, compress: true}
}

// doc is a page being drawn. Core fonts are cp1252, so every label passes
// through tr before it is measured or drawn.
type doc struct {
	*gofpdf.Fpdf
	tr func(string) string
}

func (p *PDF) Available() bool { return true }

func (p *PDF) newDoc(width, height float64) *doc {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetCompression(p.compress)
	pdf.SetCreationDate(p.created)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)
	return &doc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// RenderSelection draws one facet per panel side by side, groups on the y
// axis and the rate on a fixed [0,1] x axis.
func (p *PDF) RenderSelection(w io.Writer, c SelectionChart) error {
	width := panelWidth * float64(len(c.Panels))
	pdf := p.newDoc(width, panelHeight)

	pdf.SetFont("Helvetica", "", 10)
	pdf.centerText(c.Title, width/2, 14)
	pdf.SetFont("Helvetica", "", 8)

	for i, panel := range c.Panels {
		x0 := float64(i)*panelWidth + marginLeft
		x1 := float64(i+1)*panelWidth - marginRight
		y0 := marginTop
		y1 := panelHeight - marginBot
		xOf := func(v float64) float64 { return x0 + clamp01(v)*(x1-x0) }

		pdf.centerText(panel.Title, (x0+x1)/2, y0-4)
		pdf.SetLineWidth(0.5)
		pdf.Rect(x0, y0, x1-x0, y1-y0, "D")

		for _, t := range []float64{0, 0.25, 0.5, 0.75, 1} {
			x := xOf(t)
			dotted(pdf, x, y0, x, y1)
			pdf.Line(x, y1, x, y1+3)
			pdf.centerText(fmt.Sprintf("%.2f", t), x, y1+12)
		}
		pdf.centerText(c.XLabel, (x0+x1)/2, y1+26)

		step := (y1 - y0) / float64(len(panel.Bars)+1)
		for j, b := range panel.Bars {
			y := y0 + step*float64(j+1)
			pdf.rightText(b.Label, x0-4, y+3)
			pdf.SetLineWidth(0.8)
			if b.Low != nil && b.High != nil {
				lo, hi := xOf(*b.Low), xOf(*b.High)
				pdf.Line(lo, y, hi, y)
				pdf.Line(lo, y-capHalf, lo, y+capHalf)
				pdf.Line(hi, y-capHalf, hi, y+capHalf)
			}
			pdf.SetFillColor(0, 0, 0)
			pdf.Circle(xOf(b.Value), y, markerR, "F")
		}
	}
	pdf.rotatedText("Group", 12, panelHeight/2)

	return p.output(pdf, w)
}

// RenderAIR draws one vertical error bar per attribute with the threshold
// as a dashed red line.
func (p *PDF) RenderAIR(w io.Writer, c AIRChart) error {
	pdf := p.newDoc(panelWidth, panelHeight)

	x0, x1 := marginLeft, panelWidth-marginRight
	y0, y1 := marginTop, panelHeight-marginBot
	ymax := c.YMax
	if ymax <= 0 {
		ymax = 1
	}
	yOf := func(v float64) float64 {
		if v < 0 {
			v = 0
		}
		if v > ymax {
			v = ymax
		}
		return y1 - v/ymax*(y1-y0)
	}

	pdf.SetLineWidth(0.5)
	pdf.Rect(x0, y0, x1-x0, y1-y0, "D")
	for t := 0.0; t <= ymax+1e-9; t += 0.2 {
		y := yOf(t)
		dotted(pdf, x0, y, x1, y)
		pdf.Line(x0-3, y, x0, y)
		pdf.rightText(fmt.Sprintf("%.1f", t), x0-5, y+3)
	}
	pdf.rotatedText(c.YLabel, 14, (y0+y1)/2)

	ty := yOf(c.Threshold)
	pdf.SetDrawColor(214, 39, 40)
	pdf.SetLineWidth(0.8)
	pdf.SetDashPattern([]float64{4, 2}, 0)
	pdf.Line(x0, ty, x1, ty)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.Line(x1-70, y0+10, x1-56, y0+10)
	pdf.SetDrawColor(0, 0, 0)
	pdf.text(c.ThresholdLabel, x1-52, y0+13)

	step := (x1 - x0) / float64(len(c.Bars)+1)
	for i, b := range c.Bars {
		x := x0 + step*float64(i+1)
		pdf.SetLineWidth(0.8)
		if b.Low != nil && b.High != nil {
			lo, hi := yOf(*b.Low), yOf(*b.High)
			pdf.Line(x, lo, x, hi)
			pdf.Line(x-capHalf, lo, x+capHalf, lo)
			pdf.Line(x-capHalf, hi, x+capHalf, hi)
		}
		pdf.SetFillColor(0, 0, 0)
		pdf.Circle(x, yOf(b.Value), markerR, "F")
		pdf.Line(x, y1, x, y1+3)
		pdf.centerText(b.Label, x, y1+12)
	}

	return p.output(pdf, w)
}

func (p *PDF) output(pdf *doc, w io.Writer) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("draw pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (d *doc) text(s string, x, y float64) {
	d.Text(x, y, d.tr(s))
}

func (d *doc) centerText(s string, x, y float64) {
	s = d.tr(s)
	d.Text(x-d.GetStringWidth(s)/2, y, s)
}

func (d *doc) rightText(s string, x, y float64) {
	s = d.tr(s)
	d.Text(x-d.GetStringWidth(s), y, s)
}

func (d *doc) rotatedText(s string, x, y float64) {
	d.TransformBegin()
	d.TransformRotate(90, x, y)
	d.centerText(s, x, y)
	d.TransformEnd()
}

// dotted draws a light grid line.
func dotted(pdf *doc, xa, ya, xb, yb float64) {
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.3)
	pdf.SetDashPattern([]float64{1, 2}, 0)
	pdf.Line(xa, ya, xb, yb)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
