package charts

import (
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	positiveColor = drawing.ColorFromHex("2ca02c")
	negativeColor = drawing.ColorFromHex("d62728")
	lineColor     = drawing.ColorFromHex("4682b4")
	gridColor     = drawing.Color{R: 220, G: 220, B: 220, A: 255}
)

// heatmapCell represents one matrix cell
type heatmapCell struct {
	x0, x1 float64
	y0, y1 float64
	color  drawing.Color
}

// heatmapSeries renders a grid of filled rectangles
type heatmapSeries struct {
	Cells []heatmapCell
}

func (hs heatmapSeries) GetName() string           { return "heatmap" }
func (hs heatmapSeries) GetStyle() chart.Style     { return chart.Style{} }
func (hs heatmapSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (hs heatmapSeries) Len() int                  { return len(hs.Cells) }
func (hs heatmapSeries) Validate() error           { return nil }
func (hs heatmapSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	for _, c := range hs.Cells {
		x0, x1, y0, y1 := project(canvasBox, xrange, yrange, c.x0, c.x1, c.y0, c.y1)
		// 1px gutter so neighbouring days stay distinguishable
		if x1-x0 > 2 {
			x1--
		}
		if y1-y0 > 2 {
			y1--
		}
		fillRect(r, x0, y0, x1, y1, c.color)
	}
}

// rangeBar is one horizontal bar spanning [from, to] on the value axis at row
type rangeBar struct {
	row      float64
	from, to float64
	label    string
}

// rangeBarSeries draws horizontal bars that start at an arbitrary baseline
type rangeBarSeries struct {
	Name  string
	Color drawing.Color
	Bars  []rangeBar
}

func (rs rangeBarSeries) GetName() string { return rs.Name }
func (rs rangeBarSeries) GetStyle() chart.Style {
	return chart.Style{FillColor: rs.Color, StrokeColor: rs.Color, StrokeWidth: 1}
}
func (rs rangeBarSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (rs rangeBarSeries) Len() int                  { return len(rs.Bars) }
func (rs rangeBarSeries) Validate() error           { return nil }
func (rs rangeBarSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	defaults.GetTextOptions().WriteTextOptionsToRenderer(r)
	r.SetFontSize(9)
	r.SetFontColor(drawing.ColorBlack)

	for _, b := range rs.Bars {
		x0, x1, y0, y1 := project(canvasBox, xrange, yrange, b.from, b.to, b.row-0.35, b.row+0.35)
		if x1 > x0 {
			fillRect(r, x0, y0, x1, y1, rs.Color)
		}
		if b.label != "" {
			r.Text(b.label, canvasBox.Right+6, (y0+y1)/2+3)
		}
	}
}

// blankSeries draws nothing; it keeps go-chart happy when there is no data
type blankSeries struct{}

func (blankSeries) GetName() string           { return "" }
func (blankSeries) GetStyle() chart.Style     { return chart.Style{} }
func (blankSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (blankSeries) Validate() error           { return nil }
func (blankSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
}

func project(canvasBox chart.Box, xrange, yrange chart.Range, vx0, vx1, vy0, vy1 float64) (x0, x1, y0, y1 int) {
	x0 = canvasBox.Left + xrange.Translate(vx0)
	x1 = canvasBox.Left + xrange.Translate(vx1)
	y0 = canvasBox.Bottom - yrange.Translate(vy0)
	y1 = canvasBox.Bottom - yrange.Translate(vy1)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return x0, x1, y0, y1
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, color drawing.Color) {
	r.SetFillColor(color)
	r.SetStrokeColor(color)
	r.SetStrokeWidth(0)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}

// blues maps t in [0,1] onto a white-to-navy ramp
func blues(t float64) drawing.Color {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lo := drawing.Color{R: 247, G: 251, B: 255, A: 255}
	hi := drawing.Color{R: 8, G: 48, B: 107, A: 255}
	mix := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5) }
	return drawing.Color{R: mix(lo.R, hi.R), G: mix(lo.G, hi.G), B: mix(lo.B, hi.B), A: 255}
}
