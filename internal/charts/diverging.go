package charts

import (
	"fmt"
	"html"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"steamtrends/internal/aggregate"
	"steamtrends/internal/logger"
	"steamtrends/internal/models"
)

// Params parameterizes a diverging bar chart
type Params struct {
	Title     string  `json:"title"`
	Threshold float64 `json:"threshold"`
	MinRange  float64 `json:"min_range"`
	MaxRange  float64 `json:"max_range"`
	TopN      int     `json:"top_n"`
}

var (
	// RatioParams zooms into the high-ratio band for the top 10 genres
	RatioParams = Params{Title: "Positive Review Ratio by Game Genre", Threshold: 80, MinRange: 60, MaxRange: 100, TopN: 10}
	// SentimentParams covers the full percentage scale for the top 15 genres
	SentimentParams = Params{Title: "Review Sentiment by Game Genre", Threshold: 50, MinRange: 0, MaxRange: 100, TopN: 15}
)

// DivergingBar is one genre's bar, already clamped to the chart range
type DivergingBar struct {
	Genre      string  `json:"genre"`
	Percentage float64 `json:"percentage"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Above      bool    `json:"above"`
	Label      string  `json:"label"`
}

// DivergingDisplay is the finished display data of a diverging bar chart
type DivergingDisplay struct {
	Params Params                   `json:"params"`
	Stats  []models.GenreReviewStat `json:"stats"` // ascending by positive percentage
	Bars   []DivergingBar           `json:"bars"`
}

// DivergingBarChart shows per-genre positive percentages diverging from a threshold
type DivergingBarChart struct {
	lifecycle
	id      string
	dataset *models.Dataset
	params  Params
	display DivergingDisplay
	log     *logger.Logger
}

// NewDivergingBarChart creates a diverging bar chart and runs its first cycle
func NewDivergingBarChart(target string, dataset *models.Dataset, params Params) (*DivergingBarChart, error) {
	if err := requireDataset(dataset); err != nil {
		return nil, err
	}
	if params.MaxRange <= params.MinRange {
		return nil, fmt.Errorf("invalid range [%g, %g]", params.MinRange, params.MaxRange)
	}

	c := &DivergingBarChart{
		id:      MountID(target),
		dataset: dataset,
		params:  params,
		log:     chartLogger("diverging"),
	}
	if err := c.Recompute(); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the mount target id
func (c *DivergingBarChart) ID() string { return c.id }

// Title returns the chart title
func (c *DivergingBarChart) Title() string { return c.params.Title }

// Params returns the chart parameters
func (c *DivergingBarChart) Params() Params { return c.params }

// Recompute rebuilds the genre statistics and renders them
func (c *DivergingBarChart) Recompute() error {
	return c.cycle(c.recompute, c.render)
}

func (c *DivergingBarChart) recompute() {
	stats := aggregate.GenreReviewStats(c.dataset.Genres, c.dataset.Reviews, c.params.TopN)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].PositivePercentage < stats[j].PositivePercentage
	})

	bars := make([]DivergingBar, 0, len(stats))
	for _, s := range stats {
		bars = append(bars, barFor(s, c.params))
	}
	c.display = DivergingDisplay{Params: c.params, Stats: stats, Bars: bars}
	c.log.Debug("Genre statistics recomputed", map[string]interface{}{
		"genres":    len(stats),
		"threshold": c.params.Threshold,
	})
}

// barFor clamps the percentage and the threshold into the chart range and
// spans the bar between them
func barFor(s models.GenreReviewStat, p Params) DivergingBar {
	pct := clamp(s.PositivePercentage, p.MinRange, p.MaxRange)
	th := clamp(p.Threshold, p.MinRange, p.MaxRange)
	return DivergingBar{
		Genre:      s.Genre,
		Percentage: s.PositivePercentage,
		Start:      math.Min(pct, th),
		End:        math.Max(pct, th),
		Above:      s.PositivePercentage >= p.Threshold,
		Label:      fmt.Sprintf("%.1f%% (%s games)", s.PositivePercentage, thousands(s.GameCount)),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (c *DivergingBarChart) render() (ChartSnippet, error) {
	return newSnippet(c.id, c.Title(), c.build()), nil
}

func (c *DivergingBarChart) build() *charts.Bar {
	genres := make([]string, 0, len(c.display.Bars))
	base := make([]opts.BarData, 0, len(c.display.Bars))
	spans := make([]opts.BarData, 0, len(c.display.Bars))

	for i, b := range c.display.Bars {
		s := c.display.Stats[i]
		genres = append(genres, b.Genre)

		base = append(base, opts.BarData{
			Value:     b.Start,
			ItemStyle: &opts.ItemStyle{Color: "transparent"},
			Tooltip:   &opts.Tooltip{Show: opts.Bool(false)},
		})

		color := "#d62728"
		if b.Above {
			color = "#2ca02c"
		}
		spans = append(spans, opts.BarData{
			Name:      b.Genre,
			Value:     b.End - b.Start,
			ItemStyle: &opts.ItemStyle{Color: color},
			Label: &opts.Label{
				Show:      opts.Bool(true),
				Position:  "right",
				Formatter: types.FuncStr(b.Label),
			},
			Tooltip: &opts.Tooltip{Formatter: types.FuncStr(tooltipFor(s))},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: c.id,
			Width:   "100%",
			Height:  "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title(), Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithGridOpts(opts.Grid{Left: "3%", Right: "15%", ContainLabel: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "value",
			Min:       c.params.MinRange,
			Max:       c.params.MaxRange,
			AxisLabel: &opts.AxisLabel{Formatter: "{value}%"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
	)
	bar.SetXAxis(genres).
		AddSeries("base", base,
			charts.WithBarChartOpts(opts.BarChart{Stack: "diverging"}),
		).
		AddSeries("Reviews", spans,
			charts.WithBarChartOpts(opts.BarChart{Stack: "diverging"}),
			charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  fmt.Sprintf("%g%% Threshold", c.params.Threshold),
				XAxis: c.params.Threshold,
			}),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol:    []string{"none", "none"},
				LineStyle: &opts.LineStyle{Color: "#000", Width: 2, Type: "dashed"},
				Label:     &opts.Label{Show: opts.Bool(true), Formatter: "{b}"},
			}),
		)
	bar.XYReversal()
	return bar
}

func tooltipFor(s models.GenreReviewStat) string {
	return fmt.Sprintf("<strong>Genre:</strong> %s<br/>"+
		"<strong>Positive Reviews:</strong> %s (%.1f%%)<br/>"+
		"<strong>Negative Reviews:</strong> %s (%.1f%%)<br/>"+
		"<strong>Total Reviews:</strong> %s",
		html.EscapeString(s.Genre),
		thousands(s.Positive), s.PositivePercentage,
		thousands(s.Negative), s.NegativePercentage(),
		thousands(s.Total()))
}

// Display returns a copy of the current display data
func (c *DivergingBarChart) Display() DivergingDisplay {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.display
	d.Stats = append([]models.GenreReviewStat(nil), c.display.Stats...)
	d.Bars = append([]DivergingBar(nil), c.display.Bars...)
	return d
}

// DisplayData implements Chart
func (c *DivergingBarChart) DisplayData() interface{} { return c.Display() }

// RenderPNG draws the bars with go-chart
func (c *DivergingBarChart) RenderPNG(w io.Writer) error {
	d := c.Display()
	p := d.Params
	rows := len(d.Bars)

	above := rangeBarSeries{Name: "Positive", Color: positiveColor}
	below := rangeBarSeries{Name: "Negative", Color: negativeColor}
	yTicks := []chart.Tick{{Value: -0.5, Label: ""}}
	for i, b := range d.Bars {
		rb := rangeBar{row: float64(i), from: b.Start, to: b.End, label: b.Label}
		if b.Above {
			above.Bars = append(above.Bars, rb)
		} else {
			below.Bars = append(below.Bars, rb)
		}
		yTicks = append(yTicks, chart.Tick{Value: float64(i), Label: b.Genre})
	}
	top := math.Max(float64(rows), 1) - 0.5
	yTicks = append(yTicks, chart.Tick{Value: top, Label: ""})

	var xTicks []chart.Tick
	step := 10.0
	if p.MaxRange-p.MinRange < 50 {
		step = 5
	}
	for v := p.MinRange; v <= p.MaxRange+1e-9; v += step {
		xTicks = append(xTicks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64) + "%"})
	}

	th := clamp(p.Threshold, p.MinRange, p.MaxRange)
	threshold := chart.ContinuousSeries{
		Name: fmt.Sprintf("%g%% Threshold", p.Threshold),
		Style: chart.Style{
			StrokeColor:     drawing.ColorBlack,
			StrokeWidth:     2,
			StrokeDashArray: []float64{5, 5},
		},
		XValues: []float64{th, th},
		YValues: []float64{-0.5, top},
	}

	graph := chart.Chart{
		Title:      p.Title,
		TitleStyle: chart.Style{FontSize: 16, FontColor: drawing.ColorBlack},
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 160, Right: 140, Bottom: 40}},
		Width:      1000,
		Height:     600,
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 10},
			Ticks: xTicks,
			Range: &chart.ContinuousRange{Min: p.MinRange, Max: p.MaxRange},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10},
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: top},
		},
		Series: []chart.Series{above, below, threshold},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render diverging bar chart: %w", err)
	}
	return nil
}

// thousands formats n with comma separators
func thousands(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
