package charts

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"steamtrends/internal/aggregate"
	"steamtrends/internal/logger"
	"steamtrends/internal/models"
)

// headroom leaves space above the highest point
const headroom = 1.1

// PlaytimeDisplay is the finished display data of the playtime line chart
type PlaytimeDisplay struct {
	Genre  string                       `json:"genre"`
	Points []models.YearlyPlaytimePoint `json:"points"`
	YMax   float64                      `json:"y_max"`
}

// PlaytimeUpdate is the outcome of one filter cycle
type PlaytimeUpdate struct {
	Revision int             `json:"revision"`
	Display  PlaytimeDisplay `json:"display"`
	Option   json.RawMessage `json:"option"`
}

// PlaytimeTrendsChart plots average playtime per release year, filterable by genre
type PlaytimeTrendsChart struct {
	lifecycle
	id      string
	games   []models.GameRecord
	report  aggregate.JoinReport
	options []string
	genre   string
	display PlaytimeDisplay
	option  json.RawMessage
	log     *logger.Logger
}

// NewPlaytimeTrendsChart joins the dataset into game records and runs the
// first cycle with no genre filter
func NewPlaytimeTrendsChart(target string, dataset *models.Dataset) (*PlaytimeTrendsChart, error) {
	if err := requireDataset(dataset); err != nil {
		return nil, err
	}

	games, report := aggregate.JoinGames(dataset.Games, dataset.Popularity, dataset.Genres)
	c := &PlaytimeTrendsChart{
		id:      MountID(target),
		games:   games,
		report:  report,
		options: aggregate.FilterOptions(games),
		genre:   models.AllGenres,
		log:     chartLogger("playtime"),
	}
	if err := c.Recompute(); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the mount target id
func (c *PlaytimeTrendsChart) ID() string { return c.id }

// Title returns the chart title
func (c *PlaytimeTrendsChart) Title() string { return "Average Playtime Trends Over Time" }

// JoinReport describes join misses found while building game records
func (c *PlaytimeTrendsChart) JoinReport() aggregate.JoinReport { return c.report }

// FilterOptions returns "All" followed by every distinct genre
func (c *PlaytimeTrendsChart) FilterOptions() []string {
	return append([]string(nil), c.options...)
}

// Recompute re-aggregates with the active genre and renders
func (c *PlaytimeTrendsChart) Recompute() error {
	return c.cycle(c.recompute, c.render)
}

// Filter replaces the active genre and runs a full cycle. An empty
// criterion or "All" removes the filter.
func (c *PlaytimeTrendsChart) Filter(criterion string) (PlaytimeUpdate, error) {
	genre := strings.TrimSpace(criterion)
	if genre == "" {
		genre = models.AllGenres
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.cycleLocked(func() {
		c.genre = genre
		c.recompute()
	}, c.render)
	if err != nil {
		return PlaytimeUpdate{}, err
	}

	c.log.Debug("Playtime filter applied", map[string]interface{}{
		"genre":    genre,
		"points":   len(c.display.Points),
		"revision": c.revision,
	})
	return PlaytimeUpdate{
		Revision: c.revision,
		Display:  c.copyDisplay(),
		Option:   append(json.RawMessage(nil), c.option...),
	}, nil
}

func (c *PlaytimeTrendsChart) recompute() {
	points := aggregate.YearlyPlaytime(c.games, c.genre)

	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.AvgPlaytime)
	}
	yMax := 1.0
	if _, hi, err := Domain(values); err == nil {
		yMax = hi * headroom
	}
	c.display = PlaytimeDisplay{Genre: c.genre, Points: points, YMax: yMax}
}

func (c *PlaytimeTrendsChart) render() (ChartSnippet, error) {
	line := c.build()
	snippet := newSnippet(c.id, c.Title(), line)
	option, err := updateOption(line)
	if err != nil {
		return ChartSnippet{}, err
	}
	c.option = option
	return snippet, nil
}

func (c *PlaytimeTrendsChart) build() *charts.Line {
	data := make([]opts.LineData, 0, len(c.display.Points))
	for _, p := range c.display.Points {
		data = append(data, opts.LineData{Value: []interface{}{p.Year, p.AvgPlaytime, p.Count}})
	}

	subtitle := ""
	if c.display.Genre != models.AllGenres {
		subtitle = "Genre: " + c.display.Genre
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: c.id,
			Width:   "100%",
			Height:  "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title(), Subtitle: subtitle, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (p) {
				return '<strong>Year:</strong> ' + p.value[0] +
					'<br/><strong>Average Playtime:</strong> ' + p.value[1].toFixed(1) + ' hours' +
					'<br/><strong>Games:</strong> ' + p.value[2];
			}`),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:         "value",
			Name:         "Release Year",
			NameLocation: "middle",
			NameGap:      30,
			Min:          "dataMin",
			Max:          "dataMax",
			AxisLabel:    &opts.AxisLabel{Formatter: "{value}"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:         "value",
			Name:         "Average Playtime (hours)",
			NameLocation: "middle",
			NameGap:      50,
			Min:          0,
			Max:          c.display.YMax,
			AxisLabel:    &opts.AxisLabel{Formatter: "{value}h"},
		}),
	)
	line.AddSeries("Average Playtime", data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), SymbolSize: 10}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: "#4682b4", Width: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#4682b4"}),
	)
	return line
}

func (c *PlaytimeTrendsChart) copyDisplay() PlaytimeDisplay {
	d := c.display
	d.Points = append([]models.YearlyPlaytimePoint(nil), c.display.Points...)
	return d
}

// Display returns a copy of the current display data
func (c *PlaytimeTrendsChart) Display() PlaytimeDisplay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyDisplay()
}

// DisplayData implements Chart
func (c *PlaytimeTrendsChart) DisplayData() interface{} { return c.Display() }

// RenderPNG draws the trend line with go-chart
func (c *PlaytimeTrendsChart) RenderPNG(w io.Writer) error {
	d := c.Display()

	xRange := &chart.ContinuousRange{Min: 0, Max: 1}
	var series chart.Series = blankSeries{}
	if n := len(d.Points); n > 0 {
		xs := make([]float64, 0, n)
		ys := make([]float64, 0, n)
		for _, p := range d.Points {
			xs = append(xs, float64(p.Year))
			ys = append(ys, p.AvgPlaytime)
		}
		xRange = &chart.ContinuousRange{Min: xs[0], Max: xs[n-1]}
		if n == 1 {
			xRange = &chart.ContinuousRange{Min: xs[0] - 1, Max: xs[0] + 1}
		}
		series = chart.ContinuousSeries{
			Name: "Average Playtime",
			Style: chart.Style{
				StrokeColor: lineColor,
				StrokeWidth: 2,
				DotColor:    lineColor,
				DotWidth:    4,
			},
			XValues: xs,
			YValues: ys,
		}
	}

	title := c.Title()
	if d.Genre != models.AllGenres {
		title += " (" + d.Genre + ")"
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 16, FontColor: drawing.ColorBlack},
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 70, Right: 20, Bottom: 50}},
		Width:      900,
		Height:     450,
		XAxis: chart.XAxis{
			Name:      "Release Year",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
			Range:     xRange,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:      "Average Playtime (hours)",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
			Range:     &chart.ContinuousRange{Min: 0, Max: d.YMax},
			GridMajorStyle: chart.Style{
				StrokeColor: gridColor,
				StrokeWidth: 1,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.FormatFloat(f, 'f', 0, 64) + "h"
				}
				return ""
			},
		},
		Series: []chart.Series{series},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render playtime chart: %w", err)
	}
	return nil
}
