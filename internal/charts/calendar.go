package charts

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"steamtrends/internal/aggregate"
	"steamtrends/internal/apperrors"
	"steamtrends/internal/logger"
	"steamtrends/internal/models"
)

// CalendarOptions configures a calendar plot
type CalendarOptions struct {
	// DisplayYear is the year every (month, day) bucket is drawn on
	DisplayYear int
}

// CalendarDisplay is the finished display data of a calendar plot
type CalendarDisplay struct {
	Year    int                     `json:"year"`
	Buckets []models.CalendarBucket `json:"buckets"`
	Max     int                     `json:"max"`
	Flat    bool                    `json:"flat"`
}

// CalendarPlot is a heatmap of releases per calendar day
type CalendarPlot struct {
	lifecycle
	id      string
	dataset *models.Dataset
	year    int
	display CalendarDisplay
	log     *logger.Logger
}

// NewCalendarPlot creates the calendar heatmap and runs its first cycle
func NewCalendarPlot(target string, dataset *models.Dataset, options CalendarOptions) (*CalendarPlot, error) {
	if err := requireDataset(dataset); err != nil {
		return nil, err
	}
	year := options.DisplayYear
	if year <= 0 {
		year = time.Now().Year()
	}

	c := &CalendarPlot{
		id:      MountID(target),
		dataset: dataset,
		year:    year,
		log:     chartLogger("calendar"),
	}
	if err := c.Recompute(); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the mount target id
func (c *CalendarPlot) ID() string { return c.id }

// Title returns the chart title
func (c *CalendarPlot) Title() string { return "Game Releases by Day of Year" }

// Recompute rebuilds the buckets from the dataset and renders them
func (c *CalendarPlot) Recompute() error {
	return c.cycle(c.recompute, c.render)
}

func (c *CalendarPlot) recompute() {
	buckets := aggregate.CalendarFromGames(c.dataset.Games, c.year)
	c.display = CalendarDisplay{
		Year:    c.year,
		Buckets: buckets,
		Max:     aggregate.MaxBucketValue(buckets),
	}
	c.display.Flat = c.display.Max == 0
}

func (c *CalendarPlot) render() (ChartSnippet, error) {
	return newSnippet(c.id, c.Title(), c.build()), nil
}

// build assembles the echarts heatmap on a calendar coordinate system
func (c *CalendarPlot) build() *charts.HeatMap {
	values := make([]float64, 0, len(c.display.Buckets))
	data := make([]opts.HeatMapData, 0, len(c.display.Buckets))
	for _, b := range c.display.Buckets {
		values = append(values, float64(b.Value))
		data = append(data, opts.HeatMapData{
			Value: []interface{}{b.Date.Format("2006-01-02"), b.Value},
		})
	}

	_, hi, err := Domain(values)
	if errors.Is(err, apperrors.ErrDegenerateDomain) {
		c.log.Debug("Calendar has no releases, rendering flat scale", map[string]interface{}{
			"year": c.year,
		})
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: c.id,
			Width:   "100%",
			Height:  "260px",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Formatter: opts.FuncOpts(`function (p) { return p.value[0] + ': ' + p.value[1] + ' games'; }`),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Type:       "continuous",
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(hi),
			Orient:     "horizontal",
			Left:       "center",
			Top:        "top",
			InRange:    &opts.VisualMapInRange{Color: []string{"#f7fbff", "#6baed6", "#08306b"}},
		}),
	)
	hm.AddCalendar(&opts.Calendar{
		Range:      []string{strconv.Itoa(c.year)},
		Top:        "70",
		Left:       "40",
		Right:      "20",
		CellSize:   "auto",
		Orient:     "horizontal",
		DayLabel:   &opts.CalendarLabel{Show: opts.Bool(true), FirstDay: 0},
		MonthLabel: &opts.CalendarLabel{Show: opts.Bool(true)},
		YearLabel:  &opts.CalendarLabel{Show: opts.Bool(false)},
	})
	hm.AddSeries("Releases", data, charts.WithCoordinateSystem("calendar"))
	return hm
}

// Display returns a copy of the current display data
func (c *CalendarPlot) Display() CalendarDisplay {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.display
	d.Buckets = append([]models.CalendarBucket(nil), c.display.Buckets...)
	return d
}

// DisplayData implements Chart
func (c *CalendarPlot) DisplayData() interface{} { return c.Display() }

// RenderPNG draws the calendar as a week-by-weekday grid
func (c *CalendarPlot) RenderPNG(w io.Writer) error {
	d := c.Display()

	values := make(map[string]int, len(d.Buckets))
	for _, b := range d.Buckets {
		values[b.Date.Format("01-02")] = b.Value
	}
	scaleMax := float64(d.Max)
	if scaleMax <= 0 {
		scaleMax = 1
	}

	jan1 := time.Date(d.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := int(jan1.Weekday())

	hs := heatmapSeries{}
	monthTicks := []chart.Tick{{Value: 0, Label: ""}}
	for day := jan1; day.Year() == d.Year; day = day.AddDate(0, 0, 1) {
		week := float64((day.YearDay() - 1 + offset) / 7)
		weekday := float64(day.Weekday())
		v := values[day.Format("01-02")]
		hs.Cells = append(hs.Cells, heatmapCell{
			x0: week, x1: week + 1,
			y0: 6 - weekday, y1: 7 - weekday,
			color: blues(float64(v) / scaleMax),
		})
		if day.Day() == 1 {
			monthTicks = append(monthTicks, chart.Tick{Value: week + 0.5, Label: day.Format("Jan")})
		}
	}
	monthTicks = append(monthTicks, chart.Tick{Value: 54, Label: ""})

	dayTicks := []chart.Tick{{Value: 0, Label: ""}}
	for i, name := range []string{"Sat", "Fri", "Thu", "Wed", "Tue", "Mon", "Sun"} {
		dayTicks = append(dayTicks, chart.Tick{Value: float64(i) + 0.5, Label: name})
	}
	dayTicks = append(dayTicks, chart.Tick{Value: 7, Label: ""})

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s (%d)", c.Title(), d.Year),
		TitleStyle: chart.Style{FontSize: 16, FontColor: drawing.ColorBlack},
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 50, Right: 20, Bottom: 40}},
		Width:      1200,
		Height:     300,
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 10},
			Ticks: monthTicks,
			Range: &chart.ContinuousRange{Min: 0, Max: 54},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10},
			Ticks: dayTicks,
			Range: &chart.ContinuousRange{Min: 0, Max: 7},
		},
		Series: []chart.Series{hs},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render calendar chart: %w", err)
	}
	return nil
}
