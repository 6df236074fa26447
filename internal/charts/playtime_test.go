package charts

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamtrends/internal/models"
)

func TestPlaytimeTrendsChartAllGenres(t *testing.T) {
	c, err := NewPlaytimeTrendsChart("line-chart", sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Revision())

	d := c.Display()
	assert.Equal(t, models.AllGenres, d.Genre)
	require.Len(t, d.Points, 2)
	assert.Equal(t, models.YearlyPlaytimePoint{Year: 2009, AvgPlaytime: 1.5, Count: 2}, d.Points[0])
	assert.Equal(t, models.YearlyPlaytimePoint{Year: 2010, AvgPlaytime: 4, Count: 1}, d.Points[1])
	assert.InDelta(t, 4.4, d.YMax, 1e-9)

	assert.Equal(t, []string{"All", "Action", "Indie", "Strategy"}, c.FilterOptions())
}

func TestPlaytimeTrendsChartFilter(t *testing.T) {
	c, err := NewPlaytimeTrendsChart("", sampleDataset())
	require.NoError(t, err)

	update, err := c.Filter("Indie")
	require.NoError(t, err)
	assert.Equal(t, 2, update.Revision)
	assert.Equal(t, "Indie", update.Display.Genre)
	require.Len(t, update.Display.Points, 1)
	assert.Equal(t, 2009, update.Display.Points[0].Year)
	assert.InDelta(t, 1.0, update.Display.Points[0].AvgPlaytime, 1e-9)
	assert.Contains(t, c.Snippet().Option, "Genre: Indie")

	// empty criterion falls back to the sentinel
	update, err = c.Filter("  ")
	require.NoError(t, err)
	assert.Equal(t, models.AllGenres, update.Display.Genre)
	assert.Len(t, update.Display.Points, 2)
	assert.Equal(t, 3, c.Revision())
}

func TestPlaytimeTrendsChartUnknownGenreIsFlat(t *testing.T) {
	c, err := NewPlaytimeTrendsChart("", sampleDataset())
	require.NoError(t, err)

	update, err := c.Filter("Racing")
	require.NoError(t, err)
	assert.Empty(t, update.Display.Points)
	assert.Equal(t, 1.0, update.Display.YMax)

	var buf bytes.Buffer
	require.NoError(t, c.RenderPNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPlaytimeTrendsChartUpdateOption(t *testing.T) {
	c, err := NewPlaytimeTrendsChart("", sampleDataset())
	require.NoError(t, err)

	update, err := c.Filter("Action")
	require.NoError(t, err)
	require.True(t, json.Valid(update.Option))

	var option struct {
		Series []struct {
			Data []struct {
				Value []float64 `json:"value"`
			} `json:"data"`
		} `json:"series"`
		YAxis []struct {
			Max float64 `json:"max"`
		} `json:"yAxis"`
	}
	require.NoError(t, json.Unmarshal(update.Option, &option))
	require.Len(t, option.Series, 1)
	require.Len(t, option.Series[0].Data, 1)
	assert.Equal(t, []float64{2009, 1.5, 2}, option.Series[0].Data[0].Value)
	require.Len(t, option.YAxis, 1)
	assert.InDelta(t, 1.65, option.YAxis[0].Max, 1e-9)
}

func TestPlaytimeTrendsChartConcurrentFilters(t *testing.T) {
	c, err := NewPlaytimeTrendsChart("", sampleDataset())
	require.NoError(t, err)

	genres := c.FilterOptions()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Filter(genres[i%len(genres)])
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 21, c.Revision())
}

func TestPlaytimeTrendsChartJoinReport(t *testing.T) {
	c, err := NewPlaytimeTrendsChart("", sampleDataset())
	require.NoError(t, err)

	report := c.JoinReport()
	assert.Equal(t, 5, report.Games)
	assert.Equal(t, 1, report.MissingPopularity)
	assert.Equal(t, 1, report.MissingGenres)
	assert.Equal(t, 1, report.UnparsableDates)
}

func TestPlaytimeTrendsChartRenderPNG(t *testing.T) {
	c, err := NewPlaytimeTrendsChart("", sampleDataset())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.RenderPNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	_, err = c.Filter("Strategy")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, c.RenderPNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPlaytimeTrendsChartRecomputeIdempotent(t *testing.T) {
	c, err := NewPlaytimeTrendsChart("", sampleDataset())
	require.NoError(t, err)

	first := c.Display()
	require.NoError(t, c.Recompute())
	assert.Equal(t, 2, c.Revision())
	assert.Equal(t, first, c.Display())

	// a selected genre survives recomputation
	_, err = c.Filter("Indie")
	require.NoError(t, err)
	filtered := c.Display()
	require.NoError(t, c.Recompute())
	assert.Equal(t, 4, c.Revision())
	assert.Equal(t, filtered, c.Display())
}
