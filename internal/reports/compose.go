package reports

import (
	"path"
	"strings"

	"steamtrends/internal/charts"
)

// Chart keys used in page links and API routes
const (
	ChartCalendar  = "calendar"
	ChartSentiment = "sentiment"
	ChartRatio     = "ratio"
	ChartPlaytime  = "playtime"
)

// FilterEndpoint receives genre selections from the page
const FilterEndpoint = "/api/playtime/filter"

// StaticImages are the image sections, relative to the data source root
var StaticImages = []string{
	"img/bubble-plot-engagement.jpg",
	"img/distribution-plot.jpg",
}

// ChartSet groups the chart instances shown on the page
type ChartSet struct {
	Calendar  charts.Chart
	Sentiment charts.Chart
	Ratio     charts.Chart
	Playtime  *charts.PlaytimeTrendsChart
}

// ByKey returns the chart registered under key
func (s ChartSet) ByKey(key string) (charts.Chart, bool) {
	var c charts.Chart
	switch key {
	case ChartCalendar:
		c = s.Calendar
	case ChartSentiment:
		c = s.Sentiment
	case ChartRatio:
		c = s.Ratio
	case ChartPlaytime:
		if s.Playtime != nil {
			c = s.Playtime
		}
	}
	return c, c != nil
}

// PNGPath is the static export link for a chart key
func PNGPath(key string) string {
	return "/charts/" + key + ".png"
}

// StaticPath is the served path of a data source image
func StaticPath(name string) string {
	return "/static/" + strings.TrimPrefix(name, "/")
}

const (
	introMarkdown = `Exploring release timing, review sentiment and player engagement across
the Steam catalog. Scroll, or use the dots on the right, to move between
sections.`

	calendarMarkdown = `Each cell is a day of the year; darker cells saw more game releases,
summed over every release year in the catalog.`

	sentimentMarkdown = `Share of positive reviews per genre for the most reviewed genres.
Bars extend from the **50%** line: green genres lean positive, red genres
lean negative. Genres with fewer than 100 reviews are left out.`

	ratioMarkdown = `The same review data zoomed to the **60-100%** range around an **80%**
threshold, for the ten most reviewed genres.`

	playtimeMarkdown = `Average playtime forever, in hours, of games released each year. Pick a
genre to narrow the trend.`

	imagesMarkdown = `Additional static analyses prepared from the same dataset.`

	closingMarkdown = `Data: Steam game catalog (basic info, genres, popularity, review scores).`
)

// StandardPage lays out the title section, one section per chart, the
// image sections and a closing section. available reports which of
// StaticImages the data source holds.
func StandardPage(set ChartSet, available map[string]bool) Page {
	page := Page{Title: "Steam Game Trends"}
	page.Sections = append(page.Sections, Section{
		Anchor:   "intro",
		Title:    "Steam Game Trends",
		Class:    "title-section",
		Markdown: introMarkdown,
	})

	add := func(key, anchor, markdown string, c charts.Chart) {
		if c == nil {
			return
		}
		snippet := c.Snippet()
		page.Sections = append(page.Sections, Section{
			Anchor:   anchor,
			Title:    c.Title(),
			Markdown: markdown,
			Chart:    &snippet,
			PNG:      PNGPath(key),
		})
	}
	add(ChartCalendar, "release-calendar", calendarMarkdown, set.Calendar)
	add(ChartSentiment, "review-sentiment", sentimentMarkdown, set.Sentiment)
	add(ChartRatio, "positive-ratio", ratioMarkdown, set.Ratio)

	if set.Playtime != nil {
		add(ChartPlaytime, "playtime-trends", playtimeMarkdown, set.Playtime)
		page.Sections[len(page.Sections)-1].Filter = &Filter{
			ChartID:  set.Playtime.ID(),
			Label:    "Genre",
			Endpoint: FilterEndpoint,
			Options:  set.Playtime.FilterOptions(),
			Selected: set.Playtime.Display().Genre,
		}
	}

	for i, name := range StaticImages {
		title := imageTitle(name)
		s := Section{
			Anchor: Slugify(title),
			Title:  title,
			Class:  "image-section",
			Image: &Image{
				Src:       StaticPath(name),
				Alt:       title,
				Width:     500,
				Height:    500,
				Available: available[name],
			},
		}
		if i == 0 {
			s.Markdown = imagesMarkdown
		}
		page.Sections = append(page.Sections, s)
	}

	page.Sections = append(page.Sections, Section{
		Anchor:   "about",
		Title:    "About the Data",
		Markdown: closingMarkdown,
	})
	return page
}

// imageTitle derives a section title from an image file name
func imageTitle(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	return ToTitleCase(strings.NewReplacer("-", " ", "_", " ").Replace(base))
}
