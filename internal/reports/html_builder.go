package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"steamtrends/internal/charts"
	"steamtrends/internal/config"
	"steamtrends/internal/logger"
)

// Page is the input for one composed page
type Page struct {
	Title    string
	Sections []Section
}

// Section is one full-height section of the page. At most one of Chart
// and Image is set.
type Section struct {
	Anchor   string
	Title    string
	Class    string
	Markdown string
	Chart    *charts.ChartSnippet
	PNG      string
	Filter   *Filter
	Image    *Image
}

// Filter is a select control bound to an interactive chart
type Filter struct {
	ChartID  string
	Label    string
	Endpoint string
	Options  []string
	Selected string
}

// Image is a static image section
type Image struct {
	Src       string
	Alt       string
	Width     int
	Height    int
	Available bool
}

// TemplateData represents the data structure for the HTML template
type TemplateData struct {
	Title         string
	GeneratedAt   string
	Version       string
	CSS           template.CSS
	EChartsScript template.HTML
	Sections      []sectionView
}

type sectionView struct {
	Anchor    string
	Title     string
	Class     string
	Narrative template.HTML
	Chart     template.HTML
	PNG       string
	Filter    *Filter
	Image     *Image
}

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	goldmark goldmark.Markdown
	tmpl     *template.Template
	css      string
	now      func() time.Time
	log      *logger.Logger
}

// NewHTMLBuilder creates an HTML builder and parses the page template
func NewHTMLBuilder() (*HTMLBuilder, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	loader := NewTemplateLoader()
	page, err := loader.LoadHTMLTemplate()
	if err != nil {
		return nil, err
	}
	css, err := loader.LoadCSSStyles()
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("page").Parse(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	return &HTMLBuilder{
		goldmark: md,
		tmpl:     tmpl,
		css:      css,
		now:      time.Now,
		log:      logger.GetGlobalLogger().WithComponent("reports"),
	}, nil
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildPage renders the complete HTML document for page
func (h *HTMLBuilder) BuildPage(page Page) (string, error) {
	data := TemplateData{
		Title:         page.Title,
		GeneratedAt:   h.now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:       config.GetVersion(),
		CSS:           template.CSS(h.css),
		EChartsScript: template.HTML(charts.EChartsCDN),
		Sections:      make([]sectionView, 0, len(page.Sections)),
	}

	for _, s := range page.Sections {
		view := sectionView{
			Anchor: s.Anchor,
			Title:  s.Title,
			Class:  s.Class,
			PNG:    s.PNG,
			Filter: s.Filter,
			Image:  s.Image,
		}
		if view.Anchor == "" {
			view.Anchor = Slugify(s.Title)
		}
		if s.Markdown != "" {
			narrative, err := h.ConvertMarkdownToHTML(s.Markdown)
			if err != nil {
				return "", fmt.Errorf("section %s: %w", view.Anchor, err)
			}
			view.Narrative = template.HTML(narrative)
		}
		if s.Chart != nil {
			view.Chart = template.HTML(s.Chart.HTML)
		}
		data.Sections = append(data.Sections, view)
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	h.log.Debug("Page built", map[string]interface{}{
		"sections": len(data.Sections),
		"bytes":    buf.Len(),
	})
	return buf.String(), nil
}
