package charts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/render"
)

// EChartsCDN is the script tag the page loads once for every snippet
const EChartsCDN = `<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>`

// ChartSnippet represents an embeddable go-echarts chart fragment.
// Div contains the mount element, Script the <script> block that initializes
// the chart in that div, Option the option object as JSON (functions
// inlined, page use only) and HTML the titled container for template
// substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	Option string
	HTML   string
}

// echartsChart is the part of a go-echarts chart the snippet builder uses
type echartsChart interface {
	RenderSnippet() render.ChartSnippet
	JSON() map[string]interface{}
}

// newSnippet renders c once. go-echarts runs its validation hooks only on
// the first render, so every render cycle builds a fresh chart value.
func newSnippet(id, title string, c echartsChart) ChartSnippet {
	rs := c.RenderSnippet()

	html := fmt.Sprintf(`<div class="chart-container" data-chart="%s">
	<h3>%s</h3>
	%s
</div>
%s`, id, title, rs.Element, rs.Script)

	return ChartSnippet{
		ID:     id,
		Title:  title,
		Div:    rs.Element,
		Script: rs.Script,
		Option: strings.TrimSpace(rs.Option),
		HTML:   html,
	}
}

// updateOption extracts the data-bearing parts of a rendered chart's option
// so a page can apply them with setOption without replacing formatters.
func updateOption(c echartsChart) (json.RawMessage, error) {
	full := c.JSON()
	out := make(map[string]interface{}, 4)
	for _, key := range []string{"title", "xAxis", "yAxis", "series"} {
		if v, ok := full[key]; ok {
			out[key] = v
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chart option: %w", err)
	}
	return b, nil
}
