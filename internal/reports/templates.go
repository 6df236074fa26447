package reports

import (
	"embed"
	"fmt"
)

//go:embed templates/page.html templates/styles.css
var templateFS embed.FS

// TemplateLoader handles loading HTML templates and CSS styles
type TemplateLoader struct {
	fs embed.FS
}

// NewTemplateLoader creates a new template loader over the embedded templates
func NewTemplateLoader() *TemplateLoader {
	return &TemplateLoader{fs: templateFS}
}

// LoadHTMLTemplate loads the page template
func (t *TemplateLoader) LoadHTMLTemplate() (string, error) {
	return t.load("templates/page.html")
}

// LoadCSSStyles loads the page stylesheet
func (t *TemplateLoader) LoadCSSStyles() (string, error) {
	return t.load("templates/styles.css")
}

func (t *TemplateLoader) load(name string) (string, error) {
	content, err := t.fs.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return string(content), nil
}
