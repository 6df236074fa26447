package charts

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"steamtrends/internal/apperrors"
	"steamtrends/internal/logger"
	"steamtrends/internal/models"
)

// Chart is what the page and the HTTP layer need from every chart
type Chart interface {
	ID() string
	Title() string
	Revision() int
	Snippet() ChartSnippet
	DisplayData() interface{}
	RenderPNG(w io.Writer) error
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// MountID returns a DOM id that is also a valid JavaScript identifier,
// since the echarts init script declares variables named after it.
// An empty target gets a generated id.
func MountID(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return "chart_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	id := nonIdent.ReplaceAllString(target, "_")
	if id[0] >= '0' && id[0] <= '9' {
		id = "chart_" + id
	}
	return id
}

// lifecycle serializes recompute+render cycles of one chart and counts
// completed cycles. A chart is never rendered without a preceding recompute.
type lifecycle struct {
	mu       sync.Mutex
	revision int
	snippet  ChartSnippet
}

func (l *lifecycle) cycle(recompute func(), render func() (ChartSnippet, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cycleLocked(recompute, render)
}

// cycleLocked runs one cycle; the caller holds mu
func (l *lifecycle) cycleLocked(recompute func(), render func() (ChartSnippet, error)) error {
	recompute()
	snippet, err := render()
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	l.snippet = snippet
	l.revision++
	return nil
}

// Revision returns the number of completed recompute+render cycles
func (l *lifecycle) Revision() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

// Snippet returns the latest rendered snippet
func (l *lifecycle) Snippet() ChartSnippet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snippet
}

// Domain returns [0, max(values)]. Empty or all-zero input yields [0, 1]
// together with ErrDegenerateDomain so callers can render a flat scale.
func Domain(values []float64) (float64, float64, error) {
	hi := 0.0
	for _, v := range values {
		if v > hi {
			hi = v
		}
	}
	if hi <= 0 {
		return 0, 1, apperrors.ErrDegenerateDomain
	}
	return 0, hi, nil
}

func requireDataset(ds *models.Dataset) error {
	if ds == nil {
		return fmt.Errorf("chart requires a loaded dataset")
	}
	return nil
}

func chartLogger(kind string) *logger.Logger {
	return logger.GetGlobalLogger().WithComponent("charts." + kind)
}
