package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"steamtrends/internal/apperrors"
	"steamtrends/internal/config"
	"steamtrends/internal/reports"
)

// HandleRoot serves the composed page with every chart section
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	available := s.Files.Available(r.Context(), reports.StaticImages)

	page, err := s.Builder.BuildPage(reports.StandardPage(s.Charts, available))
	if err != nil {
		s.log.Error("Failed to build page", err)
		http.Error(w, "Failed to build page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.GetVersion(),
		"tables":    s.Dataset.RowCounts(),
	}
	if s.Config != nil {
		health["environment"] = s.Config.Environment
		health["data_source"] = s.Config.DataSource
	}
	if s.Dataset != nil && !s.Dataset.LoadedAt.IsZero() {
		health["loaded_at"] = s.Dataset.LoadedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleGenres lists the playtime filter options
func (s *Server) HandleGenres(w http.ResponseWriter, r *http.Request) {
	var genres []string
	if s.Charts.Playtime != nil {
		genres = s.Charts.Playtime.FilterOptions()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"genres": genres,
		"count":  len(genres),
	})
}

// chartResponse is the JSON view of one chart's current state
type chartResponse struct {
	ID       string      `json:"id"`
	Key      string      `json:"key"`
	Title    string      `json:"title"`
	Revision int         `json:"revision"`
	Data     interface{} `json:"data"`
}

// HandleChartData returns the display data of a chart by key
func (s *Server) HandleChartData(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")
	c, ok := s.Charts.ByKey(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", apperrors.ErrUnknownChart, key))
		return
	}

	writeJSON(w, http.StatusOK, chartResponse{
		ID:       c.ID(),
		Key:      key,
		Title:    c.Title(),
		Revision: c.Revision(),
		Data:     c.DisplayData(),
	})
}

// HandleChartPNG renders a static PNG export, e.g. /charts/calendar.png
func (s *Server) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	key, ok := strings.CutSuffix(file, ".png")
	c, found := s.Charts.ByKey(key)
	if !ok || !found {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := c.RenderPNG(&buf); err != nil {
		s.log.Error("Failed to render chart PNG", err, map[string]interface{}{"chart": key})
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// filterRequest is the JSON body accepted by the filter endpoint
type filterRequest struct {
	Genre string `json:"genre"`
}

// HandlePlaytimeFilter applies a genre filter to the playtime chart and
// returns the new echarts option for setOption
func (s *Server) HandlePlaytimeFilter(w http.ResponseWriter, r *http.Request) {
	if s.Charts.Playtime == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", apperrors.ErrUnknownChart, reports.ChartPlaytime))
		return
	}

	genre, err := readGenre(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	update, err := s.Charts.Playtime.Filter(genre)
	if err != nil {
		s.log.Error("Playtime filter failed", err, map[string]interface{}{"genre": genre})
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// readGenre reads the genre from a JSON body or form values
func readGenre(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req filterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", fmt.Errorf("invalid filter request: %w", err)
		}
		return req.Genre, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("invalid filter form: %w", err)
	}
	return r.FormValue("genre"), nil
}

// HandleStatic serves images from the data source, e.g. /static/img/distribution-plot.jpg
func (s *Server) HandleStatic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" || strings.Contains(name, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := s.Files.Get(r.Context(), name)
	if err != nil {
		status := statusFor(err)
		if status != http.StatusNotFound {
			s.log.Error("Failed to get static file", err, map[string]interface{}{"file": name})
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", GetContentType(name))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
