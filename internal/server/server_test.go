package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamtrends/internal/charts"
	"steamtrends/internal/config"
	"steamtrends/internal/fetchers"
	"steamtrends/internal/models"
	"steamtrends/internal/reports"
	"steamtrends/internal/storage"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 'j', 'f', 'i', 'f'}

func testDataset() *models.Dataset {
	return &models.Dataset{
		Games: []models.BasicInfo{
			{AppID: "1", Name: "Alpha", ReleaseDate: "1-Nov-09"},
			{AppID: "2", Name: "Beta", ReleaseDate: "3-Mar-10"},
		},
		Genres: []models.GenreRow{
			{AppID: "1", Genres: "Action"},
			{AppID: "2", Genres: "Indie"},
		},
		Popularity: []models.Popularity{
			{AppID: "1", AveragePlaytime: 120},
			{AppID: "2", AveragePlaytime: 30},
		},
		Reviews: []models.ReviewScore{
			{AppID: "1", Positive: 150, Negative: 50},
			{AppID: "2", Positive: 90, Negative: 20},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "distribution-plot.jpg"), jpegBytes, 0o644))
	client, err := storage.NewLocalStorageClient(dir)
	require.NoError(t, err)

	ds := testDataset()
	calendar, err := charts.NewCalendarPlot("calendar-plot", ds, charts.CalendarOptions{DisplayYear: 2024})
	require.NoError(t, err)
	sentiment, err := charts.NewDivergingBarChart("diverging-bar-plot", ds, charts.SentimentParams)
	require.NoError(t, err)
	ratio, err := charts.NewDivergingBarChart("ratio-bar-plot", ds, charts.RatioParams)
	require.NoError(t, err)
	playtime, err := charts.NewPlaytimeTrendsChart("line-chart", ds)
	require.NoError(t, err)

	set := reports.ChartSet{Calendar: calendar, Sentiment: sentiment, Ratio: ratio, Playtime: playtime}
	srv, err := NewServer(&config.Config{Port: "8080", Environment: "test", DataSource: config.SourceLocal}, set, ds, NewFileManager(fetchers.NewStorageSource(client), client))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Status      string         `json:"status"`
		Environment string         `json:"environment"`
		DataSource  string         `json:"data_source"`
		Tables      map[string]int `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, config.SourceLocal, body.DataSource)
	assert.Equal(t, 2, body.Tables[models.TableBasicInfo])
	assert.Equal(t, 0, body.Tables[models.TableTags])
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	page := rr.Body.String()
	assert.Contains(t, page, "Game Releases by Day of Year")
	assert.Contains(t, page, "Review Sentiment by Game Genre")
	assert.Contains(t, page, "Positive Review Ratio by Game Genre")
	assert.Contains(t, page, "Average Playtime Trends Over Time")
	assert.Contains(t, page, `<img src="/static/img/distribution-plot.jpg"`)
	assert.Contains(t, page, "Image /static/img/bubble-plot-engagement.jpg is not available")
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(srv, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = serve(srv, httptest.NewRequest(http.MethodGet, reports.FilterEndpoint, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestGenresEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/api/genres", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Genres []string `json:"genres"`
		Count  int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []string{"All", "Action", "Indie"}, body.Genres)
	assert.Equal(t, 3, body.Count)
}

func TestChartDataEndpoint(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		key    string
		status int
		title  string
	}{
		{"calendar", http.StatusOK, "Game Releases by Day of Year"},
		{"sentiment", http.StatusOK, "Review Sentiment by Game Genre"},
		{"ratio", http.StatusOK, "Positive Review Ratio by Game Genre"},
		{"playtime", http.StatusOK, "Average Playtime Trends Over Time"},
		{"bubble", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			rr := serve(srv, httptest.NewRequest(http.MethodGet, "/api/charts/"+tt.key, nil))
			require.Equal(t, tt.status, rr.Code)

			if tt.status != http.StatusOK {
				assert.Contains(t, rr.Body.String(), "unknown chart: "+tt.key)
				return
			}
			var body struct {
				Key      string          `json:"key"`
				Title    string          `json:"title"`
				Revision int             `json:"revision"`
				Data     json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.key, body.Key)
			assert.Equal(t, tt.title, body.Title)
			assert.Equal(t, 1, body.Revision)
			assert.NotEmpty(t, body.Data)
		})
	}
}

func TestChartPNGEndpoint(t *testing.T) {
	srv := newTestServer(t)

	for _, key := range []string{"calendar", "sentiment", "ratio", "playtime"} {
		rr := serve(srv, httptest.NewRequest(http.MethodGet, "/charts/"+key+".png", nil))
		require.Equal(t, http.StatusOK, rr.Code, key)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rr.Body.String(), "\x89PNG"), key)
	}

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/charts/ratio.svg", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = serve(srv, httptest.NewRequest(http.MethodGet, "/charts/bubble.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlaytimeFilterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	type update struct {
		Revision int `json:"revision"`
		Display  struct {
			Genre  string `json:"genre"`
			Points []struct {
				Year int `json:"year"`
			} `json:"points"`
		} `json:"display"`
		Option json.RawMessage `json:"option"`
	}

	// JSON body
	req := httptest.NewRequest(http.MethodPost, reports.FilterEndpoint, strings.NewReader(`{"genre":"Action"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(srv, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got update
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Revision)
	assert.Equal(t, "Action", got.Display.Genre)
	require.Len(t, got.Display.Points, 1)
	assert.Equal(t, 2009, got.Display.Points[0].Year)
	assert.Contains(t, string(got.Option), `"series"`)

	// form body
	form := url.Values{"genre": {"Indie"}}
	req = httptest.NewRequest(http.MethodPost, reports.FilterEndpoint, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = serve(srv, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Revision)
	assert.Equal(t, "Indie", got.Display.Genre)

	// the chart state follows the last filter
	assert.Equal(t, "Indie", srv.Charts.Playtime.Display().Genre)

	// empty genre resets to All
	req = httptest.NewRequest(http.MethodPost, reports.FilterEndpoint, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr = serve(srv, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "All", got.Display.Genre)
	assert.Len(t, got.Display.Points, 2)
}

func TestPlaytimeFilterRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, reports.FilterEndpoint, strings.NewReader(`{"genre":`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(srv, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 1, srv.Charts.Playtime.Revision())
}

func TestStaticEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/static/img/distribution-plot.jpg", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.Equal(t, jpegBytes, rr.Body.Bytes())

	rr = serve(srv, httptest.NewRequest(http.MethodGet, "/static/img/bubble-plot-engagement.jpg", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(srv, httptest.NewRequest(http.MethodGet, "/static/../basic_info.csv", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetContentType(t *testing.T) {
	tests := map[string]string{
		"img/a.jpg":  "image/jpeg",
		"img/a.JPEG": "image/jpeg",
		"chart.png":  "image/png",
		"index.html": "text/html; charset=utf-8",
		"index.htm":  "text/html; charset=utf-8",
		"styles.css": "text/css",
		"data.csv":   "text/csv",
		"blob":       "application/octet-stream",
	}
	for file, want := range tests {
		assert.Equal(t, want, GetContentType(file), file)
	}
}
