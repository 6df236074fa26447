package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamtrends/internal/config"
	"steamtrends/internal/fetchers"
	"steamtrends/internal/logger"
	"steamtrends/internal/models"
	"steamtrends/internal/server"
	"steamtrends/internal/storage"
)

func TestNewSource(t *testing.T) {
	ctx := context.Background()

	t.Run("http", func(t *testing.T) {
		source, closer, err := newSource(ctx, &config.Config{
			DataSource:  config.SourceHTTP,
			DataBaseURL: "https://example.com/data/",
		})
		require.NoError(t, err)
		assert.Nil(t, closer)
		assert.IsType(t, &fetchers.HTTPSource{}, source)
		assert.Equal(t, "https://example.com/data", source.Describe())
	})

	t.Run("local", func(t *testing.T) {
		dir := t.TempDir()
		source, closer, err := newSource(ctx, &config.Config{
			DataSource: config.SourceLocal,
			DataDir:    dir,
		})
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer.Close()
		assert.IsType(t, &fetchers.StorageSource{}, source)
		assert.Equal(t, dir, source.Describe())
	})

	t.Run("local directory missing", func(t *testing.T) {
		_, _, err := newSource(ctx, &config.Config{
			DataSource: config.SourceLocal,
			DataDir:    filepath.Join(t.TempDir(), "absent"),
		})
		assert.Error(t, err)
	})
}

func TestBuildChartsFromLocalData(t *testing.T) {
	dir := t.TempDir()
	tables := map[string]string{
		models.TableBasicInfo:  "AppID,Name,Release date,Developers,Publishers\n1,Alpha,1-Nov-09,Dev,Pub\n2,Beta,3-Mar-10,Dev,Pub\n",
		models.TableCategories: "AppID,Categories\n1,Single-player\n",
		models.TableGenres:     "AppID,Genres\n1,Action\n2,Indie\n",
		models.TablePopularity: "AppID,Average playtime forever,Recommendations\n1,120,10\n2,30,5\n",
		models.TableReviews:    "AppID,Positive,Negative\n1,150,50\n2,90,20\n",
		models.TableTags:       "AppID,Tags\n1,Shooter\n",
	}
	for name, content := range tables {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := &config.Config{DataSource: config.SourceLocal, DataDir: dir, DisplayYear: 2024}
	source, closer, err := newSource(context.Background(), cfg)
	require.NoError(t, err)
	defer closer.Close()

	dataset, err := fetchers.NewDataFetcher(source).FetchAllData(context.Background())
	require.NoError(t, err)

	set, err := buildCharts(dataset, cfg)
	require.NoError(t, err)

	assert.Equal(t, "calendar_plot", set.Calendar.ID())
	assert.Equal(t, "Review Sentiment by Game Genre", set.Sentiment.Title())
	assert.Equal(t, "Positive Review Ratio by Game Genre", set.Ratio.Title())
	assert.Equal(t, []string{"All", "Action", "Indie"}, set.Playtime.FilterOptions())
	for _, c := range []interface{ Revision() int }{set.Calendar, set.Sentiment, set.Ratio, set.Playtime} {
		assert.Equal(t, 1, c.Revision())
	}
}

func TestReportDataIssues(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: &buf})

	dataset := &models.Dataset{
		Games: []models.BasicInfo{
			{AppID: "1", ReleaseDate: "1-Nov-09"},
			{AppID: "2", ReleaseDate: "31-Foo-10"},
		},
	}
	cfg := &config.Config{DisplayYear: 2024}
	set, err := buildCharts(dataset, cfg)
	require.NoError(t, err)

	reportDataIssues(log, dataset, set.Playtime.JoinReport())

	var messages []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry logger.LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{
		"Skipping unparsable release date",
		"Release dates skipped",
		"Join keys missing, joined fields treated as zero",
	}, messages)
}

func TestConfigureLogging(t *testing.T) {
	original := logger.GetGlobalLogger()
	defer logger.SetGlobalLogger(original)

	var buf bytes.Buffer
	logger.SetGlobalLogger(logger.New(logger.Config{Level: logger.INFO, Format: logger.TextFormat, Output: &buf}))

	configureLogging(&config.Config{LogLevel: "warn", LogFormat: "json"})

	logger.Info("hidden")
	logger.Warn("shown")

	out := strings.TrimSpace(buf.String())
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON output, got %s", out)
}

func TestLogStaticImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "distribution-plot.jpg"), []byte{0xff, 0xd8}, 0o644))

	client, err := storage.NewLocalStorageClient(dir)
	require.NoError(t, err)
	files := server.NewFileManager(fetchers.NewStorageSource(client), client)
	defer files.Close()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: &buf})
	logStaticImages(context.Background(), log, files)

	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "Static images found", entry.Message)
	assert.EqualValues(t, 1, entry.Fields["count"])
}
