package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"steamtrends/internal/aggregate"
	"steamtrends/internal/charts"
	"steamtrends/internal/config"
	"steamtrends/internal/fetchers"
	"steamtrends/internal/logger"
	"steamtrends/internal/models"
	"steamtrends/internal/reports"
	"steamtrends/internal/server"
	"steamtrends/internal/storage"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Error("Failed to load configuration", err)
		os.Exit(1)
	}
	configureLogging(cfg)
	log := logger.GetGlobalLogger().WithComponent("main")

	log.Info("Starting Steam game trends service", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"data_source": cfg.DataSource,
		"version":     config.GetVersion(),
	})

	source, closer, err := newSource(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize data source", err)
		os.Exit(1)
	}

	// Nothing below runs unless every table loaded
	dataset, err := fetchers.NewDataFetcher(source).FetchAllData(ctx)
	if err != nil {
		log.Error("Data load failed, no charts will be rendered", err, map[string]interface{}{
			"source": source.Describe(),
		})
		closeQuietly(closer)
		os.Exit(1)
	}

	set, err := buildCharts(dataset, cfg)
	if err != nil {
		log.Error("Failed to build charts", err)
		closeQuietly(closer)
		os.Exit(1)
	}
	reportDataIssues(log, dataset, set.Playtime.JoinReport())

	files := server.NewFileManager(source, closer)
	logStaticImages(ctx, log, files)

	srv, err := server.NewServer(cfg, set, dataset, files)
	if err != nil {
		log.Error("Failed to create server", err)
		closeQuietly(closer)
		os.Exit(1)
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped")
	_ = logger.GetGlobalLogger().Sync()
}

// configureLogging applies LOG_LEVEL and LOG_FORMAT to the global logger
func configureLogging(cfg *config.Config) {
	global := logger.GetGlobalLogger()
	if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
		global.SetLevel(level)
	}
	if format, ok := logger.ParseFormat(cfg.LogFormat); ok {
		global.SetFormat(format)
		logger.SetGlobalLogger(global)
	}
}

// newSource returns the table source for the configured data source. The
// closer, if not nil, releases the underlying storage client.
func newSource(ctx context.Context, cfg *config.Config) (fetchers.Source, io.Closer, error) {
	if cfg.DataSource == config.SourceHTTP {
		return fetchers.NewHTTPSource(cfg.DataBaseURL, fetchers.HTTPOptions{
			Timeout:    cfg.HTTPTimeout,
			Retries:    cfg.HTTPRetries,
			RatePerSec: cfg.HTTPRatePerSec,
		}), nil, nil
	}

	client, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return fetchers.NewStorageSource(client), client, nil
}

// logStaticImages lists the image directory of sources that support it
func logStaticImages(ctx context.Context, log *logger.Logger, files *server.FileManager) {
	images, err := files.List(ctx, "img")
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Warn("Failed to list static images", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Debug("Static images found", map[string]interface{}{
		"count": len(images),
		"files": images,
	})
}

// buildCharts constructs every chart over the loaded dataset
func buildCharts(dataset *models.Dataset, cfg *config.Config) (reports.ChartSet, error) {
	calendar, err := charts.NewCalendarPlot("calendar-plot", dataset, charts.CalendarOptions{DisplayYear: cfg.DisplayYear})
	if err != nil {
		return reports.ChartSet{}, fmt.Errorf("calendar chart: %w", err)
	}
	sentiment, err := charts.NewDivergingBarChart("diverging-bar-plot", dataset, charts.SentimentParams)
	if err != nil {
		return reports.ChartSet{}, fmt.Errorf("sentiment chart: %w", err)
	}
	ratio, err := charts.NewDivergingBarChart("ratio-bar-plot", dataset, charts.RatioParams)
	if err != nil {
		return reports.ChartSet{}, fmt.Errorf("ratio chart: %w", err)
	}
	playtime, err := charts.NewPlaytimeTrendsChart("line-chart", dataset)
	if err != nil {
		return reports.ChartSet{}, fmt.Errorf("playtime chart: %w", err)
	}

	return reports.ChartSet{
		Calendar:  calendar,
		Sentiment: sentiment,
		Ratio:     ratio,
		Playtime:  playtime,
	}, nil
}

// reportDataIssues logs skipped release dates and join misses
func reportDataIssues(log *logger.Logger, dataset *models.Dataset, report aggregate.JoinReport) {
	issues := aggregate.DateIssues(dataset.Games)
	for _, issue := range issues {
		log.Debug("Skipping unparsable release date", map[string]interface{}{
			"app_id": issue.AppID,
			"value":  issue.Value,
			"error":  issue.Err.Error(),
		})
	}
	if len(issues) > 0 {
		log.Warn("Release dates skipped", map[string]interface{}{"count": len(issues)})
	}

	if err := report.Err(); err != nil {
		log.Warn("Join keys missing, joined fields treated as zero", map[string]interface{}{
			"games":              report.Games,
			"missing_popularity": report.MissingPopularity,
			"missing_genres":     report.MissingGenres,
			"error":              err.Error(),
		})
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
