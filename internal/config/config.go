package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"steamtrends/internal/apperrors"
)

// Data source kinds
const (
	SourceLocal = "local"
	SourceGCS   = "gcs"
	SourceHTTP  = "http"
)

// Config holds all configuration for the game trends service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8080"`

	// Data source configuration
	DataSource  string `env:"DATA_SOURCE,default=local"`
	DataDir     string `env:"DATA_DIR,default=data"`
	GCSBucket   string `env:"GCS_BUCKET"`
	GCSPrefix   string `env:"GCS_PREFIX"`
	DataBaseURL string `env:"DATA_BASE_URL"`

	// HTTP source tuning
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=30s"`
	HTTPRetries    int           `env:"HTTP_RETRIES,default=0"`
	HTTPRatePerSec float64       `env:"HTTP_RATE_PER_SEC,default=5"`

	// Year every calendar bucket is placed on
	DisplayYear int `env:"DISPLAY_YEAR,default=2024"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=local"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom loads configuration using the given lookuper
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected data source has what it needs
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceLocal:
		if c.DataDir == "" {
			return fmt.Errorf("%w: DATA_DIR is required for local source", apperrors.ErrInvalidConfig)
		}
	case SourceGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("%w: GCS_BUCKET is required for gcs source", apperrors.ErrInvalidConfig)
		}
	case SourceHTTP:
		if c.DataBaseURL == "" {
			return fmt.Errorf("%w: DATA_BASE_URL is required for http source", apperrors.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported data source %q", apperrors.ErrInvalidConfig, c.DataSource)
	}
	if c.DisplayYear < 1 {
		return fmt.Errorf("%w: DISPLAY_YEAR must be positive", apperrors.ErrInvalidConfig)
	}
	return nil
}
