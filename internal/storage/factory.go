package storage

import (
	"context"
	"fmt"

	"steamtrends/internal/config"
)

// NewStorageClient creates a storage client for the configured data source
func NewStorageClient(ctx context.Context, cfg *config.Config) (StorageClient, error) {
	switch cfg.DataSource {
	case config.SourceLocal:
		localClient, err := NewLocalStorageClient(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case config.SourceGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported storage data source: %s", cfg.DataSource)
	}
}
