package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"steamtrends/internal/logger"
)

// GCSClient reads source files from a Google Cloud Storage bucket
type GCSClient struct {
	client *storage.Client
	bucket string
	prefix string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client. prefix is prepended to every path.
func NewGCSClient(ctx context.Context, bucketName, prefix string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
		prefix: normalizePrefix(prefix),
		log:    logger.GetGlobalLogger().WithComponent("gcs"),
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// Describe returns the gs:// location
func (g *GCSClient) Describe() string {
	return fmt.Sprintf("gs://%s/%s", g.bucket, g.prefix)
}

func (g *GCSClient) objectPath(filePath string) string {
	return g.prefix + strings.TrimPrefix(filePath, "/")
}

// GetFile retrieves a file from GCS
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	objectPath := g.objectPath(filePath)
	g.log.Debug("Reading object", map[string]interface{}{"bucket": g.bucket, "object": objectPath})

	reader, err := g.client.Bucket(g.bucket).Object(objectPath).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: gs://%s/%s", ErrNotFound, g.bucket, objectPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", objectPath, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", objectPath, err)
	}

	return fileData, nil
}

// ListDir lists objects under dirPath, relative to the client prefix
func (g *GCSClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	query := &storage.Query{
		Prefix: normalizePrefix(g.objectPath(dirPath)),
	}
	if !recursive {
		query.Delimiter = "/"
	}

	it := g.client.Bucket(g.bucket).Objects(ctx, query)

	var files []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		// directory placeholders carry only Prefix
		if attrs.Name == "" {
			continue
		}
		files = append(files, strings.TrimPrefix(attrs.Name, g.prefix))
	}

	sort.Strings(files)
	return files, nil
}

// FileExists checks if an object exists
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(g.objectPath(filePath)).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object %s: %w", filePath, err)
	}
	return true, nil
}

// normalizePrefix returns "" or a prefix ending in "/"
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
