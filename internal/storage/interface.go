package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested file does not exist
var ErrNotFound = errors.New("file not found")

// StorageClient defines read access to the source files
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDir lists the files under a directory
	ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)

	// Describe names the location for logs, e.g. "gs://bucket/prefix"
	Describe() string
}
