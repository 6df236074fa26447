package fetchers

import (
	"context"

	"steamtrends/internal/storage"
)

// Source returns the raw bytes of a named table
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Describe() string
}

// Checker is implemented by sources that can test for a file without
// downloading it
type Checker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// Lister is implemented by sources that can enumerate a directory
type Lister interface {
	List(ctx context.Context, dir string) ([]string, error)
}

// StorageSource reads tables through a storage client (local dir or GCS)
type StorageSource struct {
	client storage.StorageClient
}

// NewStorageSource wraps a storage client as a table source
func NewStorageSource(client storage.StorageClient) *StorageSource {
	return &StorageSource{client: client}
}

// Fetch reads the named table
func (s *StorageSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	return s.client.GetFile(ctx, name)
}

// Exists reports whether name is present in storage
func (s *StorageSource) Exists(ctx context.Context, name string) (bool, error) {
	return s.client.FileExists(ctx, name)
}

// List returns every file under dir, recursively
func (s *StorageSource) List(ctx context.Context, dir string) ([]string, error) {
	return s.client.ListDir(ctx, dir, true)
}

// Describe names the underlying location
func (s *StorageSource) Describe() string {
	return s.client.Describe()
}
