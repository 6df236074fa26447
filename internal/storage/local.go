package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalStorageClient reads files below a base directory
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client. The base
// directory must already exist.
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory %s: %w", baseDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", baseDir)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
	}, nil
}

// Close is a no-op for local storage (implements same interface as GCSClient)
func (l *LocalStorageClient) Close() error {
	return nil
}

// Describe returns the base directory
func (l *LocalStorageClient) Describe() string {
	return l.baseDir
}

// resolve maps a relative path inside baseDir, refusing to escape it
func (l *LocalStorageClient) resolve(filePath string) string {
	return filepath.Join(l.baseDir, filepath.Clean("/"+filePath))
}

// GetFile retrieves a file from local storage
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.resolve(filePath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListDir lists files under dirPath relative to the base directory, sorted
func (l *LocalStorageClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	root := l.resolve(dirPath)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(l.baseDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dirPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	sort.Strings(files)
	return files, nil
}

// FileExists checks if a regular file exists
func (l *LocalStorageClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	info, err := os.Stat(l.resolve(filePath))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}
	return !info.IsDir(), nil
}
