package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"steamtrends/internal/fetchers"
	"steamtrends/internal/logger"
	"steamtrends/internal/storage"
)

// FileManager loads static assets from the data source and keeps them in
// memory. Missing files are remembered as missing.
type FileManager struct {
	source  fetchers.Source
	closer  io.Closer
	mu      sync.RWMutex
	cache   map[string][]byte
	missing map[string]bool
	log     *logger.Logger
}

// NewFileManager creates a file manager over source. closer, if not nil,
// is closed with the manager.
func NewFileManager(source fetchers.Source, closer io.Closer) *FileManager {
	return &FileManager{
		source:  source,
		closer:  closer,
		cache:   make(map[string][]byte),
		missing: make(map[string]bool),
		log:     logger.GetGlobalLogger().WithComponent("files"),
	}
}

// Get returns the content of name, fetching it on first use. A missing
// file yields an error wrapping storage.ErrNotFound.
func (fm *FileManager) Get(ctx context.Context, name string) ([]byte, error) {
	fm.mu.RLock()
	data, ok := fm.cache[name]
	missing := fm.missing[name]
	fm.mu.RUnlock()
	if ok {
		return data, nil
	}
	if missing {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}

	data, err := fm.source.Fetch(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		fm.mu.Lock()
		fm.missing[name] = true
		fm.mu.Unlock()
		fm.log.Warn("Static file not found", map[string]interface{}{
			"file":   name,
			"source": fm.source.Describe(),
		})
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	fm.mu.Lock()
	fm.cache[name] = data
	fm.mu.Unlock()
	return data, nil
}

// Available reports which of names can be loaded. Sources that can check
// for a file without downloading it are asked directly.
func (fm *FileManager) Available(ctx context.Context, names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, name := range names {
		ok, err := fm.exists(ctx, name)
		if err != nil {
			fm.log.Error("Failed to check static file", err, map[string]interface{}{"file": name})
		}
		out[name] = ok
	}
	return out
}

func (fm *FileManager) exists(ctx context.Context, name string) (bool, error) {
	fm.mu.RLock()
	_, cached := fm.cache[name]
	missing := fm.missing[name]
	fm.mu.RUnlock()
	if cached {
		return true, nil
	}
	if missing {
		return false, nil
	}

	checker, ok := fm.source.(fetchers.Checker)
	if !ok {
		_, err := fm.Get(ctx, name)
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	}

	found, err := checker.Exists(ctx, name)
	if err != nil {
		return false, err
	}
	if !found {
		fm.mu.Lock()
		fm.missing[name] = true
		fm.mu.Unlock()
	}
	return found, nil
}

// List returns the files under dir, or an empty list when the source
// cannot enumerate directories
func (fm *FileManager) List(ctx context.Context, dir string) ([]string, error) {
	lister, ok := fm.source.(fetchers.Lister)
	if !ok {
		return nil, nil
	}
	return lister.List(ctx, dir)
}

// Close releases the underlying storage client, if any
func (fm *FileManager) Close() error {
	if fm.closer != nil {
		return fm.closer.Close()
	}
	return nil
}
