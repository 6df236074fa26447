package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamtrends/internal/storage"
)

// countingSource serves files from memory and counts each kind of call
type countingSource struct {
	mu      sync.Mutex
	files   map[string][]byte
	fetches int
	checks  int
}

func (c *countingSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	data, ok := c.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return data, nil
}

func (c *countingSource) Describe() string { return "memory" }

// checkingSource also answers existence checks
type checkingSource struct {
	countingSource
	err error
}

func (c *checkingSource) Exists(ctx context.Context, name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks++
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.files[name]
	return ok, nil
}

func TestFileManagerAvailableChecksWithoutDownloading(t *testing.T) {
	src := &checkingSource{countingSource: countingSource{
		files: map[string][]byte{"img/a.jpg": jpegBytes},
	}}
	fm := NewFileManager(src, nil)

	got := fm.Available(context.Background(), []string{"img/a.jpg", "img/b.jpg"})
	assert.Equal(t, map[string]bool{"img/a.jpg": true, "img/b.jpg": false}, got)
	assert.Equal(t, 0, src.fetches)
	assert.Equal(t, 2, src.checks)

	// misses are remembered
	fm.Available(context.Background(), []string{"img/b.jpg"})
	assert.Equal(t, 2, src.checks)

	_, err := fm.Get(context.Background(), "img/b.jpg")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 0, src.fetches)
}

func TestFileManagerAvailableCheckError(t *testing.T) {
	src := &checkingSource{err: errors.New("bucket unreachable")}
	fm := NewFileManager(src, nil)

	got := fm.Available(context.Background(), []string{"img/a.jpg"})
	assert.False(t, got["img/a.jpg"])

	// errors are not cached as misses
	src.err = nil
	src.files = map[string][]byte{"img/a.jpg": jpegBytes}
	assert.True(t, fm.Available(context.Background(), []string{"img/a.jpg"})["img/a.jpg"])
}

func TestFileManagerAvailableFallsBackToFetch(t *testing.T) {
	src := &countingSource{files: map[string][]byte{"img/a.jpg": jpegBytes}}
	fm := NewFileManager(src, nil)

	got := fm.Available(context.Background(), []string{"img/a.jpg", "img/b.jpg"})
	assert.Equal(t, map[string]bool{"img/a.jpg": true, "img/b.jpg": false}, got)
	assert.Equal(t, 2, src.fetches)

	data, err := fm.Get(context.Background(), "img/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, jpegBytes, data)
	assert.Equal(t, 2, src.fetches)
}

func TestFileManagerList(t *testing.T) {
	files, err := NewFileManager(&countingSource{}, nil).List(context.Background(), "img")
	require.NoError(t, err)
	assert.Empty(t, files)

	srv := newTestServer(t)
	files, err = srv.Files.List(context.Background(), "img")
	require.NoError(t, err)
	assert.Equal(t, []string{"img/distribution-plot.jpg"}, files)
}
