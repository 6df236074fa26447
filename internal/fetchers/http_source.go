package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"steamtrends/internal/storage"
)

// HTTPOptions tunes the HTTP table source
type HTTPOptions struct {
	Timeout    time.Duration
	Retries    int
	RatePerSec float64
}

// HTTPSource downloads tables from a base URL
type HTTPSource struct {
	client  *resty.Client
	baseURL string
	limiter *rate.Limiter
}

// NewHTTPSource creates an HTTP table source rooted at baseURL
func NewHTTPSource(baseURL string, opts HTTPOptions) *HTTPSource {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetRetryCount(opts.Retries)
	client.SetRetryWaitTime(2 * time.Second)

	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}

	return &HTTPSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch downloads baseURL/name
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := s.url(name)
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv, text/plain, */*").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return resp.Body(), nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, url)
	default:
		return nil, fmt.Errorf("HTTP error fetching %s: %d", url, resp.StatusCode())
	}
}

// Exists sends a HEAD request for baseURL/name
func (s *HTTPSource) Exists(ctx context.Context, name string) (bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}

	url := s.url(name)
	resp, err := s.client.R().SetContext(ctx).Head(url)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", url, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("HTTP error checking %s: %d", url, resp.StatusCode())
	}
}

func (s *HTTPSource) url(name string) string {
	return s.baseURL + "/" + strings.TrimLeft(name, "/")
}

// Describe returns the base URL
func (s *HTTPSource) Describe() string {
	return s.baseURL
}
