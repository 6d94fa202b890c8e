// Package artwork fetches cover images and fits them to a profile's caps.
package artwork

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/httpclient"
)

// Fetcher downloads cover art. Fetches are memoized per URL so an album's
// tracks share one download.
type Fetcher struct {
	client *httpclient.Client

	mu   sync.Mutex
	memo map[string][]byte
}

func NewFetcher(client *httpclient.Client) *Fetcher {
	if client == nil {
		client = httpclient.NewClient(&http.Client{Timeout: constants.ImageHTTPTimeout}, 0)
	}
	return &Fetcher{
		client: client,
		memo:   make(map[string][]byte),
	}
}

// Fetch returns the raw image bytes for a cover URL. An empty URL yields
// nil without error.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	if urlStr == "" {
		return nil, nil
	}

	f.mu.Lock()
	if data, ok := f.memo[urlStr]; ok {
		f.mu.Unlock()
		return data, nil
	}
	f.mu.Unlock()

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d (URL: %s)", resp.StatusCode, urlStr)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	f.mu.Lock()
	f.memo[urlStr] = data
	f.mu.Unlock()

	return data, nil
}
