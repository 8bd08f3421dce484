package storage

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"
)

const maxFetchAttempts = 3

// HTTPImageFetcher downloads images over http(s), retrying transient failures
type HTTPImageFetcher struct {
	client     *http.Client
	retryDelay time.Duration
}

// NewHTTPImageFetcher creates an HTTP image fetcher whose requests give up after timeout
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	// Connection pooling tuned for single image downloads
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		retryDelay: time.Second,
	}
}

// WithRetryDelay sets the base backoff; attempt n waits n*delay.
func (h *HTTPImageFetcher) WithRetryDelay(delay time.Duration) *HTTPImageFetcher {
	h.retryDelay = delay
	return h
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	var lastErr error

	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * h.retryDelay):
			}
		}

		img, retryable, err := h.fetchOnce(ctx, imageURL)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch image: %w", lastErr)
}

// fetchOnce performs a single GET. Network errors and 5xx responses are retryable.
func (h *HTTPImageFetcher) fetchOnce(ctx context.Context, imageURL string) (image.Image, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, image/bmp, image/tiff, */*")
	req.Header.Set("User-Agent", "Go-Image-Enhancer/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	}

	img, err := Decode(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return img, false, nil
}
