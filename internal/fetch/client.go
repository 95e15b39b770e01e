// Package fetch downloads extraction source files over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client downloads source files with a bounded timeout and body size.
// Nothing is retried; a failed download is reported to the caller
// immediately.
type Client struct {
	http      *http.Client
	maxBytes  int64
	userAgent string
}

// NewClient builds a download client. maxBytes caps the response body;
// bodies beyond the cap abort the download rather than truncate.
func NewClient(timeout time.Duration, maxBytes int64, userAgent string) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

// Download fetches rawURL and returns the response body. Transport
// failures and non-2xx statuses are both download errors; client
// disconnects propagate through ctx.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("download failed: invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download failed: unexpected status %d from %s", resp.StatusCode, u.Host)
	}

	// Read one byte past the cap to distinguish "at the limit" from "over it".
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download failed: reading body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("download failed: response too large (limit %d bytes)", c.maxBytes)
	}

	return body, nil
}
