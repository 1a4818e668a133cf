// Package http provides the HTTP client shared by the metadata and artwork
// services.
//
// The Client sets a MixSplitR User-Agent on every request (MusicBrainz
// rejects anonymous clients), applies a timeout, and offers small helpers
// for the GET-with-JSON pattern every provider uses:
//
//	client := http.NewClient(10 * time.Second)
//	var payload itunesResponse
//	err := client.GetJSON(ctx, url, &payload)
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserAgent identifies MixSplitR to remote services.
const UserAgent = "MixSplitR/7.0 (https://github.com/chefkjd/MixSplitR)"

// Client wraps net/http with the configuration every provider shares.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with the given timeout. A zero timeout defaults
// to 30 seconds.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request and returns the response body as bytes.
// Non-200 responses are errors.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetJSON performs a GET request and decodes the JSON response body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
