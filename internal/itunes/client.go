// Package itunes provides the artwork image-search fallback: when the
// recognition provider embeds no cover, the iTunes Search API usually has
// one.
package itunes

import (
	"context"
	"net/url"
	"strings"

	internalhttp "github.com/chefkjd/MixSplitR/internal/http"
)

const searchURL = "https://itunes.apple.com/search"

// Client queries the iTunes Search API.
type Client struct {
	httpClient *internalhttp.Client
}

// NewClient creates a Client.
func NewClient(httpClient *internalhttp.Client) *Client {
	return &Client{httpClient: httpClient}
}

type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtworkURL100 string `json:"artworkUrl100"`
	} `json:"results"`
}

// ArtworkURL searches for the track and returns a high-resolution artwork
// URL, or "" when nothing was found. Failures are reported as absence.
func (c *Client) ArtworkURL(ctx context.Context, artist, title string) string {
	params := url.Values{
		"term":   {artist + " " + title},
		"entity": {"song"},
		"limit":  {"1"},
	}

	var resp searchResponse
	if err := c.httpClient.GetJSON(ctx, searchURL+"?"+params.Encode(), &resp); err != nil {
		return ""
	}
	if resp.ResultCount == 0 || len(resp.Results) == 0 {
		return ""
	}

	// The API hands out thumbnail URLs; the CDN serves larger renditions
	// of the same asset under a rewritten size segment.
	return strings.Replace(resp.Results[0].ArtworkURL100, "100x100bb", "600x600bb", 1)
}
