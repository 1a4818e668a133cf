// Package acoustid implements the secondary recognition provider: a
// chromaprint fingerprint (via the fpcalc tool) looked up against the
// AcoustID web service. Unlike the primary provider it fingerprints the
// full segment, not a sample window.
package acoustid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"

	internalhttp "github.com/chefkjd/MixSplitR/internal/http"
)

const lookupURL = "https://api.acoustid.org/v2/lookup"

// minScore is the confidence below which a lookup hit is discarded.
const minScore = 0.5

// Result is a confident AcoustID identification.
type Result struct {
	Artist      string
	Title       string
	RecordingID string
	Score       float64
}

// Client fingerprints audio files and resolves them against AcoustID.
type Client struct {
	apiKey     string
	fpcalcPath string
	httpClient *internalhttp.Client
}

// NewClient returns a Client, or an error when the fpcalc binary is not
// installed. An empty apiKey is the caller's signal that the fallback is
// unconfigured; construction still succeeds so the decision stays in one
// place.
func NewClient(apiKey string, httpClient *internalhttp.Client) (*Client, error) {
	path, err := exec.LookPath("fpcalc")
	if err != nil {
		return nil, fmt.Errorf("fpcalc not found on PATH: %w", err)
	}
	return &Client{apiKey: apiKey, fpcalcPath: path, httpClient: httpClient}, nil
}

type fingerprint struct {
	Duration    float64 `json:"duration"`
	Fingerprint string  `json:"fingerprint"`
}

type lookupResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Score      float64 `json:"score"`
		Recordings []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
		} `json:"recordings"`
	} `json:"results"`
}

// Lookup fingerprints the audio file and queries AcoustID. It returns nil
// when nothing clears the confidence threshold.
func (c *Client) Lookup(ctx context.Context, audioPath string) (*Result, error) {
	fp, err := c.fingerprint(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"client":      {c.apiKey},
		"meta":        {"recordings"},
		"duration":    {strconv.Itoa(int(fp.Duration))},
		"fingerprint": {fp.Fingerprint},
	}

	var resp lookupResponse
	if err := c.httpClient.GetJSON(ctx, lookupURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("acoustid: status %q", resp.Status)
	}

	for _, result := range resp.Results {
		if result.Score <= minScore {
			continue
		}
		for _, rec := range result.Recordings {
			if rec.Title == "" || len(rec.Artists) == 0 {
				continue
			}
			return &Result{
				Artist:      rec.Artists[0].Name,
				Title:       rec.Title,
				RecordingID: rec.ID,
				Score:       result.Score,
			}, nil
		}
	}
	return nil, nil
}

// fingerprint runs fpcalc in JSON mode on the audio file.
func (c *Client) fingerprint(ctx context.Context, audioPath string) (*fingerprint, error) {
	out, err := exec.CommandContext(ctx, c.fpcalcPath, "-json", audioPath).Output()
	if err != nil {
		return nil, fmt.Errorf("fpcalc: %w", err)
	}
	var fp fingerprint
	if err := json.Unmarshal(out, &fp); err != nil {
		return nil, fmt.Errorf("fpcalc: decode output: %w", err)
	}
	if fp.Fingerprint == "" {
		return nil, fmt.Errorf("fpcalc: empty fingerprint")
	}
	return &fp, nil
}
