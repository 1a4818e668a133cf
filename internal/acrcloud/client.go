// Package acrcloud implements the primary recognition provider: the
// ACRCloud identify API with its HMAC-SHA1 request signature.
package acrcloud

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"

	internalhttp "github.com/chefkjd/MixSplitR/internal/http"
)

const (
	endpoint      = "/v1/identify"
	dataType      = "audio"
	signatureVer  = "1"
	statusSuccess = 0
	statusNoMatch = 1001
)

// Client calls the ACRCloud identification service.
type Client struct {
	host       string
	accessKey  string
	secret     string
	httpClient *http.Client
}

// NewClient creates a Client for the given project credentials.
func NewClient(host, accessKey, secret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		host:       host,
		accessKey:  accessKey,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Music is one recognized recording in an identify response.
type Music struct {
	Title   string `json:"title"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name  string `json:"name"`
		Cover *struct {
			Large  string `json:"large"`
			Medium string `json:"medium"`
		} `json:"cover"`
	} `json:"album"`
}

// CoverURL returns the largest embedded cover URL, or "".
func (m Music) CoverURL() string {
	if m.Album.Cover == nil {
		return ""
	}
	if m.Album.Cover.Large != "" {
		return m.Album.Cover.Large
	}
	return m.Album.Cover.Medium
}

type response struct {
	Status struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	} `json:"status"`
	Metadata struct {
		Music []Music `json:"music"`
	} `json:"metadata"`
}

// Identify submits the sample file at path and returns the best match, or
// nil when the service reports no result. Transport and non-2xx failures
// are errors; a clean no-match is not.
func (c *Client) Identify(ctx context.Context, samplePath string) (*Music, error) {
	sample, err := os.ReadFile(samplePath)
	if err != nil {
		return nil, err
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := c.sign(timestamp)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("sample", "sample.wav")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(sample); err != nil {
		return nil, err
	}
	fields := map[string]string{
		"access_key":        c.accessKey,
		"data_type":         dataType,
		"signature_version": signatureVer,
		"signature":         signature,
		"sample_bytes":      strconv.Itoa(len(sample)),
		"timestamp":         timestamp,
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+c.host+endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", internalhttp.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("acrcloud: HTTP %d", resp.StatusCode)
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("acrcloud: decode response: %w", err)
	}

	if parsed.Status.Code != statusSuccess || len(parsed.Metadata.Music) == 0 {
		if parsed.Status.Code == statusSuccess || parsed.Status.Code == statusNoMatch {
			return nil, nil
		}
		return nil, fmt.Errorf("acrcloud: status %d: %s", parsed.Status.Code, parsed.Status.Msg)
	}
	return &parsed.Metadata.Music[0], nil
}

// sign builds the base64 HMAC-SHA1 request signature over the canonical
// string the API mandates.
func (c *Client) sign(timestamp string) string {
	canonical := "POST" + "\n" + endpoint + "\n" + c.accessKey + "\n" +
		dataType + "\n" + signatureVer + "\n" + timestamp
	mac := hmac.New(sha1.New, []byte(c.secret))
	mac.Write([]byte(canonical))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
