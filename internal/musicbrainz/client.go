// Package musicbrainz queries the MusicBrainz web service for extended
// track metadata: genres, label, release date, and ISRC.
package musicbrainz

import (
	"context"
	"fmt"
	"net/url"

	internalhttp "github.com/chefkjd/MixSplitR/internal/http"
	"github.com/chefkjd/MixSplitR/internal/model"
)

const baseURL = "https://musicbrainz.org/ws/2"

// maxGenres caps how many MusicBrainz tags are carried as genres.
const maxGenres = 3

// Client resolves recordings against the MusicBrainz API.
type Client struct {
	httpClient *internalhttp.Client
}

// NewClient creates a Client using the shared HTTP client (which carries
// the User-Agent MusicBrainz requires).
func NewClient(httpClient *internalhttp.Client) *Client {
	return &Client{httpClient: httpClient}
}

type recording struct {
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
	ISRCs    []string `json:"isrcs"`
	Releases []struct {
		Title     string `json:"title"`
		Date      string `json:"date"`
		LabelInfo []struct {
			Label *struct {
				Name string `json:"name"`
			} `json:"label"`
		} `json:"label-info"`
	} `json:"releases"`
}

type searchResponse struct {
	Recordings []recording `json:"recordings"`
}

// Enrich fetches extended metadata, preferring a direct lookup when the
// recording ID is known (the fallback provider supplies one) and searching
// by artist and title otherwise. Lookup failures yield an empty Enrichment,
// never an error that would fail the track.
func (c *Client) Enrich(ctx context.Context, artist, title, recordingID string) model.Enrichment {
	if recordingID != "" {
		if e, err := c.byID(ctx, recordingID); err == nil {
			return e
		}
	}
	if artist == "" || title == "" {
		return model.Enrichment{}
	}
	e, err := c.search(ctx, artist, title)
	if err != nil {
		return model.Enrichment{}
	}
	return e
}

func (c *Client) byID(ctx context.Context, id string) (model.Enrichment, error) {
	u := fmt.Sprintf("%s/recording/%s?inc=artists+releases+tags+isrcs+labels&fmt=json", baseURL, url.PathEscape(id))
	var rec recording
	if err := c.httpClient.GetJSON(ctx, u, &rec); err != nil {
		return model.Enrichment{}, err
	}
	return extract(rec), nil
}

func (c *Client) search(ctx context.Context, artist, title string) (model.Enrichment, error) {
	query := fmt.Sprintf(`artist:%q AND recording:%q`, artist, title)
	u := fmt.Sprintf("%s/recording?query=%s&limit=1&fmt=json", baseURL, url.QueryEscape(query))

	var resp searchResponse
	if err := c.httpClient.GetJSON(ctx, u, &resp); err != nil {
		return model.Enrichment{}, err
	}
	if len(resp.Recordings) == 0 {
		return model.Enrichment{}, nil
	}
	return extract(resp.Recordings[0]), nil
}

// extract maps a MusicBrainz recording onto the pipeline's enrichment
// shape.
func extract(rec recording) model.Enrichment {
	var e model.Enrichment

	for i, tag := range rec.Tags {
		if i == maxGenres {
			break
		}
		e.Genres = append(e.Genres, tag.Name)
	}
	if len(rec.ISRCs) > 0 {
		e.ISRC = rec.ISRCs[0]
	}
	if len(rec.Releases) > 0 {
		release := rec.Releases[0]
		e.ReleaseDate = release.Date
		e.Album = release.Title
		for _, info := range release.LabelInfo {
			if info.Label != nil && info.Label.Name != "" {
				e.Label = info.Label.Name
				break
			}
		}
	}
	return e
}
