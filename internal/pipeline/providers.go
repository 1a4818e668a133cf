package pipeline

import (
	"context"

	"github.com/chefkjd/MixSplitR/internal/acoustid"
	"github.com/chefkjd/MixSplitR/internal/acrcloud"
	"github.com/chefkjd/MixSplitR/internal/model"
)

// Match is a successful identification from any provider.
type Match struct {
	Artist      string
	Title       string
	Album       string
	RecordingID string
	ArtURL      string
	Source      string
}

// Identifier is a single identification provider. Identify returns (nil, nil)
// when the provider has no match; an error means the provider itself failed
// and the chain should move on.
type Identifier interface {
	// Source names the provider for result attribution.
	Source() string
	// Identify attempts to identify the segment. samplePath is a short
	// extracted clip; providers that fingerprint the whole segment use
	// seg.Path instead.
	Identify(ctx context.Context, seg model.Segment, samplePath string) (*Match, error)
}

// ACRCloudIdentifier adapts the ACRCloud client, which identifies from the
// extracted sample clip.
type ACRCloudIdentifier struct {
	Client *acrcloud.Client
}

func (a *ACRCloudIdentifier) Source() string { return model.SourceACRCloud }

func (a *ACRCloudIdentifier) Identify(ctx context.Context, _ model.Segment, samplePath string) (*Match, error) {
	music, err := a.Client.Identify(ctx, samplePath)
	if err != nil {
		return nil, err
	}
	if music == nil || music.Title == "" || len(music.Artists) == 0 {
		return nil, nil
	}
	return &Match{
		Artist: music.Artists[0].Name,
		Title:  music.Title,
		Album:  music.Album.Name,
		ArtURL: music.CoverURL(),
		Source: model.SourceACRCloud,
	}, nil
}

// AcoustIDIdentifier adapts the AcoustID client, which fingerprints the full
// segment rather than the sample clip.
type AcoustIDIdentifier struct {
	Client *acoustid.Client
}

func (a *AcoustIDIdentifier) Source() string { return model.SourceAcoustID }

func (a *AcoustIDIdentifier) Identify(ctx context.Context, seg model.Segment, _ string) (*Match, error) {
	result, err := a.Client.Lookup(ctx, seg.Path)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return &Match{
		Artist:      result.Artist,
		Title:       result.Title,
		RecordingID: result.RecordingID,
		Source:      model.SourceAcoustID,
	}, nil
}
