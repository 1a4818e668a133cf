package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/chefkjd/MixSplitR/internal/model"
	"github.com/chefkjd/MixSplitR/internal/progress"
)

// Enricher looks up extended metadata for an identified track. It never
// fails; an empty Enrichment means nothing was found.
type Enricher interface {
	Enrich(ctx context.Context, artist, title, recordingID string) model.Enrichment
}

// ArtSearcher resolves a cover art URL for tracks whose provider match
// carried none. An empty string means no artwork was found.
type ArtSearcher interface {
	ArtworkURL(ctx context.Context, artist, title string) string
}

// Sampler extracts the short clip sent to the primary provider.
type Sampler interface {
	ExtractSample(ctx context.Context, seg model.Segment, window time.Duration, outPath string) error
}

// Pipeline identifies segments. Primary is consulted first on the extracted
// sample, gated by Limiter; when it has no match the optional Fallback runs
// on the full segment. A successful match claims its canonical filename
// before any enrichment or artwork lookup happens, so duplicates never cost
// extra network calls.
type Pipeline struct {
	Primary  Identifier
	Fallback Identifier // may be nil
	Limiter  *RateLimiter
	Claims   *ClaimSet
	Enricher Enricher    // may be nil
	Artwork  ArtSearcher // may be nil
	Sampler  Sampler

	MinDuration  time.Duration
	SampleWindow time.Duration
	SampleDir    string

	Workers  int
	Progress progress.Func

	// OnResult, when set, is called from Run as each segment finishes.
	OnResult func(model.TrackResult)

	apiCalls atomic.Int64
}

// APICalls reports how many identification requests the pipeline has issued
// across both providers since it was created.
func (p *Pipeline) APICalls() int {
	return int(p.apiCalls.Load())
}

// ProcessSegment runs one segment through the pipeline. index is the flat
// position within the batch's segment list. Provider failures degrade the
// result instead of failing it: a segment no provider could identify comes
// back unidentified, never as an error.
func (p *Pipeline) ProcessSegment(ctx context.Context, seg model.Segment, index int) model.TrackResult {
	result := model.TrackResult{
		Index:         index,
		FileNum:       seg.FileNum,
		OriginalFile:  seg.SourcePath,
		ChunkIndex:    seg.Index,
		TempChunkPath: seg.Path,
	}

	if seg.Duration() < p.MinDuration {
		result.Status = model.StatusSkipped
		result.Reason = model.SkipTooShort
		p.Progress.Emit(progress.LevelVerbose,
			fmt.Sprintf("Track %d: segment too short (%.1fs), skipping", index+1, seg.Duration().Seconds()))
		return result
	}

	match := p.identify(ctx, seg, index)
	if match == nil {
		result.Status = model.StatusUnidentified
		result.UnidentifiedFilename = model.UnidentifiedFileName(seg.FileNum, index, filepath.Ext(seg.Path))
		p.Progress.Emit(progress.LevelWarning,
			fmt.Sprintf("Track %d: could not identify, keeping as %s", index+1, result.UnidentifiedFilename))
		return result
	}

	result.Artist = match.Artist
	result.Title = match.Title
	result.Album = match.Album
	result.IdentificationSource = match.Source
	result.ExpectedFilename = model.CanonicalFileName(match.Artist, match.Title, filepath.Ext(seg.Path))

	if !p.Claims.Claim(result.ExpectedFilename) {
		result.Status = model.StatusSkipped
		result.Reason = model.SkipAlreadyExists
		p.Progress.Emit(progress.LevelInfo,
			fmt.Sprintf("Track %d: %s - %s already in library, skipping", index+1, match.Artist, match.Title))
		return result
	}

	result.Status = model.StatusIdentified

	if p.Enricher != nil {
		if enriched := p.Enricher.Enrich(ctx, match.Artist, match.Title, match.RecordingID); !enriched.Empty() {
			result.Enhanced = &enriched
			if result.Album == "" {
				result.Album = enriched.Album
			}
		}
	}

	result.ArtURL = match.ArtURL
	if result.ArtURL == "" && p.Artwork != nil {
		result.ArtURL = p.Artwork.ArtworkURL(ctx, match.Artist, match.Title)
	}

	p.Progress.Emit(progress.LevelSuccess,
		fmt.Sprintf("Track %d: identified as %s - %s (%s)", index+1, match.Artist, match.Title, match.Source))
	return result
}

// identify runs the provider chain and returns the first match, or nil when
// neither provider recognizes the segment.
func (p *Pipeline) identify(ctx context.Context, seg model.Segment, index int) *Match {
	samplePath := p.samplePath(seg)
	sampleOK := true
	if err := p.Sampler.ExtractSample(ctx, seg, p.SampleWindow, samplePath); err != nil {
		sampleOK = false
		p.Progress.Emit(progress.LevelWarning,
			fmt.Sprintf("Track %d: sample extraction failed: %v", index+1, err))
	} else {
		defer os.Remove(samplePath)
	}

	if sampleOK && p.Primary != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return nil
		}
		p.apiCalls.Add(1)
		match, err := p.Primary.Identify(ctx, seg, samplePath)
		if err != nil {
			p.Progress.Emit(progress.LevelWarning,
				fmt.Sprintf("Track %d: %s lookup failed: %v", index+1, p.Primary.Source(), err))
		} else if match != nil {
			return match
		}
	}

	if p.Fallback == nil || ctx.Err() != nil {
		return nil
	}
	p.apiCalls.Add(1)
	match, err := p.Fallback.Identify(ctx, seg, samplePath)
	if err != nil {
		p.Progress.Emit(progress.LevelWarning,
			fmt.Sprintf("Track %d: %s lookup failed: %v", index+1, p.Fallback.Source(), err))
		return nil
	}
	return match
}

func (p *Pipeline) samplePath(seg model.Segment) string {
	dir := p.SampleDir
	if dir == "" {
		dir = filepath.Dir(seg.Path)
	}
	return filepath.Join(dir, fmt.Sprintf("sample_%d_%d.wav", seg.FileNum, seg.Index))
}
