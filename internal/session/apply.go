package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chefkjd/MixSplitR/internal/artwork"
	"github.com/chefkjd/MixSplitR/internal/library"
	"github.com/chefkjd/MixSplitR/internal/model"
	"github.com/chefkjd/MixSplitR/internal/progress"
)

// Segmenter re-slices a source when its staged chunks are gone.
type Segmenter interface {
	Split(ctx context.Context, src model.AudioSource, workDir string) ([]model.Segment, error)
}

// Applier replays a saved session into the library.
type Applier struct {
	Store     *Store
	Organizer *library.Organizer
	Segmenter Segmenter
	Progress  progress.Func
}

// Summary counts what an apply did.
type Summary struct {
	Written      int
	Unidentified int
	Skipped      int
	Failed       int
}

// Apply loads the session, writes every pending track into the library, and
// clears the session state on success. Tracks whose destination appeared
// since the preview are skipped; per-track failures are counted and reported
// but don't abort the rest.
//
// Staged chunks are used directly when they still exist. Otherwise the
// original source is re-segmented once and tracks are relinked by their
// recorded chunk index; an index the fresh segmentation doesn't have (the
// source changed on disk) skips the track with a warning, never remaps it.
func (a *Applier) Apply(ctx context.Context) (*Summary, error) {
	sess, err := a.Store.Load()
	if err != nil {
		return nil, err
	}

	cache := artwork.FromMap(sess.ArtworkCache)
	resegmented := make(map[string][]model.Segment)
	summary := &Summary{}

	for _, track := range sess.Tracks {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if track.Status == model.StatusSkipped {
			summary.Skipped++
			continue
		}

		chunk, err := a.chunkFor(ctx, track, resegmented)
		if err != nil {
			a.Progress.Emit(progress.LevelWarning, err.Error())
			summary.Failed++
			continue
		}
		if chunk == "" {
			summary.Skipped++
			continue
		}

		a.place(track, chunk, cache, summary)
	}

	if err := a.Store.Clear(); err != nil {
		return summary, fmt.Errorf("clear session: %w", err)
	}
	a.Progress.Emit(progress.LevelSuccess, fmt.Sprintf(
		"Apply complete: %d written, %d unidentified, %d skipped, %d failed",
		summary.Written, summary.Unidentified, summary.Skipped, summary.Failed))
	return summary, nil
}

// chunkFor returns the audio file for a track: the staged chunk when it
// survives, otherwise a chunk from re-segmenting the source. An empty path
// with nil error means the track must be skipped.
func (a *Applier) chunkFor(ctx context.Context, track model.TrackResult, resegmented map[string][]model.Segment) (string, error) {
	if track.TempChunkPath != "" {
		if _, err := os.Stat(track.TempChunkPath); err == nil {
			return track.TempChunkPath, nil
		}
	}

	segments, ok := resegmented[track.OriginalFile]
	if !ok {
		a.Progress.Emit(progress.LevelInfo,
			fmt.Sprintf("Staged audio for %s is gone, re-segmenting", filepath.Base(track.OriginalFile)))
		src := model.AudioSource{Path: track.OriginalFile, FileNum: track.FileNum}
		var err error
		segments, err = a.Segmenter.Split(ctx, src, a.Store.StagingDir())
		if err != nil {
			return "", fmt.Errorf("re-segment %s: %w", filepath.Base(track.OriginalFile), err)
		}
		resegmented[track.OriginalFile] = segments
	}

	for _, seg := range segments {
		if seg.Index == track.ChunkIndex {
			return seg.Path, nil
		}
	}
	a.Progress.Emit(progress.LevelWarning, fmt.Sprintf(
		"%s changed since preview: chunk %d no longer exists, skipping track",
		filepath.Base(track.OriginalFile), track.ChunkIndex))
	return "", nil
}

// place moves one chunk into the library and updates the summary.
func (a *Applier) place(track model.TrackResult, chunk string, cache *artwork.Cache, summary *Summary) {
	if track.Status == model.StatusUnidentified {
		_, err := a.Organizer.PlaceUnidentified(chunk, track.UnidentifiedFilename)
		switch {
		case os.IsExist(err):
			summary.Skipped++
		case err != nil:
			a.Progress.Emit(progress.LevelWarning, err.Error())
			summary.Failed++
		default:
			summary.Unidentified++
		}
		return
	}

	meta := library.Metadata{
		Artist: track.Artist,
		Title:  track.Title,
		Album:  track.Album,
	}
	if track.Enhanced != nil {
		meta.Date = track.Enhanced.ReleaseDate
		meta.Label = track.Enhanced.Label
		meta.ISRC = track.Enhanced.ISRC
		meta.Genres = track.Enhanced.Genres
	}
	var cover []byte
	if track.ArtURL != "" {
		cover, _ = cache.Get(track.ArtURL)
	}

	dest, err := a.Organizer.PlaceIdentified(chunk, meta, cover)
	switch {
	case os.IsExist(err):
		summary.Skipped++
	case err != nil:
		a.Progress.Emit(progress.LevelWarning, err.Error())
		summary.Failed++
	default:
		summary.Written++
		a.Progress.Emit(progress.LevelInfo, fmt.Sprintf("Wrote %s", filepath.Base(dest)))
	}
}
