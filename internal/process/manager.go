// Package process coordinates a full run: discovering sources, partitioning
// them into RAM-bounded batches, segmenting, identifying, fetching artwork,
// and either writing the library directly or saving a preview session.
package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chefkjd/MixSplitR/internal/acoustid"
	"github.com/chefkjd/MixSplitR/internal/acrcloud"
	"github.com/chefkjd/MixSplitR/internal/artwork"
	"github.com/chefkjd/MixSplitR/internal/batch"
	"github.com/chefkjd/MixSplitR/internal/config"
	"github.com/chefkjd/MixSplitR/internal/ffmpeg"
	internalhttp "github.com/chefkjd/MixSplitR/internal/http"
	"github.com/chefkjd/MixSplitR/internal/itunes"
	"github.com/chefkjd/MixSplitR/internal/library"
	"github.com/chefkjd/MixSplitR/internal/model"
	"github.com/chefkjd/MixSplitR/internal/musicbrainz"
	"github.com/chefkjd/MixSplitR/internal/pipeline"
	"github.com/chefkjd/MixSplitR/internal/progress"
	"github.com/chefkjd/MixSplitR/internal/session"
)

// Summary aggregates what a run produced.
type Summary struct {
	Sources      int
	Segments     int
	Identified   int
	Unidentified int
	Skipped      int
	Failed       int
	Preview      bool

	// BySource counts identified tracks per provider.
	BySource map[string]int
	// Enriched counts identified tracks whose metadata lookup found more.
	Enriched int
	// APICalls is the number of identification requests the run issued.
	APICalls int
}

// SourceBreakdown renders BySource as "acrcloud 3, acoustid 1", providers
// sorted by name. Empty when nothing was identified.
func (s *Summary) SourceBreakdown() string {
	keys := make([]string, 0, len(s.BySource))
	for k := range s.BySource {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, s.BySource[k]))
	}
	return strings.Join(parts, ", ")
}

// Manager coordinates mix processing runs.
type Manager struct {
	settings  *config.Settings
	workDir   string
	splitter  *ffmpeg.Splitter
	pipe      *pipeline.Pipeline
	claims    *pipeline.ClaimSet
	cache     *artwork.Cache
	fetcher   *artwork.Fetcher
	organizer *library.Organizer
	store     *session.Store

	totalSegments atomic.Int32
	doneSegments  atomic.Int32

	onProgress progress.Func
}

// NewManager wires up a manager for the given working directory. It fails
// when ffmpeg/ffprobe are missing; a missing fpcalc only disables the
// AcoustID fallback.
func NewManager(settings *config.Settings, workDir string, onProgress progress.Func) (*Manager, error) {
	splitter, err := ffmpeg.NewSplitter(ffmpeg.Config{
		MinSilence:     time.Duration(settings.MinSilenceMS) * time.Millisecond,
		ThresholdDB:    settings.SilenceThresholdDB,
		KeepSilence:    time.Duration(settings.KeepSilenceMS) * time.Millisecond,
		SingleTrackMax: time.Duration(settings.SingleTrackMaxMinutes * float64(time.Minute)),
	})
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(settings.TimeoutSeconds) * time.Second
	httpClient := internalhttp.NewClient(timeout)

	primary := &pipeline.ACRCloudIdentifier{
		Client: acrcloud.NewClient(settings.ACRHost, settings.ACRAccessKey, settings.ACRSecret, timeout),
	}
	var fallback pipeline.Identifier
	if settings.AcoustIDKey != "" {
		client, err := acoustid.NewClient(settings.AcoustIDKey, httpClient)
		if err != nil {
			onProgress.Emit(progress.LevelWarning, fmt.Sprintf("AcoustID fallback disabled: %v", err))
		} else {
			fallback = &pipeline.AcoustIDIdentifier{Client: client}
		}
	}

	claims := pipeline.NewClaimSet()
	m := &Manager{
		settings:   settings,
		workDir:    workDir,
		splitter:   splitter,
		claims:     claims,
		cache:      artwork.NewCache(),
		fetcher:    artwork.NewFetcher(httpClient, settings.ArtworkWorkers),
		organizer:  library.NewOrganizer(filepath.Join(workDir, settings.OutputFolderName), settings.CoverArtMaxSize, onProgress),
		store:      session.NewStore(workDir),
		onProgress: onProgress,
	}
	m.pipe = &pipeline.Pipeline{
		Primary:      primary,
		Fallback:     fallback,
		Limiter:      pipeline.NewRateLimiter(time.Duration(settings.RateIntervalSeconds * float64(time.Second))),
		Claims:       claims,
		Enricher:     musicbrainz.NewClient(httpClient),
		Artwork:      itunes.NewClient(httpClient),
		Sampler:      splitter,
		MinDuration:  time.Duration(settings.MinTrackSeconds) * time.Second,
		SampleWindow: time.Duration(settings.SampleWindowSeconds) * time.Second,
		Workers:      settings.IdentifyWorkers,
		Progress:     onProgress,
		OnResult:     func(model.TrackResult) { m.doneSegments.Add(1) },
	}
	return m, nil
}

// SegmentProgress returns how many segments of the current run have been
// through identification, against the total segmented so far.
func (m *Manager) SegmentProgress() (done, total int32) {
	return m.doneSegments.Load(), m.totalSegments.Load()
}

// DiscoverSources lists supported audio files directly inside the working
// directory, ordered by name, numbered from 1.
func (m *Manager) DiscoverSources() ([]model.AudioSource, error) {
	entries, err := os.ReadDir(m.workDir)
	if err != nil {
		return nil, err
	}

	var sources []model.AudioSource
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !model.IsSupported(entry.Name()) {
			continue
		}
		src := model.AudioSource{Path: filepath.Join(m.workDir, entry.Name())}
		if info, err := entry.Info(); err == nil {
			src.SizeBytes = info.Size()
		}
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	for i := range sources {
		sources[i].FileNum = i + 1
	}
	return sources, nil
}

// Run executes a full processing pass. With preview set, results and staged
// audio are saved as a session instead of being written to the library.
func (m *Manager) Run(ctx context.Context, preview bool) (*Summary, error) {
	sources, err := m.DiscoverSources()
	if err != nil {
		return nil, err
	}
	summary := &Summary{Sources: len(sources), Preview: preview}
	if len(sources) == 0 {
		m.onProgress.Emit(progress.LevelWarning, "No supported audio files found")
		return summary, nil
	}
	m.onProgress.Emit(progress.LevelInfo, fmt.Sprintf("Found %d source file(s)", len(sources)))

	existing, err := library.ScanExisting(m.organizer.Root())
	if err != nil {
		return nil, fmt.Errorf("scan library: %w", err)
	}
	m.claims.Seed(existing)
	if len(existing) > 0 {
		m.onProgress.Emit(progress.LevelVerbose,
			fmt.Sprintf("Library holds %d track(s) that won't be duplicated", len(existing)))
	}

	budget, ok := batch.AvailableBudget(m.settings.RAMFraction, m.settings.MinRAMGB)
	if !ok {
		m.onProgress.Emit(progress.LevelWarning,
			"Cannot determine available RAM, processing one file at a time")
	}
	batches := batch.Partition(sources, budget)
	m.onProgress.Emit(progress.LevelInfo, fmt.Sprintf("Processing in %d batch(es)", len(batches)))

	var sessionTracks []model.TrackResult
	var playlist []library.PlaylistEntry

	for i, b := range batches {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		m.onProgress.Emit(progress.LevelInfo,
			fmt.Sprintf("Batch %d/%d: %d file(s)", i+1, len(batches), len(b.Sources)))

		// Preview chunks go straight into the staging directory so they
		// survive until apply; direct-mode chunks live in a throwaway dir
		// that must outlast finalize.
		chunkDir := m.store.StagingDir()
		if preview {
			if err := os.MkdirAll(chunkDir, 0o755); err != nil {
				return summary, err
			}
		} else {
			dir, err := os.MkdirTemp("", "mixsplit")
			if err != nil {
				return summary, err
			}
			chunkDir = dir
		}

		results, segments, err := m.runBatch(ctx, b, chunkDir, summary)
		if err != nil {
			if !preview {
				os.RemoveAll(chunkDir)
			}
			return summary, err
		}

		if preview {
			tallyResults(results, summary)
			sessionTracks = append(sessionTracks, results...)
			continue
		}
		playlist = append(playlist, m.finalize(results, segments, summary)...)
		os.RemoveAll(chunkDir)
	}

	summary.APICalls = m.pipe.APICalls()

	if preview {
		sess := &session.Session{
			Tracks:       sessionTracks,
			OutputFolder: m.organizer.Root(),
			ArtworkCache: m.cache.Snapshot(),
		}
		if err := m.store.Save(sess); err != nil {
			return summary, fmt.Errorf("save session: %w", err)
		}
		breakdown := summary.SourceBreakdown()
		if breakdown == "" {
			breakdown = "none"
		}
		m.onProgress.Emit(progress.LevelInfo, fmt.Sprintf(
			"Preview: %d identified (%s), %d enriched, %d unidentified, %d skipped, %d API call(s)",
			summary.Identified, breakdown, summary.Enriched,
			summary.Unidentified, summary.Skipped, summary.APICalls))
		m.onProgress.Emit(progress.LevelSuccess,
			fmt.Sprintf("Preview saved: %d track(s) pending. Run apply to write them.", len(sessionTracks)))
		return summary, nil
	}

	if m.settings.CreatePlaylist && len(playlist) > 0 {
		m.writePlaylist(playlist)
	}
	m.onProgress.Emit(progress.LevelSuccess, fmt.Sprintf(
		"Done: %d identified, %d unidentified, %d skipped, %d failed",
		summary.Identified, summary.Unidentified, summary.Skipped, summary.Failed))
	return summary, nil
}

// runBatch segments every source in the batch into chunkDir and runs
// identification over the combined segment list.
func (m *Manager) runBatch(ctx context.Context, b batch.Batch, chunkDir string, summary *Summary) ([]model.TrackResult, []model.Segment, error) {
	var segments []model.Segment
	for _, src := range b.Sources {
		m.onProgress.Emit(progress.LevelInfo, fmt.Sprintf("Segmenting %s", src.Base()))
		segs, err := m.splitter.Split(ctx, src, chunkDir)
		if err != nil {
			m.onProgress.Emit(progress.LevelError, fmt.Sprintf("Could not segment %s: %v", src.Base(), err))
			summary.Failed++
			continue
		}
		m.onProgress.Emit(progress.LevelInfo, fmt.Sprintf("%s: %d segment(s)", src.Base(), len(segs)))
		segments = append(segments, segs...)
	}
	summary.Segments += len(segments)
	m.totalSegments.Add(int32(len(segments)))

	results := m.pipe.Run(ctx, segments)
	m.fetchArtwork(ctx, results)
	return results, segments, nil
}

// fetchArtwork downloads cover art for every identified result in one
// rate-bounded pass so apply and finalize work purely from the cache.
func (m *Manager) fetchArtwork(ctx context.Context, results []model.TrackResult) {
	var urls []string
	for _, r := range results {
		if r.Identified() && r.ArtURL != "" {
			urls = append(urls, r.ArtURL)
		}
	}
	if len(urls) == 0 {
		return
	}
	m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Fetching artwork for %d track(s)", len(urls)))
	m.fetcher.FetchAll(ctx, urls, m.cache)
}

// tallyResults counts a batch's pipeline outcomes into the summary. Preview
// runs use it instead of finalize, which only counts what it places.
func tallyResults(results []model.TrackResult, summary *Summary) {
	for _, r := range results {
		switch r.Status {
		case model.StatusIdentified:
			summary.Identified++
			if summary.BySource == nil {
				summary.BySource = make(map[string]int)
			}
			summary.BySource[r.IdentificationSource]++
			if r.Enhanced != nil {
				summary.Enriched++
			}
		case model.StatusUnidentified:
			summary.Unidentified++
		case model.StatusSkipped:
			summary.Skipped++
		}
	}
}

// finalize writes a batch's results straight into the library and returns
// playlist entries for the tracks that landed.
func (m *Manager) finalize(results []model.TrackResult, segments []model.Segment, summary *Summary) []library.PlaylistEntry {
	var entries []library.PlaylistEntry
	for _, r := range results {
		switch r.Status {
		case model.StatusSkipped:
			summary.Skipped++

		case model.StatusUnidentified:
			_, err := m.organizer.PlaceUnidentified(r.TempChunkPath, r.UnidentifiedFilename)
			switch {
			case os.IsExist(err):
				summary.Skipped++
			case err != nil:
				m.onProgress.Emit(progress.LevelError, err.Error())
				summary.Failed++
			default:
				summary.Unidentified++
			}

		case model.StatusIdentified:
			meta := library.Metadata{Artist: r.Artist, Title: r.Title, Album: r.Album}
			if r.Enhanced != nil {
				meta.Date = r.Enhanced.ReleaseDate
				meta.Label = r.Enhanced.Label
				meta.ISRC = r.Enhanced.ISRC
				meta.Genres = r.Enhanced.Genres
			}
			var cover []byte
			if r.ArtURL != "" {
				cover, _ = m.cache.Get(r.ArtURL)
			}
			dest, err := m.organizer.PlaceIdentified(r.TempChunkPath, meta, cover)
			switch {
			case os.IsExist(err):
				summary.Skipped++
			case err != nil:
				m.onProgress.Emit(progress.LevelError, err.Error())
				summary.Failed++
			default:
				summary.Identified++
				entries = append(entries, library.PlaylistEntry{
					Path:     dest,
					Artist:   r.Artist,
					Title:    r.Title,
					Duration: segmentDuration(segments, r),
				})
			}
		}
	}
	return entries
}

func segmentDuration(segments []model.Segment, r model.TrackResult) time.Duration {
	for _, seg := range segments {
		if seg.FileNum == r.FileNum && seg.Index == r.ChunkIndex {
			return seg.Duration()
		}
	}
	return 0
}

func (m *Manager) writePlaylist(entries []library.PlaylistEntry) {
	root := m.organizer.Root()
	path := filepath.Join(root, library.PlaylistName(time.Now()))
	content := library.CreatePlaylist(root, entries)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		m.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Could not write playlist: %v", err))
		return
	}
	m.onProgress.Emit(progress.LevelSuccess, fmt.Sprintf("Created playlist %s", filepath.Base(path)))
}

// Apply replays a previously saved preview session into the library.
func (m *Manager) Apply(ctx context.Context) (*session.Summary, error) {
	applier := &session.Applier{
		Store:     m.store,
		Organizer: m.organizer,
		Segmenter: m.splitter,
		Progress:  m.onProgress,
	}
	return applier.Apply(ctx)
}

// Cancel discards a pending session and its staged audio.
func (m *Manager) Cancel() error {
	if !m.store.Exists() {
		return session.ErrNoSession
	}
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.onProgress.Emit(progress.LevelSuccess, "Pending session discarded")
	return nil
}

// HasSession reports whether a preview session is waiting to be applied.
func (m *Manager) HasSession() bool {
	return m.store.Exists()
}
