package process

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chefkjd/MixSplitR/internal/artwork"
	"github.com/chefkjd/MixSplitR/internal/library"
	"github.com/chefkjd/MixSplitR/internal/model"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b_mix.flac"), 10)
	writeFile(t, filepath.Join(dir, "a_mix.mp3"), 20)
	writeFile(t, filepath.Join(dir, "notes.txt"), 5)
	writeFile(t, filepath.Join(dir, "My_Music_Library", "ignored.flac"), 5)

	m := &Manager{workDir: dir}
	sources, err := m.DiscoverSources()
	if err != nil {
		t.Fatalf("DiscoverSources() error = %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2: %+v", len(sources), sources)
	}
	if sources[0].Base() != "a_mix.mp3" || sources[0].FileNum != 1 {
		t.Errorf("sources[0] = %+v, want a_mix.mp3 numbered 1", sources[0])
	}
	if sources[1].Base() != "b_mix.flac" || sources[1].FileNum != 2 {
		t.Errorf("sources[1] = %+v, want b_mix.flac numbered 2", sources[1])
	}
	if sources[1].SizeBytes != 10 {
		t.Errorf("SizeBytes = %d, want 10", sources[1].SizeBytes)
	}
}

func TestFinalize(t *testing.T) {
	work := t.TempDir()
	root := t.TempDir()
	m := &Manager{
		workDir:   work,
		cache:     artwork.NewCache(),
		organizer: library.NewOrganizer(root, 1000, nil),
	}

	chunk := filepath.Join(work, "chunk_1_0.flac")
	writeFile(t, chunk, 8)
	unidChunk := filepath.Join(work, "chunk_1_2.flac")
	writeFile(t, unidChunk, 8)

	segments := []model.Segment{
		{FileNum: 1, Index: 0, Start: 0, End: 3 * time.Minute, Path: chunk},
		{FileNum: 1, Index: 2, Start: 3 * time.Minute, End: 5 * time.Minute, Path: unidChunk},
	}
	results := []model.TrackResult{
		{
			Status: model.StatusIdentified, Index: 0, FileNum: 1,
			Artist: "A", Title: "B", ExpectedFilename: "A - B.flac",
			ChunkIndex: 0, TempChunkPath: chunk,
		},
		{Status: model.StatusSkipped, Reason: model.SkipTooShort, Index: 1, FileNum: 1, ChunkIndex: 1},
		{
			Status: model.StatusUnidentified, Index: 2, FileNum: 1,
			UnidentifiedFilename: "File1_Track_3_Unidentified.flac",
			ChunkIndex:           2, TempChunkPath: unidChunk,
		},
	}

	summary := &Summary{}
	entries := m.finalize(results, segments, summary)

	if summary.Identified != 1 || summary.Unidentified != 1 || summary.Skipped != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(root, "A", "A - B.flac")); err != nil {
		t.Errorf("identified track missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "File1_Track_3_Unidentified.flac")); err != nil {
		t.Errorf("unidentified track missing: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d playlist entries, want 1", len(entries))
	}
	if entries[0].Duration != 3*time.Minute {
		t.Errorf("entry duration = %v, want 3m from the segment", entries[0].Duration)
	}
}

func TestTallyResults(t *testing.T) {
	results := []model.TrackResult{
		{
			Status: model.StatusIdentified, IdentificationSource: model.SourceACRCloud,
			Enhanced: &model.Enrichment{Genres: []string{"House"}},
		},
		{Status: model.StatusIdentified, IdentificationSource: model.SourceACRCloud},
		{Status: model.StatusIdentified, IdentificationSource: model.SourceAcoustID},
		{Status: model.StatusUnidentified},
		{Status: model.StatusSkipped, Reason: model.SkipTooShort},
		{Status: model.StatusSkipped, Reason: model.SkipAlreadyExists},
	}

	summary := &Summary{}
	tallyResults(results, summary)

	if summary.Identified != 3 || summary.Unidentified != 1 || summary.Skipped != 2 {
		t.Errorf("summary = %+v, want 3 identified, 1 unidentified, 2 skipped", summary)
	}
	if summary.Enriched != 1 {
		t.Errorf("Enriched = %d, want 1", summary.Enriched)
	}
	if summary.BySource[model.SourceACRCloud] != 2 || summary.BySource[model.SourceAcoustID] != 1 {
		t.Errorf("BySource = %v", summary.BySource)
	}
	if got := summary.SourceBreakdown(); got != "acoustid 1, acrcloud 2" {
		t.Errorf("SourceBreakdown() = %q", got)
	}
}
