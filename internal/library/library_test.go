package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/bogem/id3v2"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanExisting(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Daft Punk", "Daft Punk - One More Time.flac"))
	touch(t, filepath.Join(root, "Daft Punk", "folder.jpg"))
	touch(t, filepath.Join(root, "Moderat", "Moderat - A New Error.flac"))
	touch(t, filepath.Join(root, "Moderat", "Moderat - Bad Kingdom.mp3"))
	// Placeholders and loose files don't count as claims.
	touch(t, filepath.Join(root, "Moderat", "File2_Track_1_Unidentified.flac"))
	touch(t, filepath.Join(root, "stray.flac"))

	names, err := ScanExisting(root)
	if err != nil {
		t.Fatalf("ScanExisting() error = %v", err)
	}
	sort.Strings(names)
	want := []string{"Daft Punk - One More Time.flac", "Moderat - A New Error.flac", "Moderat - Bad Kingdom.mp3"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestScanExistingMissingRoot(t *testing.T) {
	names, err := ScanExisting(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ScanExisting() error = %v", err)
	}
	if names != nil {
		t.Errorf("got %v, want nil for missing root", names)
	}
}

func TestOrganizerDestPath(t *testing.T) {
	o := NewOrganizer("/lib", 1000, nil)
	got := o.DestPath("/tmp/chunk_1_0.flac", "AC/DC", "Thunderstruck")
	want := filepath.Join("/lib", "AC_DC", "AC_DC - Thunderstruck.flac")
	if got != want {
		t.Errorf("DestPath() = %q, want %q", got, want)
	}
	// The extension follows the chunk, so MP3 chunks land as MP3.
	got = o.DestPath("/tmp/chunk_1_0.mp3", "Moderat", "Bad Kingdom")
	want = filepath.Join("/lib", "Moderat", "Moderat - Bad Kingdom.mp3")
	if got != want {
		t.Errorf("DestPath() = %q, want %q", got, want)
	}
}

func TestTagMP3RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk_1_0.mp3")
	if err := os.WriteFile(path, []byte("mpegframes"), 0o644); err != nil {
		t.Fatal(err)
	}

	meta := Metadata{
		Artist: "Moderat",
		Title:  "Bad Kingdom",
		Album:  "II",
		Date:   "2013-08-02",
		Label:  "Monkeytown",
		ISRC:   "DEP361300123",
		Genres: []string{"Electronic"},
	}
	if err := Tag(path, meta, []byte("jpegdata")); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()
	if tag.Artist() != "Moderat" || tag.Title() != "Bad Kingdom" || tag.Album() != "II" {
		t.Errorf("tag = %q / %q / %q", tag.Artist(), tag.Title(), tag.Album())
	}
	if tag.Genre() != "Electronic" {
		t.Errorf("genre = %q", tag.Genre())
	}
	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pics) != 1 {
		t.Fatalf("got %d picture frames, want 1", len(pics))
	}
	pic, ok := pics[0].(id3v2.PictureFrame)
	if !ok || string(pic.Picture) != "jpegdata" {
		t.Errorf("picture frame = %#v", pics[0])
	}
}

func TestPlaceIdentified(t *testing.T) {
	root := t.TempDir()
	work := t.TempDir()
	o := NewOrganizer(root, 1000, nil)

	chunk := filepath.Join(work, "chunk_1_0.flac")
	touch(t, chunk)

	// Plain bytes are not a FLAC stream, so tagging degrades to a warning
	// and the audio still lands in place.
	dest, err := o.PlaceIdentified(chunk, Metadata{Artist: "A", Title: "B"}, nil)
	if err != nil {
		t.Fatalf("PlaceIdentified() error = %v", err)
	}
	if want := filepath.Join(root, "A", "A - B.flac"); dest != want {
		t.Errorf("dest = %q, want %q", dest, want)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("destination missing: %v", err)
	}
	if _, err := os.Stat(chunk); !os.IsNotExist(err) {
		t.Error("chunk not moved out of work dir")
	}

	// A second chunk for the same track is rejected.
	chunk2 := filepath.Join(work, "chunk_1_1.flac")
	touch(t, chunk2)
	if _, err := o.PlaceIdentified(chunk2, Metadata{Artist: "A", Title: "B"}, nil); !os.IsExist(err) {
		t.Errorf("duplicate PlaceIdentified() error = %v, want ErrExist", err)
	}
}

func TestPlaceUnidentified(t *testing.T) {
	root := t.TempDir()
	chunk := filepath.Join(t.TempDir(), "chunk_3_1.flac")
	touch(t, chunk)

	o := NewOrganizer(root, 1000, nil)
	dest, err := o.PlaceUnidentified(chunk, "File3_Track_2_Unidentified.flac")
	if err != nil {
		t.Fatalf("PlaceUnidentified() error = %v", err)
	}
	if want := filepath.Join(root, "File3_Track_2_Unidentified.flac"); dest != want {
		t.Errorf("dest = %q, want %q", dest, want)
	}

	chunk2 := filepath.Join(t.TempDir(), "chunk_3_1.flac")
	touch(t, chunk2)
	if _, err := o.PlaceUnidentified(chunk2, "File3_Track_2_Unidentified.flac"); !os.IsExist(err) {
		t.Errorf("duplicate PlaceUnidentified() error = %v, want ErrExist", err)
	}
}

func TestCreatePlaylist(t *testing.T) {
	root := filepath.Join("/lib")
	entries := []PlaylistEntry{
		{Path: filepath.Join(root, "A", "A - B.flac"), Artist: "A", Title: "B", Duration: 3 * time.Minute},
		{Path: filepath.Join(root, "C", "C - D.flac"), Artist: "C", Title: "D", Duration: 95 * time.Second},
	}

	content := CreatePlaylist(root, entries)
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	want := []string{
		"#EXTM3U",
		"#EXTINF:180,A - B",
		"A/A - B.flac",
		"#EXTINF:95,C - D",
		"C/C - D.flac",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), content)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
