package model

import (
	"testing"
	"time"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons", "file_with_colons"},
		{"file<with>brackets", "file_with_brackets"},
		{"file/with\\slashes", "file_with_slashes"},
		{"file|with|pipes", "file_with_pipes"},
		{"file?with*wildcards", "file_with_wildcards"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName_Idempotent(t *testing.T) {
	inputs := []string{"AC/DC - T.N.T.", "Song: Part 1/2", "plain name"}
	for _, in := range inputs {
		once := SanitizeFileName(in)
		twice := SanitizeFileName(once)
		if once != twice {
			t.Errorf("SanitizeFileName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCanonicalFileName(t *testing.T) {
	tests := []struct {
		artist, title string
		want          string
	}{
		{"A", "B", "A - B.flac"},
		{"AC/DC", "Thunderstruck", "AC_DC - Thunderstruck.flac"},
		{"Artist ", " Title", "Artist - Title.flac"},
	}

	for _, tt := range tests {
		got := CanonicalFileName(tt.artist, tt.title, ".flac")
		if got != tt.want {
			t.Errorf("CanonicalFileName(%q, %q) = %q, want %q", tt.artist, tt.title, got, tt.want)
		}
	}
}

func TestUnidentifiedFileName(t *testing.T) {
	got := UnidentifiedFileName(2, 4, ".flac")
	want := "File2_Track_5_Unidentified.flac"
	if got != want {
		t.Errorf("UnidentifiedFileName(2, 4, .flac) = %q, want %q", got, want)
	}
	if got := UnidentifiedFileName(1, 0, ".mp3"); got != "File1_Track_1_Unidentified.mp3" {
		t.Errorf("UnidentifiedFileName(1, 0, .mp3) = %q", got)
	}
}

func TestAudioSource_EstimatedRAMBytes(t *testing.T) {
	tests := []struct {
		path string
		size int64
		want int64
	}{
		{"/in/set.flac", 1000, 1200},
		{"/in/set.wav", 1000, 1200},
		{"/in/set.aiff", 1000, 1100},
		{"/in/set.m4a", 1000, 8000},
		{"/in/set.mp3", 1000, 10000},
		{"/in/set.xyz", 1000, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			src := NewAudioSource(tt.path, tt.size)
			if got := src.EstimatedRAMBytes(); got != tt.want {
				t.Errorf("EstimatedRAMBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSegment_Midpoint(t *testing.T) {
	seg := Segment{Start: 10 * time.Second, End: 70 * time.Second}
	if seg.Duration() != time.Minute {
		t.Errorf("Duration() = %v, want 1m", seg.Duration())
	}
	if seg.Midpoint() != 30*time.Second {
		t.Errorf("Midpoint() = %v, want 30s", seg.Midpoint())
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("/a/b.FLAC") {
		t.Error("uppercase extension should be supported")
	}
	if IsSupported("/a/b.txt") {
		t.Error("txt should not be supported")
	}
}
