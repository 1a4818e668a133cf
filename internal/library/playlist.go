package library

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// PlaylistEntry is one track in a run playlist.
type PlaylistEntry struct {
	Path     string // absolute or library-relative path to the audio file
	Artist   string
	Title    string
	Duration time.Duration
}

// PlaylistName derives the filename of the playlist for a run started at t.
func PlaylistName(t time.Time) string {
	return "MixSplitR_" + t.Format("2006-01-02_150405") + ".m3u"
}

// CreatePlaylist renders an extended M3U playlist of the tracks written in a
// run. Paths are made relative to the library root so the playlist survives
// moving the library around.
func CreatePlaylist(root string, entries []PlaylistEntry) string {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", int(e.Duration.Seconds()), e.Artist, e.Title))
		path := e.Path
		if rel, err := filepath.Rel(root, e.Path); err == nil && !strings.HasPrefix(rel, "..") {
			path = filepath.ToSlash(rel)
		}
		sb.WriteString(path + "\n")
	}

	return sb.String()
}
