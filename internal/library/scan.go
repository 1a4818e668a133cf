package library

import (
	"os"
	"path/filepath"
	"strings"
)

// ScanExisting collects the canonical filenames already present in the
// library so re-runs never duplicate them. It walks one level of artist
// directories and keeps .flac and .mp3 files that look like
// "Artist - Title.<ext>"; unidentified placeholders (File* prefix) are not
// deduplication keys.
func ScanExisting(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tracks, err := os.ReadDir(filepath.Join(root, entry.Name()))
		if err != nil {
			continue
		}
		for _, track := range tracks {
			name := track.Name()
			ext := strings.ToLower(filepath.Ext(name))
			if track.IsDir() || (ext != ".flac" && ext != ".mp3") {
				continue
			}
			if !strings.Contains(name, " - ") || strings.HasPrefix(name, "File") {
				continue
			}
			names = append(names, name)
		}
	}
	return names, nil
}
