package model

import (
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the input formats the splitter accepts.
var SupportedExtensions = []string{
	".wav", ".flac", ".mp3", ".m4a", ".ogg", ".aac", ".wma", ".aiff", ".opus",
}

// AudioSource represents a single input recording.
//
// SizeBytes is the on-disk size; the decompressed footprint used by the
// batch partitioner is derived from it via a per-format multiplier, since
// lossy formats expand roughly tenfold when decoded to PCM while lossless
// formats stay close to their stored size.
type AudioSource struct {
	// Path is the absolute path of the input file.
	Path string

	// FileNum is the 1-based position of this source across the whole run.
	// It is part of the placeholder name for unidentified tracks and of
	// staged chunk filenames.
	FileNum int

	// SizeBytes is the file size on disk.
	SizeBytes int64
}

// NewAudioSource creates an AudioSource for the given path and size.
func NewAudioSource(path string, sizeBytes int64) AudioSource {
	return AudioSource{Path: path, SizeBytes: sizeBytes}
}

// Ext returns the lowercase file extension, including the dot.
func (s AudioSource) Ext() string {
	return strings.ToLower(filepath.Ext(s.Path))
}

// Base returns the file name without directory.
func (s AudioSource) Base() string {
	return filepath.Base(s.Path)
}

// ramMultiplier returns the decompression multiplier for the source format.
// Unknown extensions get the conservative lossy multiplier so the estimate
// never understates real usage.
func (s AudioSource) ramMultiplier() float64 {
	switch s.Ext() {
	case ".wav", ".flac":
		return 1.2
	case ".aiff":
		return 1.1
	case ".m4a", ".aac", ".wma":
		return 8
	case ".mp3", ".ogg", ".opus":
		return 10
	default:
		return 10
	}
}

// EstimatedRAMBytes returns the estimated decompressed memory footprint of
// this source when fully decoded.
func (s AudioSource) EstimatedRAMBytes() int64 {
	return int64(float64(s.SizeBytes) * s.ramMultiplier())
}

// IsSupported reports whether the path has a supported audio extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
