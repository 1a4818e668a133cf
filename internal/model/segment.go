package model

import "time"

// Segment is one track-candidate chunk cut out of an AudioSource.
//
// A Segment always refers to a lossless-encoded file on disk (either in a
// batch working directory or in the session staging area); the pipeline
// never holds decoded audio in memory.
type Segment struct {
	// SourcePath is the original recording this segment was cut from.
	SourcePath string

	// FileNum is the 1-based number of the source across the run.
	FileNum int

	// Index is the 0-based position within the source's segmentation.
	// Re-segmenting the same source with the same parameters must yield
	// the same index for the same audio range.
	Index int

	// Start and End bound the segment within the source recording.
	Start time.Duration
	End   time.Duration

	// Path is the segment's encoded file.
	Path string

	// SizeBytes is the encoded byte length of the segment file.
	SizeBytes int64
}

// Duration returns the segment length.
func (s Segment) Duration() time.Duration {
	return s.End - s.Start
}

// Midpoint returns the temporal midpoint of the segment, relative to the
// segment itself (not the source recording).
func (s Segment) Midpoint() time.Duration {
	return s.Duration() / 2
}
