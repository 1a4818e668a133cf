// Package ffmpeg drives the external ffmpeg/ffprobe binaries for decoding,
// silence-based segmentation, sample extraction, and lossless segment
// export.
//
// The segmentation is deterministic for identical input and parameters:
// silence detection is a pure function of the decoded audio, and segment
// ranges are derived from it with stable arithmetic. Session apply relies on
// this to re-link recorded segment indices after the staged audio has been
// removed.
package ffmpeg
