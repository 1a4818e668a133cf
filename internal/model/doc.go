// Package model defines the core data structures used throughout MixSplitR.
//
// # AudioSource
//
// AudioSource describes one long-form recording found in the input directory,
// along with its estimated decompressed memory footprint:
//
//	src := model.NewAudioSource("/mixes/set.mp3", 120<<20)
//	fmt.Println(src.EstimatedRAMBytes()) // size x format multiplier
//
// # Segment
//
// Segment is one track-candidate chunk produced by silence-splitting an
// AudioSource. Its Index is the position within that source's segmentation
// and is the only linkage that survives a preview/apply boundary when the
// staged audio has been removed.
//
// # TrackResult
//
// TrackResult is the outcome of running one Segment through the
// identification pipeline. Status is a tagged field: identified,
// unidentified, or skipped (with a reason).
//
// # Canonical filenames
//
// CanonicalFileName derives the deterministic output name for an identified
// track from its artist and title:
//
//	model.CanonicalFileName("AC/DC", "T.N.T.", ".flac") // "AC_DC - T.N.T.flac"
//
// The derivation is pure and idempotent; it is the key for cross-run and
// cross-worker deduplication.
package model
