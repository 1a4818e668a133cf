package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chefkjd/MixSplitR/internal/model"
)

// Config holds the segmentation parameters.
type Config struct {
	// MinSilence is the minimum silent gap treated as a track boundary.
	MinSilence time.Duration

	// ThresholdDB is the silence threshold in dBFS.
	ThresholdDB float64

	// KeepSilence pads each segment with this much of the surrounding
	// silence so fades are preserved.
	KeepSilence time.Duration

	// SingleTrackMax is the duration under which a source is treated as a
	// single track and never split.
	SingleTrackMax time.Duration
}

// Splitter segments recordings by detecting silent gaps with ffmpeg.
type Splitter struct {
	ffmpeg  string
	ffprobe string
	cfg     Config
}

// NewSplitter locates the ffmpeg and ffprobe binaries on PATH.
func NewSplitter(cfg Config) (*Splitter, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found on PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found on PATH: %w", err)
	}
	return &Splitter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, cfg: cfg}, nil
}

// Duration probes the recording length.
func (s *Splitter) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, s.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", filepath.Base(path), err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: bad duration %q", filepath.Base(path), out)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Split segments the source into track candidates, exporting each as a
// chunk file under workDir in the format chunkFormat picks for the source.
// Sources shorter than SingleTrackMax become a single segment covering the
// whole recording.
//
// The returned segment indices are stable across repeated calls for the
// same input and parameters.
func (s *Splitter) Split(ctx context.Context, src model.AudioSource, workDir string) ([]model.Segment, error) {
	total, err := s.Duration(ctx, src.Path)
	if err != nil {
		return nil, err
	}

	var ranges [][2]time.Duration
	if total < s.cfg.SingleTrackMax {
		ranges = [][2]time.Duration{{0, total}}
	} else {
		silences, err := s.detectSilences(ctx, src.Path, total)
		if err != nil {
			return nil, err
		}
		ranges = splitRanges(silences, total, s.cfg.KeepSilence)
	}

	ext, codec := chunkFormat(src.Path)
	segments := make([]model.Segment, 0, len(ranges))
	for idx, r := range ranges {
		outPath := filepath.Join(workDir, fmt.Sprintf("chunk_%d_%d%s", src.FileNum, idx, ext))
		if err := s.extract(ctx, src.Path, r[0], r[1]-r[0], outPath, codec); err != nil {
			return nil, fmt.Errorf("extract segment %d of %s: %w", idx, src.Base(), err)
		}

		var size int64
		if info, err := os.Stat(outPath); err == nil {
			size = info.Size()
		}
		segments = append(segments, model.Segment{
			SourcePath: src.Path,
			FileNum:    src.FileNum,
			Index:      idx,
			Start:      r[0],
			End:        r[1],
			Path:       outPath,
			SizeBytes:  size,
		})
	}
	return segments, nil
}

// ExtractSample writes a fixed-length WAV window centered at the segment's
// temporal midpoint, clamped to the segment bounds. The window caps the
// recognition call payload regardless of segment length.
func (s *Splitter) ExtractSample(ctx context.Context, seg model.Segment, window time.Duration, outPath string) error {
	// Offset within the chunk file, whose timeline starts at zero.
	offset := seg.Midpoint() - window/2
	if offset < 0 {
		offset = 0
	}
	cmd := exec.CommandContext(ctx, s.ffmpeg,
		"-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(offset),
		"-i", seg.Path,
		"-t", formatSeconds(window),
		"-ac", "2", "-ar", "44100",
		"-c:a", "pcm_s16le",
		"-y", outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg sample: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// detectSilences runs the silencedetect filter and parses its report from
// stderr.
func (s *Splitter) detectSilences(ctx context.Context, path string, total time.Duration) ([]silence, error) {
	filter := fmt.Sprintf("silencedetect=noise=%gdB:d=%g",
		s.cfg.ThresholdDB, s.cfg.MinSilence.Seconds())

	cmd := exec.CommandContext(ctx, s.ffmpeg,
		"-hide_banner", "-nostats",
		"-i", path,
		"-af", filter,
		"-f", "null", "-",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg silencedetect: %w", err)
	}
	return parseSilences(stderr.String(), total), nil
}

// chunkFormat decides the container and codec for a source's chunks. MP3
// sources are cut with stream copy so their chunks stay MP3; everything
// else is re-encoded to lossless FLAC.
func chunkFormat(srcPath string) (ext, codec string) {
	if strings.EqualFold(filepath.Ext(srcPath), ".mp3") {
		return ".mp3", "copy"
	}
	return ".flac", "flac"
}

// extract cuts [start, start+dur) out of src and encodes it with codec.
func (s *Splitter) extract(ctx context.Context, src string, start, dur time.Duration, outPath, codec string) error {
	cmd := exec.CommandContext(ctx, s.ffmpeg,
		"-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(start),
		"-i", src,
		"-t", formatSeconds(dur),
		"-c:a", codec,
		"-y", outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
