package ffmpeg

import (
	"regexp"
	"strconv"
	"time"
)

// silence is one detected silent interval within a recording.
type silence struct {
	start time.Duration
	end   time.Duration
}

var (
	silenceStartRe = regexp.MustCompile(`silence_start:\s*(-?\d+(?:\.\d+)?)`)
	silenceEndRe   = regexp.MustCompile(`silence_end:\s*(-?\d+(?:\.\d+)?)`)
)

// parseSilences extracts silence intervals from ffmpeg silencedetect output.
// A trailing silence_start without a matching silence_end means the
// recording ends in silence; the interval is closed at total.
func parseSilences(output string, total time.Duration) []silence {
	starts := silenceStartRe.FindAllStringSubmatch(output, -1)
	ends := silenceEndRe.FindAllStringSubmatch(output, -1)

	var silences []silence
	for i, m := range starts {
		start := secondsToDuration(m[1])
		end := total
		if i < len(ends) {
			end = secondsToDuration(ends[i][1])
		}
		if end < start {
			continue
		}
		silences = append(silences, silence{start: start, end: end})
	}
	return silences
}

func secondsToDuration(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

// splitRanges converts silence intervals into track ranges, padding each
// track with keep on both sides so fades are not clipped. Ranges shorter
// than keep itself collapse and are dropped.
func splitRanges(silences []silence, total, keep time.Duration) [][2]time.Duration {
	var ranges [][2]time.Duration
	segStart := time.Duration(0)

	for _, sil := range silences {
		segEnd := sil.start + keep
		if segEnd > total {
			segEnd = total
		}
		if segEnd > segStart {
			ranges = append(ranges, [2]time.Duration{segStart, segEnd})
		}
		segStart = sil.end - keep
		if segStart < 0 {
			segStart = 0
		}
	}

	if total > segStart {
		ranges = append(ranges, [2]time.Duration{segStart, total})
	}
	return ranges
}
