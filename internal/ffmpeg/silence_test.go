package ffmpeg

import (
	"testing"
	"time"
)

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func TestParseSilences(t *testing.T) {
	output := `
[silencedetect @ 0x5591] silence_start: 181.463
[silencedetect @ 0x5591] silence_end: 185.2 | silence_duration: 3.737
[silencedetect @ 0x5591] silence_start: 362.01
[silencedetect @ 0x5591] silence_end: 365.5 | silence_duration: 3.49
size=N/A time=00:10:00.00 bitrate=N/A speed= 512x
`
	silences := parseSilences(output, sec(600))
	if len(silences) != 2 {
		t.Fatalf("got %d silences, want 2", len(silences))
	}
	if silences[0].start != sec(181.463) || silences[0].end != sec(185.2) {
		t.Errorf("first silence = %v..%v", silences[0].start, silences[0].end)
	}
}

func TestParseSilences_TrailingSilenceClosedAtTotal(t *testing.T) {
	output := `
[silencedetect @ 0x1] silence_start: 10.0
[silencedetect @ 0x1] silence_end: 12.0 | silence_duration: 2.0
[silencedetect @ 0x1] silence_start: 55.0
`
	silences := parseSilences(output, sec(60))
	if len(silences) != 2 {
		t.Fatalf("got %d silences, want 2", len(silences))
	}
	if silences[1].end != sec(60) {
		t.Errorf("trailing silence end = %v, want 60s", silences[1].end)
	}
}

func TestParseSilences_Empty(t *testing.T) {
	if got := parseSilences("no matches here", sec(60)); len(got) != 0 {
		t.Errorf("got %d silences, want 0", len(got))
	}
}

func TestSplitRanges(t *testing.T) {
	silences := []silence{
		{start: sec(100), end: sec(104)},
		{start: sec(200), end: sec(203)},
	}
	keep := 200 * time.Millisecond

	ranges := splitRanges(silences, sec(300), keep)
	if len(ranges) != 3 {
		t.Fatalf("got %d ranges, want 3", len(ranges))
	}

	want := [][2]time.Duration{
		{0, sec(100) + keep},
		{sec(104) - keep, sec(200) + keep},
		{sec(203) - keep, sec(300)},
	}
	for i, r := range ranges {
		if r != want[i] {
			t.Errorf("range %d = %v..%v, want %v..%v", i, r[0], r[1], want[i][0], want[i][1])
		}
	}
}

func TestSplitRanges_NoSilences(t *testing.T) {
	ranges := splitRanges(nil, sec(120), 200*time.Millisecond)
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if ranges[0] != [2]time.Duration{0, sec(120)} {
		t.Errorf("range = %v..%v, want whole recording", ranges[0][0], ranges[0][1])
	}
}

func TestSplitRanges_Deterministic(t *testing.T) {
	silences := []silence{
		{start: sec(90.123), end: sec(93.456)},
		{start: sec(180.789), end: sec(184.012)},
	}
	a := splitRanges(silences, sec(400), 200*time.Millisecond)
	b := splitRanges(silences, sec(400), 200*time.Millisecond)
	if len(a) != len(b) {
		t.Fatal("lengths differ between identical runs")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("range %d differs between identical runs", i)
		}
	}
}

func TestSplitRanges_LeadingSilence(t *testing.T) {
	// Silence at the very start must not produce an empty leading range.
	silences := []silence{{start: 0, end: sec(5)}}
	keep := 200 * time.Millisecond

	ranges := splitRanges(silences, sec(60), keep)
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}
	if ranges[0][1] != keep {
		t.Errorf("leading pad range end = %v, want %v", ranges[0][1], keep)
	}
}
