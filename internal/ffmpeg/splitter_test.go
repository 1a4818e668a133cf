package ffmpeg

import "testing"

func TestChunkFormat(t *testing.T) {
	tests := []struct {
		src       string
		wantExt   string
		wantCodec string
	}{
		{"/in/mix.flac", ".flac", "flac"},
		{"/in/mix.wav", ".flac", "flac"},
		{"/in/mix.m4a", ".flac", "flac"},
		{"/in/mix.mp3", ".mp3", "copy"},
		{"/in/mix.MP3", ".mp3", "copy"},
	}
	for _, tt := range tests {
		ext, codec := chunkFormat(tt.src)
		if ext != tt.wantExt || codec != tt.wantCodec {
			t.Errorf("chunkFormat(%q) = (%q, %q), want (%q, %q)",
				tt.src, ext, codec, tt.wantExt, tt.wantCodec)
		}
	}
}
