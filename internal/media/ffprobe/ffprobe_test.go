package ffprobe_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"lutforge/internal/media/ffprobe"
)

const sampleJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 3840,
      "height": 2160,
      "avg_frame_rate": "30000/1001",
      "nb_frames": "7192"
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "sample_rate": "48000",
      "channels": 2
    }
  ],
  "format": {
    "filename": "clip.mov",
    "nb_streams": 2,
    "duration": "240.016000",
    "size": "1073741824",
    "bit_rate": "35791394",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2"
  }
}`

func stubProbe(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires POSIX sh")
	}
	dir := t.TempDir()
	payload := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(payload, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	script := filepath.Join(dir, "ffprobe")
	content := "#!/bin/sh\ncat " + payload + "\n"
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return script
}

func TestInspectParsesStubOutput(t *testing.T) {
	binary := stubProbe(t)

	result, err := ffprobe.Inspect(context.Background(), binary, "clip.mov")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	video, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected video stream")
	}
	if video.Width != 3840 || video.Height != 2160 {
		t.Fatalf("video dimensions: got %dx%d", video.Width, video.Height)
	}
	if got := video.FrameRate(); got < 29.96 || got > 29.98 {
		t.Fatalf("frame rate: got %v want ~29.97", got)
	}
	if got := video.FrameCount(); got != 7192 {
		t.Fatalf("frame count: got %d want 7192", got)
	}
	if result.AudioStreamCount() != 1 || result.VideoStreamCount() != 1 {
		t.Fatalf("stream counts: %d video %d audio", result.VideoStreamCount(), result.AudioStreamCount())
	}
	if got := result.DurationSeconds(); got < 240 || got > 240.1 {
		t.Fatalf("duration: got %v", got)
	}
	if result.SizeBytes() != 1073741824 {
		t.Fatalf("size: got %d", result.SizeBytes())
	}
	if len(result.RawJSON()) == 0 {
		t.Fatal("expected raw JSON payload")
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := ffprobe.Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFrameRateParsing(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"25", 25},
		{"0/0", 0},
		{"", 0},
		{"24000/0", 0},
	}
	for _, tc := range cases {
		s := ffprobe.Stream{AvgFrameRate: tc.in}
		if got := s.FrameRate(); got != tc.want {
			t.Fatalf("FrameRate(%q): got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestFrameCountParsing(t *testing.T) {
	if got := (ffprobe.Stream{NBFrames: "120"}).FrameCount(); got != 120 {
		t.Fatalf("frame count: got %d want 120", got)
	}
	if got := (ffprobe.Stream{NBFrames: "N/A"}).FrameCount(); got != 0 {
		t.Fatalf("frame count for N/A: got %d want 0", got)
	}
	if got := (ffprobe.Stream{}).FrameCount(); got != 0 {
		t.Fatalf("frame count for empty: got %d want 0", got)
	}
}
