package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lutforge/internal/transform"
)

func testSettings(output string) EncodeSettings {
	return EncodeSettings{
		Width:            2,
		Height:           2,
		FrameRate:        30,
		Bitrate:          2_000_000,
		CodecProfile:     "main",
		KeyFrameInterval: 30,
		Preset:           "fast",
		OutputPath:       output,
	}
}

func TestEncoderPipesFramesToProcessStdin(t *testing.T) {
	dir := t.TempDir()
	captured := filepath.Join(dir, "captured.raw")
	stubCommand(t, "cat > "+captured)

	e := NewEncoder(testSettings(filepath.Join(dir, "out.mp4")))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		frame := transform.NewFrame(2, 2, 0)
		for j := range frame.Data {
			frame.Data[j] = byte(i)
		}
		if err := e.Write(ctx, frame); err != nil {
			t.Fatalf("Write frame %d: %v", i, err)
		}
	}
	if err := e.Finalize(ctx); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	data, err := os.ReadFile(captured)
	if err != nil {
		t.Fatalf("read captured stdin: %v", err)
	}
	if len(data) != 3*16 {
		t.Fatalf("captured bytes: got %d want 48", len(data))
	}
	if data[0] != 0 || data[16] != 1 || data[32] != 2 {
		t.Fatalf("frame order mismatch in captured stream: % x", data[:3])
	}
}

func TestEncoderRejectsMismatchedFrameSize(t *testing.T) {
	stubCommand(t, "cat > /dev/null")

	e := NewEncoder(testSettings(filepath.Join(t.TempDir(), "out.mp4")))
	frame := transform.NewFrame(4, 4, 0)
	if err := e.Write(context.Background(), frame); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestEncoderFinalizeWithoutFrames(t *testing.T) {
	e := NewEncoder(testSettings(filepath.Join(t.TempDir(), "out.mp4")))
	if err := e.Finalize(context.Background()); err == nil {
		t.Fatal("expected error when no frames were written")
	}
	// Finalize is idempotent after the first call.
	if err := e.Finalize(context.Background()); err != nil {
		t.Fatalf("second Finalize: %v", err)
	}
}

func TestEncoderWriteAfterFinalize(t *testing.T) {
	stubCommand(t, "cat > /dev/null")

	e := NewEncoder(testSettings(filepath.Join(t.TempDir(), "out.mp4")))
	ctx := context.Background()
	if err := e.Write(ctx, transform.NewFrame(2, 2, 0)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := e.Finalize(ctx); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := e.Write(ctx, transform.NewFrame(2, 2, 0)); err == nil {
		t.Fatal("expected error writing after finalize")
	}
}

func TestEncoderSurfacesToolFailureOnFinalize(t *testing.T) {
	stubCommand(t, "cat > /dev/null; echo 'muxing failed' >&2; exit 1")

	e := NewEncoder(testSettings(filepath.Join(t.TempDir(), "out.mp4")))
	ctx := context.Background()
	if err := e.Write(ctx, transform.NewFrame(2, 2, 0)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	err := e.Finalize(ctx)
	if err == nil {
		t.Fatal("expected finalize failure")
	}
	if !strings.Contains(err.Error(), "muxing failed") {
		t.Fatalf("expected stderr tail in error, got %q", err.Error())
	}
}

func TestEncoderRequiresOutputPath(t *testing.T) {
	e := NewEncoder(EncodeSettings{Width: 2, Height: 2, FrameRate: 30})
	if err := e.Write(context.Background(), transform.NewFrame(2, 2, 0)); err == nil {
		t.Fatal("expected error without output path")
	}
}

func TestEncoderArgumentConstruction(t *testing.T) {
	s := testSettings("/out/final.mp4")
	s.AudioSource = "/in/source.mov"
	e := NewEncoder(s)

	args := e.buildArgs()
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-f rawvideo",
		"-pix_fmt rgba",
		"-video_size 2x2",
		"-framerate 30",
		"-i pipe:0",
		"-i /in/source.mov",
		"-map 0:v:0",
		"-map 1:a?",
		"-c:a copy",
		"-c:v libx264",
		"-profile:v main",
		"-preset fast",
		"-b:v 2000000",
		"-g 30",
		"-y /out/final.mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, args)
		}
	}
}
