package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"lutforge/internal/services"
	"lutforge/internal/transform"
)

// EncodeSettings are the fixed encode parameters for one session, resolved
// from the job's quality profile before the session starts.
type EncodeSettings struct {
	Width            int
	Height           int
	FrameRate        float64
	Bitrate          int
	CodecProfile     string
	KeyFrameInterval int
	Preset           string

	// AudioSource, when set, is muxed in with its audio streams copied
	// through untouched.
	AudioSource string
	OutputPath  string
}

// Encoder feeds raw RGBA frames into an ffmpeg encode session. It
// implements the pipeline's frame sink contract.
type Encoder struct {
	binary   string
	settings EncodeSettings

	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    *stderrTail
	finalized bool
	jobID     string
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithEncoderBinary overrides the default ffmpeg binary name.
func WithEncoderBinary(binary string) EncoderOption {
	return func(e *Encoder) {
		if binary != "" {
			e.binary = binary
		}
	}
}

// NewEncoder prepares an encode session. The process is launched lazily on
// the first Write so a failed setup never leaves a stray output file.
func NewEncoder(settings EncodeSettings, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		binary:   "ffmpeg",
		settings: settings,
		stderr:   newStderrTail(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Encoder) start(ctx context.Context) error {
	s := e.settings
	if s.OutputPath == "" {
		return errors.New("output path required")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid frame dimensions %dx%d", s.Width, s.Height)
	}
	if id, ok := services.JobIDFromContext(ctx); ok {
		e.jobID = id
	}
	cmd := commandContext(ctx, e.binary, e.buildArgs()...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	cmd.Stderr = e.stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg encode: %w", err)
	}
	e.cmd = cmd
	e.stdin = stdin
	return nil
}

func (e *Encoder) buildArgs() []string {
	s := e.settings
	frameRate := s.FrameRate
	if frameRate <= 0 {
		frameRate = 30
	}

	args := []string{
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", s.Width, s.Height),
		"-framerate", strconv.FormatFloat(frameRate, 'f', -1, 64),
		"-i", "pipe:0",
	}
	if s.AudioSource != "" {
		args = append(args,
			"-i", s.AudioSource,
			"-map", "0:v:0",
			"-map", "1:a?",
			"-c:a", "copy",
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
	)
	if s.CodecProfile != "" {
		args = append(args, "-profile:v", s.CodecProfile)
	}
	if s.Preset != "" {
		args = append(args, "-preset", s.Preset)
	}
	if s.Bitrate > 0 {
		args = append(args, "-b:v", strconv.Itoa(s.Bitrate))
	}
	if s.KeyFrameInterval > 0 {
		args = append(args, "-g", strconv.Itoa(s.KeyFrameInterval))
	}
	return append(args, "-y", s.OutputPath)
}

// Write appends one frame to the encode session. Frame buffers must match
// the session dimensions.
//
// Timing is reconstructed by the muxer from the session frame rate and
// arrival order; the frame's own timestamp is not forwarded over the raw
// pipe. A frame dropped upstream therefore pulls later frames earlier
// rather than leaving a gap at its position.
func (e *Encoder) Write(ctx context.Context, frame *transform.Frame) error {
	if e.finalized {
		return errors.New("encoder already finalized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.cmd == nil {
		if err := e.start(ctx); err != nil {
			return err
		}
	}
	want := e.settings.Width * e.settings.Height * transform.BytesPerPixel
	if len(frame.Data) != want {
		return fmt.Errorf("frame size %d does not match session %dx%d", len(frame.Data), e.settings.Width, e.settings.Height)
	}
	if _, err := e.stdin.Write(frame.Data); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return e.toolError("append", err)
	}
	return nil
}

// Finalize flushes the session and waits for ffmpeg to write the container
// trailer. Completion requires a clean exit; any other terminal state is an
// error carrying the tool diagnostic.
func (e *Encoder) Finalize(ctx context.Context) error {
	if e.finalized {
		return nil
	}
	e.finalized = true
	if e.cmd == nil {
		return errors.New("no frames were written")
	}
	if e.stdin != nil {
		_ = e.stdin.Close()
	}
	waitErr := e.cmd.Wait()
	e.cmd = nil
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		return e.toolError("finalize", waitErr)
	}
	return nil
}

// OutputPath returns the destination the session writes to.
func (e *Encoder) OutputPath() string {
	return e.settings.OutputPath
}

func (e *Encoder) toolError(operation string, err error) error {
	if e.jobID != "" {
		operation = fmt.Sprintf("%s (job %s)", operation, e.jobID)
	}
	if tail := e.stderr.String(); tail != "" {
		return fmt.Errorf("ffmpeg %s: %w: %s", operation, err, tail)
	}
	return fmt.Errorf("ffmpeg %s: %w", operation, err)
}
