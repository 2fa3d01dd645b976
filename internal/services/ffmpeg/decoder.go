package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"lutforge/internal/services"
	"lutforge/internal/transform"
)

var commandContext = exec.CommandContext

// Decoder streams sequential raw RGBA frames from a video file via ffmpeg.
// It implements the pipeline's frame source contract: Next returns io.EOF
// once the stream is exhausted.
type Decoder struct {
	binary    string
	inputPath string
	width     int
	height    int
	frameRate float64

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *stderrTail
	index  int64
	done   bool
	jobID  string
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDecoderBinary overrides the default ffmpeg binary name.
func WithDecoderBinary(binary string) DecoderOption {
	return func(d *Decoder) {
		if binary != "" {
			d.binary = binary
		}
	}
}

// NewDecoder prepares a decoder for the given source. Width, height, and
// frame rate come from probing the source; the process is launched lazily
// on the first Next call.
func NewDecoder(inputPath string, width, height int, frameRate float64, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		binary:    "ffmpeg",
		inputPath: inputPath,
		width:     width,
		height:    height,
		frameRate: frameRate,
		stderr:    newStderrTail(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decoder) start(ctx context.Context) error {
	if d.inputPath == "" {
		return errors.New("input path required")
	}
	if d.width <= 0 || d.height <= 0 {
		return fmt.Errorf("invalid frame dimensions %dx%d", d.width, d.height)
	}
	if id, ok := services.JobIDFromContext(ctx); ok {
		d.jobID = id
	}
	args := []string{
		"-v", "error",
		"-nostdin",
		"-i", d.inputPath,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}
	cmd := commandContext(ctx, d.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = d.stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg decode: %w", err)
	}
	d.cmd = cmd
	d.stdout = stdout
	return nil
}

// Next returns the next decoded frame. The presentation timestamp is the
// frame's position on the source timeline and is never altered downstream.
func (d *Decoder) Next(ctx context.Context) (*transform.Frame, error) {
	if d.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.cmd == nil {
		if err := d.start(ctx); err != nil {
			return nil, err
		}
	}

	frame := transform.NewFrame(d.width, d.height, d.pts(d.index))
	_, err := io.ReadFull(d.stdout, frame.Data)
	if errors.Is(err, io.EOF) {
		d.done = true
		waitErr := d.cmd.Wait()
		d.cmd = nil
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if waitErr != nil {
			return nil, d.toolError("decode", waitErr)
		}
		return nil, io.EOF
	}
	if err != nil {
		d.done = true
		_ = d.cmd.Process.Kill()
		_ = d.cmd.Wait()
		d.cmd = nil
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, d.toolError("decode", err)
	}
	d.index++
	return frame, nil
}

// Close tears down the decode process. Safe to call after EOF or mid-stream.
func (d *Decoder) Close() error {
	d.done = true
	if d.cmd == nil {
		return nil
	}
	cmd := d.cmd
	d.cmd = nil
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = cmd.Wait()
	return nil
}

func (d *Decoder) pts(index int64) time.Duration {
	if d.frameRate <= 0 {
		return 0
	}
	return time.Duration(float64(index) / d.frameRate * float64(time.Second))
}

func (d *Decoder) toolError(operation string, err error) error {
	if d.jobID != "" {
		operation = fmt.Sprintf("%s (job %s)", operation, d.jobID)
	}
	if tail := d.stderr.String(); tail != "" {
		return fmt.Errorf("ffmpeg %s: %w: %s", operation, err, tail)
	}
	return fmt.Errorf("ffmpeg %s: %w", operation, err)
}
