package transform

import (
	"fmt"
	"image"
	"time"
)

// BytesPerPixel is the interleaved RGBA stride of frame buffers.
const BytesPerPixel = 4

// Frame is one decoded video frame: an interleaved 8-bit RGBA buffer plus
// the presentation timestamp it was decoded with. Timestamps are carried
// through the pipeline untouched to preserve sync downstream.
type Frame struct {
	Width  int
	Height int
	PTS    time.Duration
	Data   []byte
}

// NewFrame allocates a zeroed frame buffer for the given dimensions.
func NewFrame(width, height int, pts time.Duration) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		PTS:    pts,
		Data:   make([]byte, width*height*BytesPerPixel),
	}
}

// Validate checks that the buffer length matches the frame dimensions.
func (f *Frame) Validate() error {
	want := f.Width * f.Height * BytesPerPixel
	if len(f.Data) != want {
		return fmt.Errorf("frame buffer size %d does not match %dx%d (want %d)", len(f.Data), f.Width, f.Height, want)
	}
	return nil
}

// RGBA wraps the frame buffer as an image.RGBA without copying. Mutating
// the returned image mutates the frame.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Data,
		Stride: f.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
