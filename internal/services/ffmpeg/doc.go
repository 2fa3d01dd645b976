// Package ffmpeg wraps the ffmpeg command line as a frame source and frame
// sink for the pipeline.
//
// The Decoder streams raw RGBA frames from ffmpeg's stdout; the Encoder
// feeds transformed frames into ffmpeg's stdin and muxes the source audio
// through untouched. Both keep only one frame in flight and preserve the
// diagnostic tail of ffmpeg's stderr so terminal errors carry the
// underlying tool output verbatim.
package ffmpeg
