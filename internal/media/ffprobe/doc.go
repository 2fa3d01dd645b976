// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no lutforge-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods on Result expose the facts the frame pipeline queries once
// at job start: video dimensions, frame rate, frame count, and duration.
package ffprobe
