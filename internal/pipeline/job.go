package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"lutforge/internal/transform"
)

// State represents the lifecycle of a pipeline job.
type State string

const (
	StateIdle      State = "idle"
	StateReading   State = "reading"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// IsTerminal reports whether a state ends the job.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// SourceInfo holds the facts queried once from the source asset at job
// start: natural pixel dimensions, duration, and frame timing.
type SourceInfo struct {
	Width      int
	Height     int
	Duration   time.Duration
	FrameRate  float64
	FrameCount int64
}

// EstimatedFrames returns the best available total frame estimate, falling
// back to duration times frame rate when the container does not report a
// count.
func (s SourceInfo) EstimatedFrames() int64 {
	if s.FrameCount > 0 {
		return s.FrameCount
	}
	if s.FrameRate > 0 && s.Duration > 0 {
		return int64(s.Duration.Seconds() * s.FrameRate)
	}
	return 0
}

// EncodePlan is the concrete encode configuration resolved from a quality
// profile and the source dimensions. Fixed for the whole job.
type EncodePlan struct {
	Width            int
	Height           int
	FrameRate        float64
	Bitrate          int
	CodecProfile     string
	KeyFrameInterval int
	Preset           string
}

// BuildPlan resolves a quality level against the source info.
func BuildPlan(quality Quality, src SourceInfo) EncodePlan {
	profile := quality.Profile()
	width, height := TargetResolution(profile, src.Width, src.Height)
	return EncodePlan{
		Width:            width,
		Height:           height,
		FrameRate:        src.FrameRate,
		Bitrate:          profile.Bitrate,
		CodecProfile:     profile.CodecProfile,
		KeyFrameInterval: profile.KeyFrameInterval,
		Preset:           profile.Preset,
	}
}

// Job tracks one transcode from creation to its terminal state. Status
// fields are mutated only by the pipeline goroutine driving the job;
// observers read them through Snapshot.
type Job struct {
	ID         string
	InputPath  string
	OutputPath string
	Quality    Quality
	Params     transform.Parameters
	Source     SourceInfo
	Plan       EncodePlan

	mu       sync.Mutex
	state    State
	progress float64
	frames   int64
	dropped  int64
	err      error
}

// NewJob creates an idle job with a fresh identifier and a resolved encode
// plan.
func NewJob(inputPath, outputPath string, params transform.Parameters, quality Quality, src SourceInfo) *Job {
	return &Job{
		ID:         uuid.NewString(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Quality:    quality,
		Params:     params,
		Source:     src,
		Plan:       BuildPlan(quality, src),
		state:      StateIdle,
	}
}

// Snapshot is a point-in-time view of job status.
type Snapshot struct {
	State           State
	Progress        float64
	ProcessedFrames int64
	DroppedFrames   int64
	Err             error
}

// Snapshot returns the current job status. Safe to call from any goroutine.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Snapshot{
		State:           j.state,
		Progress:        j.progress,
		ProcessedFrames: j.frames,
		DroppedFrames:   j.dropped,
		Err:             j.err,
	}
}

func (j *Job) setState(state State) {
	j.mu.Lock()
	j.state = state
	j.mu.Unlock()
}

func (j *Job) setProgress(progress float64, frames, dropped int64) {
	j.mu.Lock()
	if progress > j.progress || progress == 0 {
		j.progress = progress
	}
	j.frames = frames
	j.dropped = dropped
	j.mu.Unlock()
}

func (j *Job) setErr(err error) {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
}

// Result is the terminal outcome handed back to the caller.
type Result struct {
	State           State
	OutputPath      string
	ProcessedFrames int64
	DroppedFrames   int64
	Err             error
}
