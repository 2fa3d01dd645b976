package pipeline_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lutforge/internal/pipeline"
)

func TestEstimatedFramesPrefersContainerCount(t *testing.T) {
	src := pipeline.SourceInfo{FrameRate: 24, Duration: 10 * time.Second, FrameCount: 241}
	if got := src.EstimatedFrames(); got != 241 {
		t.Fatalf("estimated frames: got %d want 241", got)
	}
}

func TestEstimatedFramesFallsBackToDuration(t *testing.T) {
	src := pipeline.SourceInfo{FrameRate: 24, Duration: 10 * time.Second}
	if got := src.EstimatedFrames(); got != 240 {
		t.Fatalf("estimated frames: got %d want 240", got)
	}
	if got := (pipeline.SourceInfo{}).EstimatedFrames(); got != 0 {
		t.Fatalf("estimated frames without info: got %d want 0", got)
	}
}

func TestBuildPlanResolvesProfileAgainstSource(t *testing.T) {
	src := pipeline.SourceInfo{Width: 3840, Height: 2160, FrameRate: 29.97}
	plan := pipeline.BuildPlan(pipeline.QualityMedium, src)

	want := pipeline.EncodePlan{
		Width:            1920,
		Height:           1080,
		FrameRate:        29.97,
		Bitrate:          5_000_000,
		CodecProfile:     "main",
		KeyFrameInterval: 48,
		Preset:           "medium",
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestNewJobStartsIdleWithUniqueID(t *testing.T) {
	src := pipeline.SourceInfo{Width: 2, Height: 2, FrameRate: 30}
	a := pipeline.NewJob("a.mov", "a.mp4", identityParams(), pipeline.QualityHigh, src)
	b := pipeline.NewJob("b.mov", "b.mp4", identityParams(), pipeline.QualityHigh, src)

	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("job ids not unique: %q %q", a.ID, b.ID)
	}
	snap := a.Snapshot()
	if snap.State != pipeline.StateIdle {
		t.Fatalf("initial state: got %q want idle", snap.State)
	}
	if snap.Progress != 0 || snap.ProcessedFrames != 0 {
		t.Fatalf("initial snapshot not zeroed: %+v", snap)
	}
}

func TestStateIsTerminal(t *testing.T) {
	terminal := map[pipeline.State]bool{
		pipeline.StateIdle:      false,
		pipeline.StateReading:   false,
		pipeline.StateCompleted: true,
		pipeline.StateFailed:    true,
		pipeline.StateCancelled: true,
	}
	for state, want := range terminal {
		if got := state.IsTerminal(); got != want {
			t.Fatalf("IsTerminal(%q): got %v want %v", state, got, want)
		}
	}
}

func TestBuildPlanMediumScalesHD(t *testing.T) {
	src := pipeline.SourceInfo{Width: 1920, Height: 1080, FrameRate: 25}
	plan := pipeline.BuildPlan(pipeline.QualityMedium, src)
	if plan.Width != 1440 || plan.Height != 810 {
		t.Fatalf("plan resolution: got %dx%d want 1440x810", plan.Width, plan.Height)
	}
}
