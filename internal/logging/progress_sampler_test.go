package logging_test

import (
	"testing"

	"lutforge/internal/logging"
)

func TestSamplerEmitsOnBucketBoundaries(t *testing.T) {
	s := logging.NewProgressSampler(5)

	if !s.ShouldLog(0, "transcode") {
		t.Fatal("first event should log")
	}
	if s.ShouldLog(1, "transcode") {
		t.Fatal("same bucket should be suppressed")
	}
	if s.ShouldLog(4.9, "transcode") {
		t.Fatal("same bucket should be suppressed")
	}
	if !s.ShouldLog(5, "transcode") {
		t.Fatal("next bucket should log")
	}
	if !s.ShouldLog(23, "transcode") {
		t.Fatal("bucket jump should log")
	}
	if s.ShouldLog(24, "transcode") {
		t.Fatal("same bucket after jump should be suppressed")
	}
}

func TestSamplerEmitsOnStageChange(t *testing.T) {
	s := logging.NewProgressSampler(5)

	if !s.ShouldLog(50, "reading") {
		t.Fatal("first event should log")
	}
	if !s.ShouldLog(50, "completed") {
		t.Fatal("stage change should log even in the same bucket")
	}
}

func TestSamplerHandlesUnknownPercent(t *testing.T) {
	s := logging.NewProgressSampler(5)

	if !s.ShouldLog(-1, "reading") {
		t.Fatal("first event should log via stage change")
	}
	if s.ShouldLog(-1, "reading") {
		t.Fatal("repeat unknown percent should be suppressed")
	}
}

func TestSamplerReset(t *testing.T) {
	s := logging.NewProgressSampler(5)
	s.ShouldLog(50, "transcode")

	s.Reset()
	if !s.ShouldLog(50, "transcode") {
		t.Fatal("reset sampler should log again")
	}
}

func TestSamplerCapsHundredPercent(t *testing.T) {
	s := logging.NewProgressSampler(5)
	s.ShouldLog(99, "transcode")
	if !s.ShouldLog(100, "transcode") {
		t.Fatal("100% should log")
	}
	if s.ShouldLog(120, "transcode") {
		t.Fatal("beyond 100% shares the terminal bucket")
	}
}

func TestNilSamplerAlwaysLogs(t *testing.T) {
	var s *logging.ProgressSampler
	if !s.ShouldLog(10, "x") {
		t.Fatal("nil sampler should always log")
	}
	s.Reset()
}
