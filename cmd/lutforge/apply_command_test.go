package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"lutforge/internal/cube"
	"lutforge/internal/logging"
	"lutforge/internal/pipeline"
	"lutforge/internal/services"
	"lutforge/internal/testsupport"
	"lutforge/internal/transform"
)

func TestApplyRequiresALUT(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"apply", "clip.mov"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without any LUT")
	}
	if !strings.Contains(err.Error(), "no LUT configured") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyRejectsUnknownQuality(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteIdentityCube(t, filepath.Join(env.cfg.Paths.LUTDir, "grade.cube"), 2)

	_, _, err := runCLI(t, []string{"apply", "--lut", "grade", "--quality", "ultra", "clip.mov"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown quality")
	}
	if !strings.Contains(err.Error(), "unknown quality") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyRejectsOutputFlagForBatches(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteIdentityCube(t, filepath.Join(env.cfg.Paths.LUTDir, "grade.cube"), 2)

	_, _, err := runCLI(t, []string{
		"apply", "--lut", "grade", "--output", "out.mp4", "a.mov", "b.mov",
	}, env.configPath)
	if err == nil {
		t.Fatal("expected error for --output with multiple inputs")
	}
	if !strings.Contains(err.Error(), "single input") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyRejectsOutOfRangeOpacity(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteIdentityCube(t, filepath.Join(env.cfg.Paths.LUTDir, "grade.cube"), 2)

	_, _, err := runCLI(t, []string{
		"apply", "--lut", "grade", "--opacity", "1.5", "clip.mov",
	}, env.configPath)
	if err == nil {
		t.Fatal("expected error for opacity above 1")
	}
}

func TestApplyTagsProbeFailuresAsVideoProcessing(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	input := filepath.Join(env.baseDir, "clip.mov")
	testsupport.WriteFile(t, input, 64)

	store := testsupport.MustOpenStore(t, env.cfg)
	params := transform.Parameters{Primary: cube.Identity(2), PrimaryOpacity: 1}
	runner := pipeline.New(logging.NewNop())

	// The stubbed ffprobe exits cleanly without emitting JSON, so the
	// inspect step fails before any job is created.
	result := transcodeOne(context.Background(), env.cfg, logging.NewNop(), runner, store,
		input, params, pipeline.QualityMedium, "", env.cfg.Paths.OutputDir, false)

	if result.State != pipeline.StateFailed {
		t.Fatalf("state: got %q want failed", result.State)
	}
	if !errors.Is(result.Err, services.ErrVideoProcessing) {
		t.Fatalf("expected video processing marker, got %v", result.Err)
	}
}

func TestApplyResolvesLUTNamesAgainstLibrary(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteIdentityCube(t, filepath.Join(env.cfg.Paths.LUTDir, "grade.cube"), 2)

	asset, err := loadCube(env.cfg, "grade")
	if err != nil {
		t.Fatalf("loadCube by name: %v", err)
	}
	if asset.Cube.Dimension != 2 {
		t.Fatalf("dimension: got %d want 2", asset.Cube.Dimension)
	}

	if _, err := loadCube(env.cfg, "missing"); err == nil {
		t.Fatal("expected error for unknown LUT name")
	}
}
