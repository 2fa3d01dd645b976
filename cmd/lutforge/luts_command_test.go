package main

import (
	"path/filepath"
	"strings"
	"testing"

	"lutforge/internal/testsupport"
)

func TestLutsListsAndClassifiesLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteIdentityCube(t, filepath.Join(env.cfg.Paths.LUTDir, "slog3_to_rec709.cube"), 4)
	testsupport.WriteIdentityCube(t, filepath.Join(env.cfg.Paths.LUTDir, "moody_sunset.cube"), 2)
	testsupport.WriteLinearCurve(t, filepath.Join(env.cfg.Paths.LUTDir, "contrast_curve.cube"), 9)

	out, _, err := runCLI(t, []string{"luts"}, env.configPath)
	if err != nil {
		t.Fatalf("luts: %v", err)
	}
	requireContains(t, out, "slog3_to_rec709.cube")
	requireContains(t, out, "log-conversion")
	requireContains(t, out, "moody_sunset.cube")
	requireContains(t, out, "creative")
	requireContains(t, out, "contrast_curve.cube")
	requireContains(t, out, "1D")
}

func TestLutsFiltersByCategory(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteIdentityCube(t, filepath.Join(env.cfg.Paths.LUTDir, "slog3_to_rec709.cube"), 2)
	testsupport.WriteIdentityCube(t, filepath.Join(env.cfg.Paths.LUTDir, "moody_sunset.cube"), 2)

	out, _, err := runCLI(t, []string{"luts", "--category", "log-conversion"}, env.configPath)
	if err != nil {
		t.Fatalf("luts --category: %v", err)
	}
	requireContains(t, out, "slog3_to_rec709.cube")
	if strings.Contains(out, "moody_sunset.cube") {
		t.Fatalf("category filter leaked other entries:\n%s", out)
	}
}

func TestLutsEmptyLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"luts"}, env.configPath)
	if err != nil {
		t.Fatalf("luts: %v", err)
	}
	requireContains(t, out, "No LUTs found")
}
