package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lutforge/internal/config"
	"lutforge/internal/logging"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigMirrorsToLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello", logging.String("component", "test"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "lutforge.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file missing entry: %q", string(data))
	}
}

func TestComponentLoggerTagsRecords(t *testing.T) {
	logger := logging.NewComponentLogger(logging.NewNop(), "pipeline")
	if logger == nil {
		t.Fatal("expected logger")
	}
	// Nop loggers swallow everything but must not panic.
	logger.Info("noop", logging.Int("n", 1))
}
