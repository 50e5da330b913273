package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"tabungan/internal/config"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, &buf)

	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("debug level not enabled")
	}
	logger.Debug("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if rec["component"] != "app" || rec["k"] != "v" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Config{LogLevel: "verbose", LogFormat: "text"}, &buf)

	if got := LevelOf(logger); got != slog.LevelInfo {
		t.Fatalf("LevelOf() = %v, want INFO", got)
	}
	logger.Info("started")
	if !strings.Contains(buf.String(), "msg=started") {
		t.Fatalf("expected text output, got %q", buf.String())
	}
}

func TestLevelOf(t *testing.T) {
	var buf bytes.Buffer
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		logger := newLogger(&config.Config{LogLevel: level}, &buf)
		if got := LevelOf(logger); got != want {
			t.Errorf("LevelOf(%s) = %v, want %v", level, got, want)
		}
	}
}
