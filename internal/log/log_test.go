package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentDashboard, Output: &buf})

	logger.Info("hello", FieldGroupID, "g1")
	logger.Debug("hidden")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if line[FieldComponent] != ComponentDashboard || line[FieldGroupID] != "g1" || line["msg"] != "hello" {
		t.Errorf("unexpected record: %v", line)
	}
}

func TestNew_TextFormatDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf})
	logger.Debug("visible")

	if !strings.Contains(buf.String(), "msg=visible") || !strings.Contains(buf.String(), "component=app") {
		t.Errorf("unexpected text output: %q", buf.String())
	}
	if logger.Component() != ComponentApp {
		t.Errorf("Component() = %q", logger.Component())
	}
}

func TestFromContext(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %+v", l)
	}

	logger := New(Config{Output: &bytes.Buffer{}, Component: ComponentHTTP})
	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatal("expected logger from context")
	}
}

func TestStructuredLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf}))
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard?tab=members", nil)

	sl.LogHTTPEnd(context.Background(), r, http.StatusServiceUnavailable, 12, "10.0.0.1")
	sl.LogError(context.Background(), "load failed", errors.New("boom"), ErrorTypeUnavailable, OpLoad)
	sl.LogSnapshotLoaded(context.Background(), "g1", "Liburan", 2, 5, "members")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %q", len(lines), buf.String())
	}
	var first, second, third map[string]any
	_ = json.Unmarshal([]byte(lines[0]), &first)
	_ = json.Unmarshal([]byte(lines[1]), &second)
	_ = json.Unmarshal([]byte(lines[2]), &third)

	if first["level"] != "ERROR" || first[FieldStatusCode] != float64(503) || first[FieldSuccess] != false || first[FieldQuery] != "tab=members" {
		t.Errorf("unexpected http record: %v", first)
	}
	if second[FieldError] != "boom" || second[FieldErrorType] != ErrorTypeUnavailable {
		t.Errorf("unexpected error record: %v", second)
	}
	if third["level"] != "DEBUG" || third[FieldEntries] != float64(5) || third[FieldTab] != "members" {
		t.Errorf("unexpected snapshot record: %v", third)
	}
}
