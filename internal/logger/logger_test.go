package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	Init(Options{Level: "info", JSON: true, File: path})
	t.Cleanup(func() { Init(Options{Level: "info"}) })

	Info("hello file", "k", "v")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello file"`) {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestWithContext(t *testing.T) {
	base := With("request_id", "abc")
	ctx := NewContext(context.Background(), base)
	if WithContext(ctx) != base {
		t.Error("expected request logger from context")
	}
	if WithContext(context.Background()) != Get() {
		t.Error("expected default logger without context value")
	}
}
