package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		err  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{" INFO ", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("manifest: shown", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "count=3") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestToFile_CreatesDirAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vitrine.log")
	for i := 0; i < 2; i++ {
		logger, closer, err := ToFile(path, "info")
		if err != nil {
			t.Fatalf("ToFile returned error: %v", err)
		}
		logger.Info("started")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if n := strings.Count(string(data), "msg=started"); n != 2 {
		t.Fatalf("found %d lines, want 2:\n%s", n, data)
	}
}

func TestToFile_BadLevel(t *testing.T) {
	if _, _, err := ToFile(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatal("ToFile accepted an unknown level")
	}
}
