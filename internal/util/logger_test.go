package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "enrich.log")

	logger, err := NewLogger("info", path)
	if err != nil {
		t.Fatalf("NewLogger error: %v", err)
	}
	logger.Info("run finished")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO") || !strings.Contains(line, "run finished") {
		t.Fatalf("unexpected log line: %q", line)
	}
}

func TestNewLoggerErrorIsSingleLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrich.log")

	logger, err := NewLogger("info", path)
	if err != nil {
		t.Fatalf("NewLogger error: %v", err)
	}
	logger.Error("Error fetching channel data", zap.String("channelID", "quota"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n"); len(lines) != 1 {
		t.Fatalf("expected one line without a stack trace, got %d:\n%s", len(lines), data)
	}
}
