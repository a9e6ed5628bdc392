package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		ok   bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"verbose", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got := parseLevel(tt.in)
		if (got != nil) != tt.ok {
			t.Errorf("parseLevel(%q) ok = %v, want %v", tt.in, got != nil, tt.ok)
			continue
		}
		if got != nil && *got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, *got, tt.want)
		}
		if ValidLevel(tt.in) != tt.ok {
			t.Errorf("ValidLevel(%q) = %v, want %v", tt.in, !tt.ok, tt.ok)
		}
	}
}

func TestFromZap_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Warn("fetch failed", String("record", "abc"), Int("index", 3), Int64("bytes", 42), Error(errors.New("boom")))
	log.Infof("saved %d files", 7)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["record"] != "abc" {
		t.Errorf("record = %v, want abc", ctx["record"])
	}
	if ctx["index"] != int64(3) {
		t.Errorf("index = %v, want 3", ctx["index"])
	}
	if ctx["error"] != "boom" {
		t.Errorf("error = %v, want boom", ctx["error"])
	}
	if entries[1].Message != "saved 7 files" {
		t.Errorf("message = %q, want %q", entries[1].Message, "saved 7 files")
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapstash.log")
	log := NewFile("info", path)

	log.Debug("hidden")
	log.Info("visible", String("k", "v"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug line written at info level")
	}
	if !strings.Contains(string(data), `"visible"`) {
		t.Errorf("log file missing entry: %s", data)
	}
}
