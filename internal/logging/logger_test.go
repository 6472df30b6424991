package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	core := GetLogger().Core()
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitializeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treebrowse.log")

	if err := InitializeFile("info", path); err != nil {
		t.Fatalf("InitializeFile() error = %v", err)
	}
	Info("hello from test")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestLogDuplicateNode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	LogDuplicateNode("42", "101")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["parent_uid"] != "42" || fields["uid"] != "101" {
		t.Errorf("unexpected fields %v", fields)
	}
}
