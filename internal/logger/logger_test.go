package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lrvsp.log")

	log, err := NewLogger(false, path)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	log.Info("cycle finished")
	log.Debug("hidden at info level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "cycle finished") {
		t.Errorf("log file missing entry: %s", data)
	}
	if strings.Contains(string(data), "hidden at info level") {
		t.Errorf("debug entry written at info level: %s", data)
	}
}

func TestNewLoggerDebug(t *testing.T) {
	log, err := NewLogger(true, "")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level not enabled")
	}
}
