// Package logger builds the zap logger shared by the CLI and the daemon.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a JSON logger writing to stderr and, when logPath is not
// empty, appending to that file as well.
func NewLogger(debug bool, logPath string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true

	config.OutputPaths = []string{"stderr"}
	if logPath != "" {
		config.OutputPaths = append(config.OutputPaths, logPath)
	}

	return config.Build()
}
