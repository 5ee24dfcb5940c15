package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewNoOpLogger returns a logger that doesn't produce output
// which is useful for testing
func NewNoOpLogger() *Logger {
	return &Logger{
		Logger: zap.NewNop(),
	}
}

// NewObservedLogger returns a logger that keeps every entry at or above level
// in memory so tests can assert on what was logged.
func NewObservedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{
		Logger: zap.New(core),
	}, logs
}
