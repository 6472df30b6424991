package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "TREEBROWSE_LOG_LEVEL"

// Initialize creates a new logger with the specified level writing to stdout.
// If level is empty, it checks TREEBROWSE_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	return InitializeFile(level, "")
}

// InitializeFile is like Initialize but writes to path instead of stdout.
// Interactive commands use it so log lines do not tear the terminal UI.
func InitializeFile(level, path string) error {
	// If no level provided, check environment variable
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	// If still no level, use silent mode (nop logger)
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := "stdout"
	if path != "" {
		output = path
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if path == "" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		return zapcore.InfoLevel
	}
}

// InitializeFromEnv initializes the logger from the TREEBROWSE_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogListingRequest logs an outgoing listing fetch
func LogListingRequest(url, uid string) {
	Debug("Listing request",
		zap.String("url", url),
		zap.String("uid", uid),
	)
}

// LogListingResponse logs a completed listing fetch
func LogListingResponse(uid string, entries int, duration time.Duration) {
	Debug("Listing response",
		zap.String("uid", uid),
		zap.Int("entries", entries),
		zap.Duration("duration", duration),
	)
}

// LogDuplicateNode records a listing entry skipped because its uid is
// already a child of the same parent
func LogDuplicateNode(parentUID, uid string) {
	Debug("Skipping node already present under parent",
		zap.String("parent_uid", parentUID),
		zap.String("uid", uid),
	)
}

// LogHTTPRequest logs a served HTTP request
func LogHTTPRequest(remoteAddr, method, path string, status int, duration time.Duration) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
