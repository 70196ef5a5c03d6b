package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogLevel = "info"

var (
	// Logger is the structured logger behind the Log* helpers
	Logger = zap.NewNop()
	sugar  = Logger.Sugar()
)

// InitLogger builds a JSON logger writing to stdout and to logs/app-<date>.log.
// The level is read from LOG_LEVEL and falls back to info.
func InitLogger() error {
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))))); err != nil {
		_ = level.UnmarshalText([]byte(defaultLogLevel))
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		CallerKey:     "caller",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		StacktraceKey: "stacktrace",
	}

	timestamp := time.Now().Format("2006-01-02")
	cfg := zap.Config{
		Level:             level,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout", filepath.Join(logsDir, fmt.Sprintf("app-%s.log", timestamp))},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %v", err)
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the package logger
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	Logger = logger
	sugar = logger.Sugar()
}

// SyncLogger flushes buffered entries
func SyncLogger() {
	_ = Logger.Sync()
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip, requestID string, status int, duration time.Duration) {
	Logger.Info("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("client_ip", ip),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Duration("latency", duration),
	)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	Logger.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
}

// PrintfLogger adapts the package logger to Printf-style interfaces
type PrintfLogger struct{}

// Printf implements the Printf contract
func (PrintfLogger) Printf(format string, args ...any) {
	sugar.Infof(format, args...)
}
