package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger. It defaults to a no-op
// logger so packages can log before Init runs (and tests stay quiet).
var Logger = zap.NewNop()

// Init initializes the global logger based on the ENV environment variable.
func Init() {
	env := os.Getenv("ENV")
	var err error
	var logger *zap.Logger
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	Logger = logger
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Logger.Sync()
}

// Global logging methods to avoid `logger.Logger` repetition

func Debug(msg string, fields ...zapcore.Field) {
	Logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zapcore.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	Logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zapcore.Field) {
	Logger.Fatal(msg, fields...)
}
