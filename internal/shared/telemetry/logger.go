// Package telemetry holds the process-wide structured logger. Callers log
// through the Info/Error facade so the zap dependency stays in one place.
package telemetry

import (
	"io"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = newLogger()

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig = encoderConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.MessageKey = "msg"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return enc
}

// UseWriter redirects log output to w and returns a restore func. Tests use
// it to capture entries.
func UseWriter(w io.Writer) func() {
	prev := logger
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), zapcore.InfoLevel)
	logger = zap.New(core)
	return func() { logger = prev }
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	logger.Info(msg, zapFields(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	logger.Error(msg, zapFields(fields)...)
}

// Sync flushes buffered entries. Called once at shutdown.
func Sync() {
	_ = logger.Sync()
}

// zapFields converts the field map into zap fields with a stable key order.
func zapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
