package logger

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/lemonaid/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NoDuration marks an access-log entry without a measured duration.
const NoDuration time.Duration = -1

type options struct {
	stdout zapcore.WriteSyncer
	stderr zapcore.WriteSyncer
	level  *zap.AtomicLevel
	format string
}

// Option customises New.
type Option func(*options)

// WithOutput replaces the standard output and standard error sinks.
func WithOutput(stdout, stderr zapcore.WriteSyncer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithLevel shares an externally owned level so it can be changed at runtime.
func WithLevel(level zap.AtomicLevel) Option {
	return func(o *options) {
		o.level = &level
	}
}

// WithFormat selects config.LogFormatText or config.LogFormatJSON.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// LevelFor returns the minimum level emitted in env: debug in development, info otherwise.
func LevelFor(env config.Environment) zapcore.Level {
	if env == config.EnvDevelopment {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// New creates the application logger for env.
//
// Entries below error level go to standard output, error and above to standard
// error. Each write goes straight to the sink.
func New(env config.Environment, opts ...Option) *zap.Logger {
	o := options{
		stdout: zapcore.Lock(os.Stdout),
		stderr: zapcore.Lock(os.Stderr),
		format: config.LogFormatText,
	}
	for _, opt := range opts {
		opt(&o)
	}
	level := zap.NewAtomicLevelAt(LevelFor(env))
	if o.level != nil {
		level = *o.level
	}

	dev := env == config.EnvDevelopment
	var enc zapcore.Encoder
	if o.format == config.LogFormatJSON {
		enc = zapcore.NewJSONEncoder(jsonEncoderConfig())
	} else {
		enc = newLineEncoder(dev, dev)
	}

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l < zapcore.ErrorLevel && level.Enabled(l)
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel && level.Enabled(l)
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, o.stdout, low),
		zapcore.NewCore(enc.Clone(), o.stderr, high),
	)
	return zap.New(core)
}

// FromSettings builds the logger described by cfg.
func FromSettings(cfg *config.Settings, opts ...Option) *zap.Logger {
	return New(cfg.Env, append([]Option{WithFormat(cfg.LogFormat)}, opts...)...)
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
}

// Request writes an access-log line at info level:
// "<METHOD> <PATH> [<STATUS>] [<N>ms]". A zero status or NoDuration drops
// the corresponding part.
func Request(log *zap.Logger, method, path string, status int, duration time.Duration, fields ...zap.Field) {
	parts := []string{method, SanitizePath(path)}
	if status != 0 {
		parts = append(parts, strconv.Itoa(status))
	}
	if duration >= 0 {
		parts = append(parts, strconv.FormatInt(duration.Milliseconds(), 10)+"ms")
	}
	log.Info(strings.Join(parts, " "), fields...)
}

// Sync flushes any buffered log entries. This should be called before application exit.
// It's safe to call Sync() multiple times.
func Sync(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	return logger.Sync()
}
