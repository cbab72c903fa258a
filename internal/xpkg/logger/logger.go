package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper over zap that carries the service/action context
// through the call chain as structured fields.
type Logger struct {
	s *zap.SugaredLogger
}

func New(level string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return Logger{}, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.MessageKey = "message"

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return Logger{}, fmt.Errorf("failed to build logger: %w", err)
	}

	return Logger{s: z.Sugar()}, nil
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return Logger{s: zap.NewNop().Sugar()}
}

// Action tags all subsequent entries with the current operation name.
func (l Logger) Action(action string) Logger {
	return Logger{s: l.s.With("action", action)}
}

func (l Logger) With(keysAndValues ...any) Logger {
	return Logger{s: l.s.With(keysAndValues...)}
}

func (l Logger) WithGroup(name string) Logger {
	return Logger{s: l.s.With(zap.Namespace(name))}
}

func (l Logger) Debug(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l Logger) Info(msg string, keysAndValues ...any) {
	l.s.Infow(msg, keysAndValues...)
}

func (l Logger) Warn(msg string, keysAndValues ...any) {
	l.s.Warnw(msg, keysAndValues...)
}

func (l Logger) Error(msg string, err error, keysAndValues ...any) {
	l.s.Errorw(msg, append([]any{"error", err}, keysAndValues...)...)
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "", "INFO":
		return zapcore.InfoLevel, nil
	case "WARN":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}
