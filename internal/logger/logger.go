// Package logger provides the leveled, printf-style logger shared by the
// assistant, the remote clients and the CLI.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface used across the module.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
	Sync() error
}

// Config selects the minimum level and the encoding.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string `yaml:"level"`
	// JSON switches from the console encoder to JSON lines.
	JSON bool `yaml:"json"`
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// New builds a zap-backed logger writing to stderr.
func New(cfg Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	if cfg.JSON {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	zl, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &zapLogger{s: zl.Sugar()}, nil
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

// ParseLevel maps a level name onto zap's levels.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s)
}

func (l *zapLogger) Debug(format string, v ...any) { l.s.Debugf(format, v...) }
func (l *zapLogger) Info(format string, v ...any)  { l.s.Infof(format, v...) }
func (l *zapLogger) Warn(format string, v ...any)  { l.s.Warnf(format, v...) }
func (l *zapLogger) Error(format string, v ...any) { l.s.Errorf(format, v...) }

// Sync flushes buffered entries. Syncing stderr fails on some platforms,
// so that error is dropped.
func (l *zapLogger) Sync() error {
	if err := l.s.Sync(); err != nil && !strings.Contains(err.Error(), "/dev/stderr") {
		return err
	}
	return nil
}
