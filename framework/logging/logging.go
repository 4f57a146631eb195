// Package logging defines the logger capability consumed by the facade
// container and its zap-backed implementation.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log severity.
type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int8(l))
}

// ParseLevel parses "debug", "info", "warn" or "error" (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("logging: unknown level %q", s)
}

// Logger is the logging capability. Implementations must not fail.
type Logger interface {
	Log(level Level, msg string, fields map[string]any)
}

// ── zap ───────────────────────────────────────────────────────────────────────

// ZapLogger adapts *zap.Logger to Logger.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZap wraps l. A nil l logs nothing.
func NewZap(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

// Zap returns the wrapped logger.
func (z *ZapLogger) Zap() *zap.Logger { return z.logger }

func (z *ZapLogger) Log(level Level, msg string, fields map[string]any) {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			zf = append(zf, zap.NamedError(k, err))
			continue
		}
		zf = append(zf, zap.Any(k, v))
	}
	if ce := z.logger.Check(zapLevel(level), msg); ce != nil {
		ce.Write(zf...)
	}
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// NewZapLogger builds a zap logger: "json" gives the production encoder,
// "console" the development one.
func NewZapLogger(level, format string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json", "":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(lvl))
	return cfg.Build()
}

// ── nop ───────────────────────────────────────────────────────────────────────

type nop struct{}

func (nop) Log(Level, string, map[string]any) {}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }
