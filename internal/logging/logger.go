// Package logging provides textual diagnostics for redfish, distinct
// from the binary fastlog event stream bsend emits. It wraps zap so the
// rest of the module gets structured, leveled logging without every
// package taking a direct dependency on zap's API.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// LogLevel mirrors zap's levels under redfish's own names.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) zapLevel() zap.AtomicLevel {
	switch l {
	case LevelDebug:
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case LevelWarn:
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case LevelError:
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}

// Logger wraps a zap.SugaredLogger with the level-named methods the rest
// of this module calls.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Config holds logging configuration.
type Config struct {
	Level       LogLevel
	Development bool
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{Level: LevelInfo}
}

// NewLogger creates a new Logger from config, building its own zap core.
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}

	zc := zap.NewProductionConfig()
	if config.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = config.Level.zapLevel()

	core, err := zc.Build()
	if err != nil {
		// Fall back to a no-op logger rather than failing construction;
		// diagnostics are never load-bearing for bsend correctness.
		core = zap.NewNop()
	}
	return &Logger{sugar: core.Sugar()}
}

// NewFromZap wraps an existing zap logger, e.g. one configured by the
// embedding application.
func NewFromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar()}
}

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// Default returns the process-wide default logger, creating it with
// DefaultConfig if none has been set.
func Default() *Logger {
	mu.RLock()
	if defaultLogger != nil {
		defer mu.RUnlock()
		return defaultLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

// SetDefault overrides the process-wide default logger.
func SetDefault(logger *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

func (l *Logger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Printf is kept for call sites written against the stdlib log.Logger
// idiom; it logs at Info level.
func (l *Logger) Printf(format string, args ...any) { l.Infof(format, args...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.sugar.Sync() }
