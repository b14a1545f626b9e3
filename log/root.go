// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

const (
	timeFormat = "2006-01-02T15:04:05-0700"

	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError

	levelMaxVerbosity = LevelTrace
)

// Logger writes key/value pairs to a Handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(level slog.Level) bool
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Trace(msg string, ctx ...any) { l.inner.Log(context.Background(), LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.inner.Log(context.Background(), LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Log(context.Background(), LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Log(context.Background(), LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Log(context.Background(), LevelError, msg, ctx...) }

func (l *logger) Enabled(level slog.Level) bool {
	return l.inner.Enabled(context.Background(), level)
}

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	root.Store(l)
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(Logger)
}

// New returns a new logger with the given context, derived from the root logger at call time.
func New(ctx ...any) Logger {
	return Root().With(ctx...)
}

// WithContext returns a logger that resolves the root logger lazily, so package level
// loggers declared before the handler is installed still honor it.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) get() Logger                   { return Root().With(l.ctx...) }
func (l *lazyLogger) With(ctx ...any) Logger        { return &lazyLogger{append(append([]any{}, l.ctx...), ctx...)} }
func (l *lazyLogger) Trace(msg string, ctx ...any)  { l.get().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any)  { l.get().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)   { l.get().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)   { l.get().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any)  { l.get().Error(msg, ctx...) }
func (l *lazyLogger) Enabled(level slog.Level) bool { return Root().Enabled(level) }

// LevelString returns a 5-character string containing the name of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// FromLegacyLevel converts a verbosity level (0 crit ... 5 trace) into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	switch lvl {
	case 0, 1:
		return LevelError
	case 2:
		return LevelWarn
	case 3:
		return LevelInfo
	case 4:
		return LevelDebug
	case 5:
		return LevelTrace
	}
	if lvl > 5 {
		return LevelTrace
	}
	return LevelError
}
