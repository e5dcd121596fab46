// Package logger implements a logging adapter using zerolog.
package logger

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using zerolog.
type Logger struct {
	mu     sync.RWMutex
	logger zerolog.Logger
	level  zerolog.Level
}

// New creates a Logger writing human-readable lines to stderr.
func New() *Logger {
	l := &Logger{level: zerolog.InfoLevel}
	l.SetOutput(os.Stderr)
	return l
}

func consoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	if f, ok := w.(*os.File); !ok || f != os.Stderr {
		out.NoColor = true
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// SetOutput updates the logger's output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = consoleLogger(w, l.level)
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level domain.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = toZerolog(level)
	l.logger = l.logger.Level(l.level)
}

func toZerolog(level domain.LogLevel) zerolog.Level {
	switch level {
	case domain.LogLevelDebug:
		return zerolog.DebugLevel
	case domain.LogLevelWarn:
		return zerolog.WarnLevel
	case domain.LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug().Msg(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info().Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn().Msg(msg)
}

// Error logs an error together with the metadata attached along its zerr chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error().Fields(metadata(err)).Msg(err.Error())
}

func metadata(err error) map[string]any {
	fields := make(map[string]any)
	for err != nil {
		var z *zerr.Error
		if !errors.As(err, &z) {
			break
		}
		for k, v := range z.Metadata() {
			if _, seen := fields[k]; !seen {
				fields[k] = v
			}
		}
		err = z.Unwrap()
	}
	return fields
}
