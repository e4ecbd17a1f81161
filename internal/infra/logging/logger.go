// Package logging provides leveled, categorized logging for msp2ifc.
// Lines go to a stream (usually stderr) and, when configured, are appended to a log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/spf13/afero"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes formatted log lines to a stream and an optional file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	out      io.Writer
	fs       afero.Fs
	file     afero.File
	now      func() time.Time
	filePath string
	mu       sync.Mutex
	level    slog.Level
}

// New creates a new Logger writing to out. If filePath is non-empty, lines are also
// appended to that file on fs. A nil out disables stream output.
func New(out io.Writer, fs afero.Fs, filePath string, level slog.Level) *Logger {
	return &Logger{
		out:      out,
		fs:       fs,
		filePath: filePath,
		level:    level,
		now:      time.Now,
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureFile opens or returns the log file. Caller holds l.mu.
func (l *Logger) ensureFile() (afero.File, error) {
	if l.file != nil {
		return l.file, nil
	}

	if err := l.fs.MkdirAll(filepath.Dir(l.filePath), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := l.fs.OpenFile(l.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return f, nil
}

// Close closes the log file, if open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [category] message
func formatLog(t time.Time, level slog.Level, category, msg string) string {
	return fmt.Sprintf("[%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes an entry to the stream and the log file.
func (l *Logger) log(level slog.Level, category, msg string) {
	if level < l.level {
		return // Skip if below minimum level
	}

	entry := formatLog(l.now(), level, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out != nil {
		_, _ = io.WriteString(l.out, entry)
	}
	if l.filePath != "" && l.fs != nil {
		if f, err := l.ensureFile(); err == nil {
			_, _ = io.WriteString(f, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(category, msg string) {
	l.log(slog.LevelInfo, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string) {
	l.log(slog.LevelDebug, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string) {
	l.log(slog.LevelWarn, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string) {
	l.log(slog.LevelError, category, msg)
}
