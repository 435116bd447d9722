// Package logging provides categorized file-based debug logging for loom.
// Logs are written to <state dir>/logs with one file per category, and only
// when debug mode is on — in normal operation the whole package is a silent
// no-op, since the chat TUI owns the terminal.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Category names a log stream/file.
type Category string

const (
	CategoryBoot    Category = "boot"    // startup, config resolution
	CategorySession Category = "session" // session lifecycle, turns
	CategoryAgent   Category = "agent"   // LLM requests and tool calls
	CategorySurface Category = "surface" // surface builds, root inference
	CategoryStore   Category = "store"   // data model mutation
	CategoryHistory Category = "history" // persistence
	CategoryUI      Category = "ui"      // chat interface events
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Settings gates the package. Categories maps category name to enabled; an
// empty map enables everything.
type Settings struct {
	DebugMode  bool
	Level      string
	Categories map[string]bool
}

// Logger writes one category's stream.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	mu       sync.Mutex
	loggers  = make(map[Category]*Logger)
	logsDir  string
	settings Settings
	logLevel int
)

// Initialize points the package at its log directory and applies settings.
// With DebugMode off nothing is created and every call becomes a no-op.
func Initialize(stateDir string, s Settings) error {
	mu.Lock()
	defer mu.Unlock()

	settings = s
	switch s.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	if !s.DebugMode {
		return nil
	}

	logsDir = filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}
	return nil
}

// IsDebugMode reports whether logging is active at all.
func IsDebugMode() bool {
	mu.Lock()
	defer mu.Unlock()
	return settings.DebugMode
}

func categoryEnabled(c Category) bool {
	if !settings.DebugMode {
		return false
	}
	if len(settings.Categories) == 0 {
		return true
	}
	return settings.Categories[string(c)]
}

// Get returns the logger for a category, creating its file lazily. Always
// non-nil; a disabled category returns a discarding logger.
func Get(c Category) *Logger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[c]; ok {
		return l
	}
	l := &Logger{category: c}
	if categoryEnabled(c) && logsDir != "" {
		path := filepath.Join(logsDir, string(c)+".log")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			l.file = f
			l.logger = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
		}
	}
	loggers[c] = l
	return l
}

func (l *Logger) write(level int, tag, format string, args ...any) {
	if l == nil || l.logger == nil || level < logLevel {
		return
	}
	l.logger.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) { l.write(LevelDebug, "DEBUG", format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.write(LevelInfo, "INFO", format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.write(LevelWarn, "WARN", format, args...) }
func (l *Logger) Error(format string, args ...any) { l.write(LevelError, "ERROR", format, args...) }

// CloseAll flushes and closes every open log file.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	for c, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
		delete(loggers, c)
	}
}

// Convenience helpers for the hot categories.

func Boot(format string, args ...any)    { Get(CategoryBoot).Info(format, args...) }
func Session(format string, args ...any) { Get(CategorySession).Info(format, args...) }
func Agent(format string, args ...any)   { Get(CategoryAgent).Info(format, args...) }
func Surface(format string, args ...any) { Get(CategorySurface).Debug(format, args...) }
func UI(format string, args ...any)      { Get(CategoryUI).Debug(format, args...) }
