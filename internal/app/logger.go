package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger interface shared by every layer
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the upper-case label written in front of each line
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLogLevel converts a string to LogLevel.
// Unknown or empty values fall back to WARN.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error", "fatal":
		return LogLevelError
	default:
		return LogLevelWarn
	}
}

// LeveledLogger provides level-filtered logging to a single writer
type LeveledLogger struct {
	mu       sync.Mutex
	minLevel LogLevel
	output   io.Writer
	now      func() time.Time
}

// NewLogger creates a new logger with the specified minimum level
func NewLogger(minLevel LogLevel, output io.Writer) *LeveledLogger {
	if output == nil {
		output = os.Stderr
	}
	return &LeveledLogger{
		minLevel: minLevel,
		output:   output,
		now:      time.Now,
	}
}

// Level returns the minimum log level
func (l *LeveledLogger) Level() LogLevel {
	return l.minLevel
}

func (l *LeveledLogger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

func (l *LeveledLogger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

func (l *LeveledLogger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

func (l *LeveledLogger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}

func (l *LeveledLogger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.minLevel {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.output, "%s %s: %s\n", l.now().UTC().Format(time.RFC3339), level, msg)
}

// nopLogger discards everything; used where no logger was injected
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// NopLogger returns a Logger that drops all messages
func NopLogger() Logger {
	return nopLogger{}
}
