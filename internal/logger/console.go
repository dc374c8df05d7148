// Package logger provides the leveled console logger used for diagnostic
// output. Search results never go through here; this is for --verbose
// traversal and timing chatter on stderr.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Log level constants for filtering
const (
	levelDebug int = 0
	levelInfo  int = 1
	levelWarn  int = 2
	levelError int = 3
)

// ConsoleLogger writes timestamped, level-filtered messages to a writer.
// All output is prefixed with [HH:MM:SS]. Safe for concurrent use.
type ConsoleLogger struct {
	writer io.Writer
	level  int
	mutex  sync.Mutex

	warnColor *color.Color
	errColor  *color.Color
}

// NewConsoleLogger creates a ConsoleLogger writing to w. If w is nil,
// messages are silently discarded. Valid levels are debug, info, warn,
// error (case-insensitive); empty or unknown levels default to info.
func NewConsoleLogger(w io.Writer, level string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:    w,
		level:     parseLevel(level),
		warnColor: color.New(color.FgYellow),
		errColor:  color.New(color.FgRed),
	}
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// Debugf logs a formatted message at debug level.
func (l *ConsoleLogger) Debugf(format string, args ...interface{}) {
	l.logf(levelDebug, "", format, args...)
}

// Infof logs a formatted message at info level.
func (l *ConsoleLogger) Infof(format string, args ...interface{}) {
	l.logf(levelInfo, "", format, args...)
}

// Warnf logs a formatted message at warn level, colored yellow on TTYs.
func (l *ConsoleLogger) Warnf(format string, args ...interface{}) {
	l.logf(levelWarn, l.warnColor.Sprint("WARN "), format, args...)
}

// Errorf logs a formatted message at error level, colored red on TTYs.
func (l *ConsoleLogger) Errorf(format string, args ...interface{}) {
	l.logf(levelError, l.errColor.Sprint("ERROR "), format, args...)
}

func (l *ConsoleLogger) logf(level int, prefix, format string, args ...interface{}) {
	if l.writer == nil || level < l.level {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(l.writer, "[%s] %s%s\n", timestamp, prefix, fmt.Sprintf(format, args...))
}
