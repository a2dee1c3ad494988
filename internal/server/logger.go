package server

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// Level orders log severities
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// DefaultLogger writes one line per event
type DefaultLogger struct {
	logger *log.Logger
	level  Level
}

// NewDefaultLogger logs to out at LevelInfo and above. A nil out means stderr.
func NewDefaultLogger(out io.Writer) *DefaultLogger {
	if out == nil {
		out = os.Stderr
	}
	return &DefaultLogger{
		logger: log.New(out, "", 0),
		level:  LevelInfo,
	}
}

// SetLevel drops events below level
func (l *DefaultLogger) SetLevel(level Level) {
	l.level = level
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields...)
}

func (l *DefaultLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

func (l *DefaultLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

func (l *DefaultLogger) log(level Level, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	var b strings.Builder
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(&b, "[%s] %s: %s", timestamp, levelNames[level], msg)

	if len(fields) > 0 {
		b.WriteString(" |")
		for _, f := range fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, sanitizeValue(f.Value))
		}
	}

	l.logger.Println(b.String())
}

// Board values can be long; keep log lines bounded.
func sanitizeValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		if len(s) > 100 {
			return s[:100] + "...[truncated]"
		}
	}
	return v
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, fields ...Field) {}
func (n *NullLogger) Info(msg string, fields ...Field)  {}
func (n *NullLogger) Warn(msg string, fields ...Field)  {}
func (n *NullLogger) Error(msg string, fields ...Field) {}
