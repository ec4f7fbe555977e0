// Package logging writes one JSON object per line with ts, level, msg and component fields.
package logging

import (
	"io"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Fields are extra key/values merged into a log entry.
type Fields map[string]any

// Logger is safe for concurrent use. Derived loggers share the writer and its lock.
type Logger struct {
	mu        *sync.Mutex
	w         io.Writer
	loc       *time.Location
	component string
}

// New returns a Logger writing to w with timestamps rendered in loc.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, w: w, loc: loc}
}

// Discard drops every entry.
func Discard() *Logger {
	return New(io.Discard, time.UTC)
}

// With returns a logger that tags entries with component.
func (l *Logger) With(component string) *Logger {
	return &Logger{mu: l.mu, w: l.w, loc: l.loc, component: component}
}

func (l *Logger) Info(msg string, f Fields)  { l.Log(LevelInfo, msg, f) }
func (l *Logger) Warn(msg string, f Fields)  { l.Log(LevelWarn, msg, f) }
func (l *Logger) Error(msg string, f Fields) { l.Log(LevelError, msg, f) }

// Log writes a single entry. Reserved keys in f are overwritten.
func (l *Logger) Log(level, msg string, f Fields) {
	entry := make(map[string]any, len(f)+4)
	for k, v := range f {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	if l.component != "" {
		entry["component"] = l.component
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(b)
}
