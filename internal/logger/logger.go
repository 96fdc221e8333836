// Package logger provides structured JSON logging and counters for scorecard-sync.
//
// Every entry is one JSON line carrying a timestamp, level, channel and message,
// plus optional structured fields and an error string. Channels mirror the
// parts of the pipeline (upload, grint, review, course) so a run can be
// filtered by stage.
//
// Example usage:
//
//	log := logger.Channel("grint")
//	log.Info("Fetched review_score HTML", logger.Fields{
//	    "round_id": 12345,
//	    "bytes":    len(html),
//	})
//
//	logger.IncrCounter("holes.inferred")
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a case-insensitive level name to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[l]; ok {
		return l
	}
	return LevelInfo
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Channel   string `json:"channel,omitempty"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// sink is shared by a logger and every channel derived from it.
type sink struct {
	mu       sync.Mutex
	minLevel Level
	output   io.Writer
}

// Logger writes structured entries for one channel.
type Logger struct {
	sink    *sink
	channel string
	base    Fields
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(LevelInfo, os.Stderr)
)

// New creates a logger with the given minimum level writing to output.
// Messages below the minimum level are discarded.
func New(level Level, output io.Writer) *Logger {
	return &Logger{sink: &sink{minLevel: level, output: output}}
}

// Discard returns a logger that writes nothing. Useful in tests.
func Discard() *Logger {
	return New(LevelError, io.Discard)
}

// SetDefault replaces the package-level logger used by Channel and the
// convenience functions.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default returns the package-level logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Channel returns a logger for the named channel sharing the default sink.
func Channel(name string) *Logger {
	return Default().Channel(name)
}

// Channel returns a copy of l that tags entries with the given channel.
func (l *Logger) Channel(name string) *Logger {
	return &Logger{sink: l.sink, channel: name, base: l.base}
}

// With returns a copy of l that adds fields to every entry. Per-call fields
// win over these on key collisions.
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{sink: l.sink, channel: l.channel, base: merged}
}

// SetLevel changes the minimum level for l and every logger sharing its sink.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.minLevel = level
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if levelRank[level] < levelRank[l.sink.minLevel] {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Channel:   l.channel,
		Message:   message,
		Fields:    l.merge(fields),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		// Fallback to plain text if JSON marshal fails
		fmt.Fprintf(l.sink.output, "[%s] %s %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Channel, entry.Message, marshalErr)
		return
	}

	fmt.Fprintln(l.sink.output, string(data))
}

func (l *Logger) merge(fields Fields) Fields {
	if len(l.base) == 0 {
		return fields
	}
	out := make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a degraded-but-continuing condition.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs a failure with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	Default().Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	Default().Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	Default().Error(message, fields, err)
}

// Metrics tracks counters and timings. All operations are thread-safe.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

var defaultMetrics = NewMetrics()

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter increments a counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// RecordTiming records one duration measurement.
func (m *Metrics) RecordTiming(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], d)
}

// Counters returns a copy of all counters.
func (m *Metrics) Counters() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

// Summary renders counters and timing totals as log fields, sorted by name
// so output is stable.
func (m *Metrics) Summary() Fields {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(Fields, len(m.counters)+len(m.timings))
	names := make([]string, 0, len(m.counters))
	for k := range m.counters {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		out[k] = m.counters[k]
	}
	for name, durations := range m.timings {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		out[name+".count"] = len(durations)
		out[name+".total"] = total.String()
	}
	return out
}

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, d time.Duration) {
	defaultMetrics.RecordTiming(name, d)
}

// DefaultMetrics returns the package-level metrics tracker.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
