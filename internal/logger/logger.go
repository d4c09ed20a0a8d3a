package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Format selects the line layout
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level     // Minimum log level
	FilePath   string    // Path to log file, empty disables file output
	MaxSize    int64     // Max size in bytes before rotation (default: 10MB)
	MaxAge     int       // Max age in days (default: 7)
	MaxBackups int       // Max number of backup files (default: 5)
	Console    bool      // Enable console logging
	Format     Format    // text or json
	Output     io.Writer // Extra writer, mostly for tests
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".pintask", "logs", "pintask.log")
	}

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // Off by default so the TUI is not disturbed
		Format:     FormatText,
	}
}

// Logger writes leveled entries to a rotating file and optional extra outputs
type Logger struct {
	config Config
	out    *output
	fields []Field
}

// output is shared by a logger and every logger derived through WithFields
type output struct {
	mu      sync.Mutex
	config  Config
	file    *os.File
	writers []io.Writer
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// Init installs the global logger. Later calls replace it and close the previous one.
func Init(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return nil
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	if config.MaxSize <= 0 {
		config.MaxSize = 10 * 1024 * 1024
	}
	if config.MaxBackups <= 0 {
		config.MaxBackups = 5
	}

	o := &output{config: config}

	if config.FilePath != "" {
		// Create log directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		o.file = file

		o.mu.Lock()
		err = o.rotateIfNeededLocked()
		o.mu.Unlock()
		if err != nil {
			return nil, err
		}
	}
	o.resetWriters()

	return &Logger{config: config, out: o}, nil
}

func (o *output) resetWriters() {
	o.writers = o.writers[:0]
	if o.file != nil {
		o.writers = append(o.writers, o.file)
	}
	if o.config.Console {
		o.writers = append(o.writers, os.Stderr)
	}
	if o.config.Output != nil {
		o.writers = append(o.writers, o.config.Output)
	}
}

// rotateIfNeededLocked checks size and age of the current file
func (o *output) rotateIfNeededLocked() error {
	if o.file == nil {
		return nil
	}

	info, err := o.file.Stat()
	if err != nil {
		return err
	}

	if info.Size() >= o.config.MaxSize {
		return o.rotateLocked()
	}
	if o.config.MaxAge > 0 && info.Size() > 0 &&
		time.Since(info.ModTime()) > time.Duration(o.config.MaxAge)*24*time.Hour {
		return o.rotateLocked()
	}
	return nil
}

// rotateLocked shifts backups up by one and starts a fresh file
func (o *output) rotateLocked() error {
	if o.file != nil {
		o.file.Close()
	}

	path := o.config.FilePath
	for i := o.config.MaxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".1"); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	o.file = file
	o.resetWriters()
	return nil
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if level < l.config.Level {
		return
	}

	// Get caller info
	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	var entry string
	if l.config.Format == FormatJSON {
		entry = jsonEntry(level, caller, msg, all)
	} else {
		entry = textEntry(level, caller, msg, all)
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	l.out.rotateIfNeededLocked()
	for _, w := range l.out.writers {
		w.Write([]byte(entry))
	}
}

func textEntry(level Level, caller, msg string, fields []Field) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %s: %s", timestamp, level, caller, msg)
	if len(fields) > 0 {
		sb.WriteString(" |")
		for _, f := range fields {
			fmt.Fprintf(&sb, " %s=%v", f.Key, f.Value)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func jsonEntry(level Level, caller, msg string, fields []Field) string {
	m := make(map[string]any, 4+len(fields))
	m["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["level"] = level.String()
	m["caller"] = caller
	m["msg"] = msg
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			m[f.Key] = err.Error()
			continue
		}
		m[f.Key] = f.Value
	}
	b, err := json.Marshal(m)
	if err != nil {
		b, _ = json.Marshal(map[string]string{"level": level.String(), "msg": msg, "error": err.Error()})
	}
	return string(b) + "\n"
}

// WithFields creates a logger that adds fields to every entry
func (l *Logger) WithFields(fields ...Field) *Logger {
	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	return &Logger{config: l.config, out: l.out, fields: all}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) { l.log(DEBUG, msg, fields) }

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) { l.log(INFO, msg, fields) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) { l.log(WARN, msg, fields) }

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) { l.log(ERROR, msg, fields) }

// Close closes the log file
func (l *Logger) Close() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.file != nil {
		err := l.out.file.Close()
		l.out.file = nil
		l.out.resetWriters()
		return err
	}
	return nil
}

// Global logger functions

func global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	if l := global(); l != nil {
		l.log(DEBUG, msg, fields)
	}
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	if l := global(); l != nil {
		l.log(INFO, msg, fields)
	}
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	if l := global(); l != nil {
		l.log(WARN, msg, fields)
	}
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	if l := global(); l != nil {
		l.log(ERROR, msg, fields)
	}
}

// WithFields returns a child of the global logger, or nil when none is installed
func WithFields(fields ...Field) *Logger {
	if l := global(); l != nil {
		return l.WithFields(fields...)
	}
	return nil
}

// Close closes the global logger
func Close() error {
	if l := global(); l != nil {
		return l.Close()
	}
	return nil
}
