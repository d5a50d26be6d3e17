package log

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

const DefaultLoggerFlag = log.Ldate | log.Ltime | log.Lmicroseconds

var (
	defaultLogger *Logger
	defaultLock   sync.RWMutex
)

func init() {
	defaultLogger = New(os.Stdout, "", DefaultLoggerFlag, LogLevelInfo)
}

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

func (level LogLevel) String() string {
	switch level {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	case LogLevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a log level string into a LogLevel.
// Valid log levels are: error, warn, info, debug, trace.
func ParseLogLevel(level string) (LogLevel, error) {
	switch level {
	case "error":
		return LogLevelError, nil
	case "warn":
		return LogLevelWarn, nil
	case "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	case "trace":
		return LogLevelTrace, nil
	default:
		return LogLevelError, fmt.Errorf("unknown log level: %s", level)
	}
}

// Logger writes one JSON object per entry. Child loggers created with With
// share the parent's output and level.
type Logger struct {
	logger *log.Logger
	level  *levelHolder
	fields map[string]interface{}
}

type levelHolder struct {
	mu    sync.RWMutex
	level LogLevel
}

func (h *levelHolder) get() LogLevel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.level
}

func (h *levelHolder) set(level LogLevel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.level = level
}

func New(out io.Writer, prefix string, flag int, level LogLevel) *Logger {
	return &Logger{
		logger: log.New(out, prefix, flag),
		level:  &levelHolder{level: level},
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level.set(level)
}

func (l *Logger) Level() LogLevel {
	return l.level.get()
}

// With returns a child logger that adds key to every entry it writes.
func (l *Logger) With(key string, value interface{}) *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{
		logger: l.logger,
		level:  l.level,
		fields: fields,
	}
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if level > l.level.get() {
		return
	}
	logEntry := make(map[string]interface{}, len(l.fields)+2)
	for k, v := range l.fields {
		logEntry[k] = v
	}
	logEntry["level"] = level.String()
	logEntry["msg"] = fmt.Sprintf(format, args...)
	msgBytes, err := json.Marshal(logEntry)
	if err != nil {
		l.logger.Printf(`{"level":"error","msg":"failed to marshal log entry: %v"}`, err)
		return
	}
	l.logger.Print(string(msgBytes))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LogLevelError, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LogLevelWarn, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LogLevelInfo, format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LogLevelDebug, format, args...)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.logf(LogLevelTrace, format, args...)
}

// SetDefaultLogger replaces the logger used by the package-level helpers.
func SetDefaultLogger(logger *Logger) {
	defaultLock.Lock()
	defer defaultLock.Unlock()
	defaultLogger = logger
}

// Default returns the logger used by the package-level helpers.
func Default() *Logger {
	defaultLock.RLock()
	defer defaultLock.RUnlock()
	return defaultLogger
}

func SetLevel(level LogLevel) {
	Default().SetLevel(level)
	Default().Info("Log level set to %s", level)
}

func Info(format string, args ...interface{}) {
	Default().Info(format, args...)
}

func Error(format string, args ...interface{}) {
	Default().Error(format, args...)
}

func Warn(format string, args ...interface{}) {
	Default().Warn(format, args...)
}

func Debug(format string, args ...interface{}) {
	Default().Debug(format, args...)
}

func Trace(format string, args ...interface{}) {
	Default().Trace(format, args...)
}
