// Package logger provides leveled logging for the game process. The
// terminal is owned by the dashboard, so the default sink is a file;
// stdout is only used in headless mode.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger provides leveled logging with a shared sink.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	closer      io.Closer
}

// New creates a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(w, "[INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(w, "[WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(w, "[ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// NewFile creates a logger appending to the named file.
func NewFile(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(f)
	l.closer = f
	return l, nil
}

// Nop creates a logger that discards everything. Used by tests.
func Nop() *Logger {
	return New(io.Discard)
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.infoLogger.Printf(format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.errorLogger.Printf(format, args...)
}

// Event logs one gameplay event with its machine-readable code.
func (l *Logger) Event(code string, details string) {
	l.infoLogger.Printf("[EVENT:%s] %s", code, details)
}
