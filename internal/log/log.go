// Package log implements a simple leveled logger which writes to a log
// file and, optionally, standard output.
package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

type Level int

// The level of visibility of the log output. ERROR is the lowest level and
// DEBUG is the highest.
const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
)

var levelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG"}

// Logger writes formatted log entries to its sinks.
type Logger struct {
	level   Level
	logFile *os.File
	writer  io.Writer
}

// The default logger instance. All package-level logging functions go
// through it.
var std Logger

// Setup opens the log file at the given path and configures the default
// logger to write to it and to standard output. Passing a blank path sends
// the file sink to /dev/null.
func Setup(level Level, path string) error {
	if path == "" {
		path = os.DevNull
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	std = Logger{
		level:   level,
		logFile: logFile,
		writer:  io.MultiWriter(logFile, os.Stdout),
	}
	return nil
}

// SetLevel sets the log visibility level of the default logger.
func SetLevel(level Level) {
	std.level = level
}

// Close closes the default logger's log file.
func Close() {
	if std.logFile != nil {
		_ = std.logFile.Close()
	}
}

// Error prints out an error message.
func Error(message string, args ...any) {
	std.write(ERROR, message, args...)
}

// Warn prints out a warning message if the log level allows it.
func Warn(message string, args ...any) {
	std.write(WARN, message, args...)
}

// Info prints out an informational message if the log level allows it.
func Info(message string, args ...any) {
	std.write(INFO, message, args...)
}

// Debug prints out a debug message if the log level allows it.
func Debug(message string, args ...any) {
	std.write(DEBUG, message, args...)
}

// write formats the message and flushes it to the sinks. Writes which occur
// before Setup go to standard output only.
func (l *Logger) write(level Level, message string, args ...any) {
	if level > l.level {
		return
	}
	out := l.writer
	if out == nil {
		out = os.Stdout
	}
	line := fmt.Sprintf(
		"%s: [%s] - %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		levelNames[level],
		fmt.Sprintf(message, args...),
	)
	if _, err := out.Write([]byte(line)); err != nil {
		fmt.Printf("Failed log write: %s\n", err)
	}
}
