// Package logger provides leveled, structured logging for the application.
// It wraps charmbracelet/log behind a small package-level API so callers never
// carry a logger instance around. Safe to use before Init; the default is
// info-level text output on stderr.
package logger

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
})

// Init configures the default logger from the logging config: level is one of
// debug/info/warn/error, format is "text" or "json". Unknown values fall back
// to info-level text.
func Init(level, format string) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	defaultLogger.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		defaultLogger.SetFormatter(log.JSONFormatter)
	} else {
		defaultLogger.SetFormatter(log.TextFormatter)
	}
}

// Debug logs a message at debug level with optional key-value pairs.
func Debug(msg string, keyvals ...interface{}) {
	defaultLogger.Debug(msg, keyvals...)
}

// Info logs a message at info level with optional key-value pairs.
func Info(msg string, keyvals ...interface{}) {
	defaultLogger.Info(msg, keyvals...)
}

// Warn logs a message at warn level with optional key-value pairs.
func Warn(msg string, keyvals ...interface{}) {
	defaultLogger.Warn(msg, keyvals...)
}

// Error logs a message at error level with optional key-value pairs.
func Error(msg string, keyvals ...interface{}) {
	defaultLogger.Error(msg, keyvals...)
}

// Fatal logs a message at fatal level and exits the process.
func Fatal(msg string, keyvals ...interface{}) {
	defaultLogger.Fatal(msg, keyvals...)
}
