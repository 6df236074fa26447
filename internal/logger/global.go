package logger

import (
	"os"
	"strings"
)

var (
	// Global logger instance
	globalLogger *Logger
	// globalCaller is globalLogger with one more frame skipped for the package functions
	globalCaller *Logger
)

func init() {
	SetGlobalLogger(NewDefault())
	configureFromEnv()
}

// configureFromEnv configures the global logger from environment variables
func configureFromEnv() {
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, ok := ParseLevel(levelStr); ok {
			globalLogger.SetLevel(level)
		}
	}

	if formatStr := os.Getenv("LOG_FORMAT"); formatStr != "" {
		if format, ok := ParseFormat(formatStr); ok {
			globalLogger.SetFormat(format)
			globalCaller.SetFormat(format)
		}
	}
}

// ParseLevel parses a log level name
func ParseLevel(level string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	default:
		return INFO, false
	}
}

// ParseFormat parses a log format name
func ParseFormat(format string) (LogFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, true
	case "text", "console":
		return TextFormat, true
	default:
		return JSONFormat, false
	}
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
	globalCaller = logger.clone(logger.component, 1)
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...map[string]interface{}) {
	globalCaller.Debug(message, fields...)
}

// Info logs an info message using the global logger
func Info(message string, fields ...map[string]interface{}) {
	globalCaller.Info(message, fields...)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...map[string]interface{}) {
	globalCaller.Warn(message, fields...)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...map[string]interface{}) {
	globalCaller.Error(message, err, fields...)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...map[string]interface{}) {
	globalCaller.Fatal(message, err, fields...)
}

// Infof logs a formatted info message using the global logger
func Infof(format string, args ...interface{}) {
	globalCaller.Infof(format, args...)
}

// Warnf logs a formatted warning message using the global logger
func Warnf(format string, args ...interface{}) {
	globalCaller.Warnf(format, args...)
}

// Errorf logs a formatted error message using the global logger
func Errorf(format string, args ...interface{}) {
	globalCaller.Errorf(format, args...)
}
