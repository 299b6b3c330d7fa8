package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the package-level structured logger. It is configured by Setup
// and safe to use before Setup is called (defaults to stderr, info level).
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Verbose reports whether debug logging is enabled.
var Verbose bool

// Setup configures the package logger. verbose enables debug-level records,
// jsonOutput switches to the JSON handler, and w is the destination
// (nil falls back to stderr).
func Setup(verbose, jsonOutput bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	Verbose = verbose

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
}

// Debug logs a debug-level record.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info-level record.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warn-level record.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error-level record.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// With returns a logger with the given attributes attached.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}
