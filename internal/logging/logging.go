// Package logging builds the slog handlers used by the command line tools.
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger returns a text logger writing to w at the given level.
func Logger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// FileLogger returns a logger writing to a size-rotated log file.
func FileLogger(path string, level slog.Level) *slog.Logger {
	return Logger(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}, level)
}
