// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a slog.Logger writing to w. format is "json" or anything
// else for text; unknown levels log at info.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromString(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
