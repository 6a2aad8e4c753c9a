package app

import (
	"io"
	"log/slog"
)

// logLevels maps the accepted Config.LogLevel values. Anything outside
// the map falls back to info.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the App's isolated logger from Config.LogLevel and
// Config.LogFormat. The process-global default logger is never touched,
// so each App instance logs to its own writer.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, ok := logLevels[levelStr]
	if !ok {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "text" {
		return slog.New(slog.NewTextHandler(outW, opts))
	}
	// JSON is the default format, matching the CLI default.
	return slog.New(slog.NewJSONHandler(outW, opts))
}
