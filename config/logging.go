package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Diagnostics go to stderr so stdout
// stays free for payload output. Informational lines only appear with
// verbose; debug adds byte previews; quiet keeps errors only.
func NewLogger(o *Options) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	switch {
	case o.Debug:
		level.Set(slog.LevelDebug)
	case o.Verbose:
		level.Set(slog.LevelInfo)
	case o.Quiet:
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelWarn)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
