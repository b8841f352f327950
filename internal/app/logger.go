package app

import (
	"log/slog"
	"os"
)

// NewLogger returns the process logger. JSON output carries source locations
// for log ingestion; the text handler stays readable during development,
// where it also lowers the level to debug. Every record is tagged with the
// service name so the api and worker processes can share a sink.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg != nil && !cfg.IsProduction() {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		opts.AddSource = true
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "dukapos"))
}
