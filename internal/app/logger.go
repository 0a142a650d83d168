package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Corkboard writes to stdout only;
// shipping and retention belong to the deployment. LOG_FORMAT=json selects
// structured output for aggregators, anything else stays human-readable.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
