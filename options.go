package quiesce

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jask/quiesce/internal/config"
)

// LoadOptions derives tracker options from the environment: the config
// file (or QUIESCE_ env overrides) plus the lock-filter rules file it
// points at.
func LoadOptions() ([]Option, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	ignore, err := LoadFilter(cfg.Filter.Path)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithLockFilter(ignore)}

	level, err := parseLevel(cfg.Diagnostics.Level)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))))

	if cfg.Diagnostics.Metrics {
		opts = append(opts, WithMetrics(prometheus.DefaultRegisterer))
	}
	return opts, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown diagnostics level %q", s)
}
