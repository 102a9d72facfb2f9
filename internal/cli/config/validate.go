package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/helixlab/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.HelixParams().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("helix: %w", err))
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit))
	}
	if c.Scene.MinDistance <= 0 {
		errs = append(errs, fmt.Errorf("scene.min_distance must be positive, got %v", c.Scene.MinDistance))
	}
	if c.Scene.MaxDistance < c.Scene.MinDistance {
		errs = append(errs, fmt.Errorf("scene.max_distance (%v) is below scene.min_distance (%v)", c.Scene.MaxDistance, c.Scene.MinDistance))
	}
	if c.Metrics.SiteCount < 0 || c.Metrics.HighScoreCount < 0 {
		errs = append(errs, errors.New("metrics counts must not be negative"))
	}
	if !output.Mode(c.OutputFormat).Valid() {
		errs = append(errs, fmt.Errorf("unknown output format %q (want auto, text, markdown or json)", c.OutputFormat))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.UI != nil && (c.UI.Port < 0 || c.UI.Port > 65535) {
		errs = append(errs, fmt.Errorf("ui.port out of range: %d", c.UI.Port))
	}

	return errors.Join(errs...)
}

// ParseLogLevel converts a level name to a slog level. Empty means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// Level returns the effective log level; verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	lvl, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}
