// Package config provides configuration management for the helixlab CLI.
//
// Values are layered from defaults, a helixlab.yaml file, HELIXLAB_*
// environment variables and explicitly set flags, in increasing priority.
package config

import (
	"time"

	"github.com/leapstack-labs/helixlab/pkg/helix"
	"github.com/leapstack-labs/helixlab/pkg/metrics"
	"github.com/leapstack-labs/helixlab/pkg/scene"
	"github.com/leapstack-labs/helixlab/pkg/sequence"
)

// Config holds all CLI configuration options.
type Config struct {
	// Analysis is the path of a YAML analysis fixture. Empty selects the
	// built-in demonstration analysis.
	Analysis     string        `koanf:"analysis"`
	Verbose      bool          `koanf:"verbose"`
	LogLevel     string        `koanf:"log_level"`
	OutputFormat string        `koanf:"output"`
	Helix        HelixConfig   `koanf:"helix"`
	Scene        SceneConfig   `koanf:"scene"`
	History      HistoryConfig `koanf:"history"`
	Metrics      MetricsConfig `koanf:"metrics"`
	UI           *UIConfig     `koanf:"ui"`
	TUI          TUIConfig     `koanf:"tui"`

	// ConfigDir is the directory relative paths were resolved against.
	ConfigDir string `koanf:"-"`
}

// HelixConfig mirrors helix.Params.
type HelixConfig struct {
	Resolution   int     `koanf:"resolution"`
	Turns        float64 `koanf:"turns"`
	Pitch        float64 `koanf:"pitch"`
	Radius       float64 `koanf:"radius"`
	BaseInset    float64 `koanf:"base_inset"`
	MarkerOffset float64 `koanf:"marker_offset"`
	LabelOffset  float64 `koanf:"label_offset"`
}

// SceneConfig holds rotation and camera limits.
type SceneConfig struct {
	// Speed is the rotation speed in radians per second.
	Speed       float64 `koanf:"speed"`
	MinDistance float64 `koanf:"min_distance"`
	MaxDistance float64 `koanf:"max_distance"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	Limit int `koanf:"limit"`
}

// MetricsConfig overrides the baseline the metrics heuristic starts from.
type MetricsConfig struct {
	SiteCount      int     `koanf:"site_count"`
	HighScoreCount int     `koanf:"high_score_count"`
	AvgOnTarget    float64 `koanf:"avg_on_target"`
	AvgOffTarget   float64 `koanf:"avg_off_target"`
}

// UIConfig holds configuration for the web viewer.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	Watch         bool          `koanf:"watch"`
	SessionSecret string        `koanf:"session_secret"`
	FrameInterval time.Duration `koanf:"frame_interval"`
}

// TUIConfig holds configuration for the terminal viewer.
type TUIConfig struct {
	FrameInterval time.Duration `koanf:"frame_interval"`
	Watch         bool          `koanf:"watch"`
}

// Default configuration values.
const (
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel      = "warn"
	DefaultUIPort        = 8765
	DefaultFrameInterval = 50 * time.Millisecond
	DefaultSessionSecret = "helixlab-dev-secret-change-me"
)

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:          DefaultUIPort,
		AutoOpen:      true,
		Watch:         true,
		SessionSecret: DefaultSessionSecret,
		FrameInterval: DefaultFrameInterval,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultUIPort
	}
	if ui.SessionSecret == "" {
		ui.SessionSecret = DefaultSessionSecret
	}
	if ui.FrameInterval <= 0 {
		ui.FrameInterval = DefaultFrameInterval
	}
	return ui
}

// HelixParams converts the helix section to generator parameters.
func (c *Config) HelixParams() helix.Params {
	return helix.Params{
		Resolution:   c.Helix.Resolution,
		Turns:        c.Helix.Turns,
		Pitch:        c.Helix.Pitch,
		Radius:       c.Helix.Radius,
		BaseInset:    c.Helix.BaseInset,
		MarkerOffset: c.Helix.MarkerOffset,
		LabelOffset:  c.Helix.LabelOffset,
	}
}

// Baseline converts the metrics section to a heuristic baseline.
func (c *Config) Baseline() metrics.Baseline {
	return metrics.Baseline{
		SiteCount:      c.Metrics.SiteCount,
		HighScoreCount: c.Metrics.HighScoreCount,
		AvgOnTarget:    c.Metrics.AvgOnTarget,
		AvgOffTarget:   c.Metrics.AvgOffTarget,
	}
}

// Defaults returns the flattened default values.
func Defaults() map[string]any {
	p := helix.DefaultParams()
	b := metrics.DefaultBaseline()
	return map[string]any{
		"analysis":                 "",
		"verbose":                  false,
		"log_level":                DefaultLogLevel,
		"output":                   DefaultOutput,
		"helix.resolution":         p.Resolution,
		"helix.turns":              p.Turns,
		"helix.pitch":              p.Pitch,
		"helix.radius":             p.Radius,
		"helix.base_inset":         p.BaseInset,
		"helix.marker_offset":      p.MarkerOffset,
		"helix.label_offset":       p.LabelOffset,
		"scene.speed":              scene.DefaultOmega,
		"scene.min_distance":       scene.DefaultMinDistance,
		"scene.max_distance":       scene.DefaultMaxDistance,
		"history.limit":            sequence.DefaultHistoryLimit,
		"metrics.site_count":       b.SiteCount,
		"metrics.high_score_count": b.HighScoreCount,
		"metrics.avg_on_target":    b.AvgOnTarget,
		"metrics.avg_off_target":   b.AvgOffTarget,
		"ui.port":                  DefaultUIPort,
		"ui.auto_open":             true,
		"ui.watch":                 true,
		"ui.session_secret":        DefaultSessionSecret,
		"ui.frame_interval":        DefaultFrameInterval.String(),
		"tui.frame_interval":       DefaultFrameInterval.String(),
		"tui.watch":                true,
	}
}

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	p := helix.DefaultParams()
	b := metrics.DefaultBaseline()
	return &Config{
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		Helix: HelixConfig{
			Resolution:   p.Resolution,
			Turns:        p.Turns,
			Pitch:        p.Pitch,
			Radius:       p.Radius,
			BaseInset:    p.BaseInset,
			MarkerOffset: p.MarkerOffset,
			LabelOffset:  p.LabelOffset,
		},
		Scene: SceneConfig{
			Speed:       scene.DefaultOmega,
			MinDistance: scene.DefaultMinDistance,
			MaxDistance: scene.DefaultMaxDistance,
		},
		History: HistoryConfig{Limit: sequence.DefaultHistoryLimit},
		Metrics: MetricsConfig{
			SiteCount:      b.SiteCount,
			HighScoreCount: b.HighScoreCount,
			AvgOnTarget:    b.AvgOnTarget,
			AvgOffTarget:   b.AvgOffTarget,
		},
		UI:  DefaultUIConfig(),
		TUI: TUIConfig{FrameInterval: DefaultFrameInterval, Watch: true},
	}
}
