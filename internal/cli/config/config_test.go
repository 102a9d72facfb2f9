package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/helixlab/pkg/helix"
	"github.com/leapstack-labs/helixlab/pkg/metrics"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("analysis", "", "analysis fixture")
	flags.Int("resolution", 0, "helix resolution")
	flags.Float64("turns", 0, "helix turns")
	flags.Int("history-limit", 0, "undo history")
	flags.String("output", "", "output format")
	flags.Bool("verbose", false, "verbose")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, helix.DefaultParams(), cfg.HelixParams())
	assert.Equal(t, metrics.DefaultBaseline(), cfg.Baseline())
	assert.Equal(t, 256, cfg.History.Limit)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultFrameInterval, cfg.TUI.FrameInterval)
	assert.Empty(t, cfg.Analysis)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())

	ui := cfg.GetUIConfig()
	assert.Equal(t, DefaultUIPort, ui.Port)
	assert.True(t, ui.Watch)
	assert.True(t, ui.AutoOpen)
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `analysis: fixtures/brca1.yaml
helix:
  resolution: 60
  turns: 4
history:
  limit: 10
ui:
  port: 9000
  frame_interval: 250ms
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, 60, cfg.Helix.Resolution)
	assert.InDelta(t, 4, cfg.Helix.Turns, 0)
	assert.InDelta(t, 2.5, cfg.Helix.Radius, 0, "unset keys keep defaults")
	assert.Equal(t, 10, cfg.History.Limit)
	assert.Equal(t, 9000, cfg.GetUIConfig().Port)
	assert.Equal(t, 250*time.Millisecond, cfg.GetUIConfig().FrameInterval)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "fixtures", "brca1.yaml"), cfg.Analysis,
		"file paths resolve against the config directory")
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileNameAlt), []byte("helix:\n  resolution: 33\n"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 33, cfg.Helix.Resolution)
	assert.Equal(t, ConfigFileNameAlt, filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "helix:\n  resolution: 60\nhistory:\n  limit: 5\n")
	t.Setenv("HELIXLAB_HELIX__RESOLUTION", "80")
	t.Setenv("HELIXLAB_HISTORY__LIMIT", "7")

	tests := []struct {
		name           string
		setFlags       map[string]string
		wantResolution int
		wantLimit      int
	}{
		{name: "env over file", wantResolution: 80, wantLimit: 7},
		{name: "flag over env", setFlags: map[string]string{"resolution": "90"}, wantResolution: 90, wantLimit: 7},
		{name: "kebab flag maps to nested key", setFlags: map[string]string{"history-limit": "3"}, wantResolution: 80, wantLimit: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			flags := testFlags()
			for name, v := range tt.setFlags {
				require.NoError(t, flags.Set(name, v))
			}

			cfg, err := LoadConfig(path, flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantResolution, cfg.Helix.Resolution)
			assert.Equal(t, tt.wantLimit, cfg.History.Limit)
		})
	}
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("HELIXLAB_OUTPUT", "json")

	cfg, err := LoadConfig("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat, "env var should be used when flag is not set")
}

func TestLoadConfig_AnalysisFlagRelativeToCWD(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	flags := testFlags()
	require.NoError(t, flags.Set("analysis", "fx.yaml"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	want, err := filepath.Abs("fx.yaml")
	require.NoError(t, err)
	assert.Equal(t, want, cfg.Analysis)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero resolution", "helix:\n  resolution: 0\n", "helix"},
		{"negative history", "history:\n  limit: -1\n", "history.limit"},
		{"bad output", "output: yaml\n", "unknown output format"},
		{"bad log level", "log_level: loud\n", "unknown log level"},
		{"inverted distances", "scene:\n  min_distance: 20\n  max_distance: 10\n", "max_distance"},
		{"bad duration", "tui:\n  frame_interval: soon\n", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	cfg := &Config{LogLevel: "error", Verbose: true}
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestGetUIConfig_FillsUnset(t *testing.T) {
	cfg := &Config{UI: &UIConfig{Port: 0}}
	ui := cfg.GetUIConfig()
	assert.Equal(t, DefaultUIPort, ui.Port)
	assert.Equal(t, DefaultSessionSecret, ui.SessionSecret)
	assert.Equal(t, DefaultFrameInterval, ui.FrameInterval)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, helix.DefaultParams(), cfg.HelixParams())
	assert.Equal(t, metrics.DefaultBaseline(), cfg.Baseline())
}
