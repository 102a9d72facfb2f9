package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/helixlab/internal/analysis"
	"github.com/leapstack-labs/helixlab/internal/cli/config"
	"github.com/leapstack-labs/helixlab/internal/cli/output"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Provider analysis.Provider
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Provider: newProvider(cfg),
	}
}

// LoadAnalysis loads the configured analysis.
func (c *CommandContext) LoadAnalysis(ctx context.Context) (*analysis.Result, error) {
	res, err := c.Provider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}
	c.Logger.Debug("analysis loaded", "source", res.Source, "gene", res.Gene, "annotations", len(res.Annotations))
	return res, nil
}

// SessionConfig assembles the session settings from the CLI config.
func (c *CommandContext) SessionConfig() session.Config {
	return session.Config{
		Helix:        c.Cfg.HelixParams(),
		HistoryLimit: c.Cfg.History.Limit,
		Omega:        c.Cfg.Scene.Speed,
		MinDistance:  c.Cfg.Scene.MinDistance,
		MaxDistance:  c.Cfg.Scene.MaxDistance,
		Baseline:     c.Cfg.Baseline(),
		Logger:       c.Logger,
	}
}

// NewSession loads the analysis and starts a session from it.
func (c *CommandContext) NewSession(ctx context.Context) (*session.Session, error) {
	res, err := c.LoadAnalysis(ctx)
	if err != nil {
		return nil, err
	}
	return session.New(c.SessionConfig(), res)
}

// FileProvider returns the fixture provider when one is configured.
func (c *CommandContext) FileProvider() (*analysis.FileProvider, bool) {
	fp, ok := c.Provider.(*analysis.FileProvider)
	return fp, ok
}

func newProvider(cfg *config.Config) analysis.Provider {
	if cfg.Analysis == "" {
		return analysis.Mock()
	}
	return analysis.NewFileProvider(cfg.Analysis)
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded (commands run outside the root command).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// overridesKey marks a local flag as overriding a config key.
func overridesKey(cmd *cobra.Command, flag, key string) {
	_ = cmd.Flags().SetAnnotation(flag, config.FlagKeyAnnotation, []string{key})
}
