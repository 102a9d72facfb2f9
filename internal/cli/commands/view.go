package commands

import (
	"github.com/leapstack-labs/helixlab/internal/tui"
	"github.com/spf13/cobra"
)

// ViewOptions holds options for the view command.
type ViewOptions struct {
	Watch bool
}

// NewViewCommand creates the view command.
func NewViewCommand() *cobra.Command {
	opts := &ViewOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the rotating helix in the terminal",
		Long: `Open a full-screen terminal viewer with the rotating double helix, the
sequence strip and the live metrics.

Arrow keys orbit the camera, w/a/s/d pan, +/- zoom, space pauses the
rotation and u undoes the last edit. With --analysis and --watch the view
reloads whenever the fixture file changes.`,
		Example: `  # View the built-in BRCA1 analysis
  helixlab view

  # View a fixture and reload it on change
  helixlab view --analysis brca1.yaml --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the analysis fixture when it changes")
	overridesKey(cmd, "watch", "tui.watch")
	return cmd
}

func runView(cmd *cobra.Command, opts *ViewOptions) error {
	cmdCtx := NewCommandContext(cmd)
	sess, err := cmdCtx.NewSession(cmd.Context())
	if err != nil {
		return err
	}

	watch := cmdCtx.Cfg.TUI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	runOpts := tui.Options{
		Session:       sess,
		FrameInterval: cmdCtx.Cfg.TUI.FrameInterval,
		Watch:         watch,
		Logger:        cmdCtx.Logger,
		Input:         cmd.InOrStdin(),
		Output:        cmd.OutOrStdout(),
	}
	if fp, ok := cmdCtx.FileProvider(); ok {
		runOpts.Provider = fp
	}
	return tui.Run(cmd.Context(), runOpts)
}
