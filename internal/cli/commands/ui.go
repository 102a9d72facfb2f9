package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/helixlab/internal/ui"
	"github.com/spf13/cobra"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the web helix viewer",
		Long: `Start a local web server with an interactive helix viewer.

The viewer provides:
- A rotating 3D helix streamed to the browser
- Orbit, pan and zoom controls (remembered per browser)
- Sequence editing with undo
- Live metrics and the gRNA annotation table

All browser tabs share one editing session.`,
		Example: `  # Start the viewer on the default port
  helixlab ui

  # Start on a custom port without opening a browser
  helixlab ui --port 3000 --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the analysis fixture when it changes")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable request logging and live page reload")
	_ = cmd.Flags().MarkHidden("dev")
	overridesKey(cmd, "port", "ui.port")
	overridesKey(cmd, "no-browser", "ui.auto_open")
	overridesKey(cmd, "watch", "ui.watch")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cmdCtx := NewCommandContext(cmd)
	uiCfg := cmdCtx.Cfg.GetUIConfig()

	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	sess, err := cmdCtx.NewSession(cmd.Context())
	if err != nil {
		return err
	}

	serverCfg := ui.Config{
		Session:       sess,
		Port:          port,
		Watch:         watch,
		Dev:           opts.Dev,
		SessionSecret: uiCfg.SessionSecret,
		FrameInterval: uiCfg.FrameInterval,
		Logger:        cmdCtx.Logger,
	}
	if fp, ok := cmdCtx.FileProvider(); ok {
		serverCfg.Provider = fp
	}

	server := ui.NewServer(serverCfg)

	url := fmt.Sprintf("http://localhost:%d", port)
	if autoOpen {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Println(fmt.Sprintf("Serving %s on %s", sess.Gene(), url))
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
