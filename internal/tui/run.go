package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/helixlab/internal/analysis"
	"github.com/leapstack-labs/helixlab/internal/session"
)

// Options configures Run.
type Options struct {
	Session       *session.Session
	FrameInterval time.Duration
	// Provider, when set together with Watch, is reloaded into the session
	// whenever its fixture changes.
	Provider *analysis.FileProvider
	Watch    bool
	Logger   *slog.Logger
	Input    io.Reader
	Output   io.Writer
}

// Run starts the viewer and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	p := tea.NewProgram(New(opts.Session, opts.FrameInterval), progOpts...)

	if opts.Provider != nil && opts.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := analysis.Watch(watchCtx, opts.Provider, logger, func(res *analysis.Result, err error) {
				p.Send(reloadMsg{res: res, err: err})
			})
			if err != nil {
				logger.Warn("fixture watch stopped", "error", err)
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
