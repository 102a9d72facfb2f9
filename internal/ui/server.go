// Package ui serves the web helix viewer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/helixlab/internal/analysis"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/internal/ui/features/viewer"
	"github.com/leapstack-labs/helixlab/internal/ui/notifier"
	"github.com/leapstack-labs/helixlab/internal/ui/router"
	"golang.org/x/sync/errgroup"
)

// Server is the web viewer server. All connected viewers share one session.
type Server struct {
	sess         *session.Session
	provider     *analysis.FileProvider
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	dev          bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
	animator     *viewer.Animator
}

// Config holds configuration for the UI server.
type Config struct {
	Session *session.Session
	// Provider is reloaded into the session on fixture changes when Watch
	// is set. Nil disables watching.
	Provider      *analysis.FileProvider
	Port          int
	Watch         bool
	Dev           bool
	SessionSecret string
	FrameInterval time.Duration
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		sess:         cfg.Session,
		provider:     cfg.Provider,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		dev:          cfg.Dev,
		logger:       logger,
		notifier:     notifier.New(),
		animator:     viewer.NewAnimator(cfg.Session, cfg.FrameInterval),
	}
	s.sess.OnSequenceChange(func(string) { s.notifier.Broadcast() })
	return s
}

// Handler builds the HTTP handler.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	if s.dev {
		r.Use(middleware.Logger)
	}

	if err := router.SetupRoutes(r, s.sess, s.animator, s.sessionStore, s.notifier, s.logger, s.dev); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		return s.animator.Run(egctx)
	})

	if s.watch && s.provider != nil {
		eg.Go(func() error {
			return analysis.Watch(egctx, s.provider, s.logger, s.reload)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the notifier pinged on every session change.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Animator returns the frame clock.
func (s *Server) Animator() *viewer.Animator {
	return s.animator
}

// reload applies a fixture reload and refreshes every viewer.
func (s *Server) reload(res *analysis.Result, err error) {
	if err != nil {
		s.logger.Error("analysis reload failed", "error", err)
		return
	}
	if err := s.sess.ReloadAnalysis(res); err != nil {
		s.logger.Error("analysis rejected", "error", err)
		return
	}
	s.notifier.Broadcast()
}
