// Package viewer provides the web helix viewer: the page, the frame stream
// and the camera and edit actions.
package viewer

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/internal/ui/notifier"
)

// SetupRoutes configures routes for the viewer feature.
func SetupRoutes(
	router chi.Router,
	sess *session.Session,
	animator *Animator,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(sess, animator, sessionStore, notify, logger, isDev)

	router.Get("/", handlers.ViewerPage)
	router.Get("/frames", handlers.FrameStream)
	router.Post("/camera", handlers.Camera)
	router.Post("/edit", handlers.Edit)
	router.Post("/speed", handlers.Speed)

	return nil
}
