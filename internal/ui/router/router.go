// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/helixlab/internal/session"
	viewerFeature "github.com/leapstack-labs/helixlab/internal/ui/features/viewer"
	"github.com/leapstack-labs/helixlab/internal/ui/notifier"
	"github.com/leapstack-labs/helixlab/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	sess *session.Session,
	animator *viewerFeature.Animator,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	if isDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	return viewerFeature.SetupRoutes(router, sess, animator, sessionStore, notify, logger, isDev)
}

// setupReload serves the dev-mode live reload pair: /reload is held open
// by the page, and a request to /hotreload makes it refresh.
func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
