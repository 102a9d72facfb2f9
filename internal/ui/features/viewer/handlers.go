package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/internal/ui/features/viewer/pages"
	viewertypes "github.com/leapstack-labs/helixlab/internal/ui/features/viewer/types"
	"github.com/leapstack-labs/helixlab/internal/ui/notifier"
	"github.com/leapstack-labs/helixlab/pkg/scene"
	"github.com/leapstack-labs/helixlab/pkg/sequence"
	"github.com/starfederation/datastar-go/datastar"
)

// cameraSessionName is the cookie session remembering a viewer's camera.
const cameraSessionName = "helixlab-camera"

// maxSpeed bounds the speed slider in rad/s.
const maxSpeed = 2.0

// Handlers provides HTTP handlers for the viewer.
type Handlers struct {
	sess         *session.Session
	animator     *Animator
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sess *session.Session, animator *Animator, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		sess:         sess,
		animator:     animator,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
		isDev:        isDev,
	}
}

// ViewerPage renders the full page. A camera remembered in the viewer's
// cookie is restored first.
func (h *Handlers) ViewerPage(w http.ResponseWriter, r *http.Request) {
	if cam, ok := h.loadCamera(r); ok {
		h.sess.SetCamera(cam)
	}
	f, _ := h.animator.Latest()

	page := pages.Page(h.isDev, h.sess.View(), f, h.sess.Camera(), viewertypes.Status{})
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// FrameStream is the long-lived SSE endpoint. It patches the scene after
// every animator frame and the side panel after every session change.
func (h *Handlers) FrameStream(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	frames := h.animator.Frames().Subscribe()
	defer h.animator.Frames().Unsubscribe(frames)
	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-frames:
			f, err := h.animator.Latest()
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(pages.SceneSVG(f)); err != nil {
				return
			}
		case <-updates:
			if err := sse.PatchElementTempl(pages.Panel(h.sess.View())); err != nil {
				return
			}
		}
	}
}

// Camera applies a camera action and remembers the result in the
// viewer's cookie.
func (h *Handlers) Camera(w http.ResponseWriter, r *http.Request) {
	var signals viewertypes.CameraSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(pages.StatusLine(viewertypes.Status{Message: "Failed to read signals: " + err.Error(), Error: true}))
		return
	}

	if err := h.applyCamera(signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(pages.StatusLine(viewertypes.Status{Message: err.Error(), Error: true}))
		return
	}

	cam := h.sess.Camera()
	viewerID, err := h.saveCamera(w, r, cam)
	if err != nil {
		h.logger.Warn("failed to save camera", "error", err)
	}
	h.logger.Debug("camera updated", "viewer", viewerID, "action", signals.Action)

	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElementTempl(pages.CameraInfo(cam))
}

func (h *Handlers) applyCamera(s viewertypes.CameraSignals) error {
	switch s.Action {
	case viewertypes.ActionOrbit:
		h.sess.Orbit(s.DX, s.DY)
	case viewertypes.ActionPan:
		h.sess.Pan(s.DX, s.DY)
	case viewertypes.ActionZoom:
		h.sess.Zoom(s.Factor)
	case viewertypes.ActionReset:
		h.sess.ResetView()
	default:
		return fmt.Errorf("unknown camera action %q", s.Action)
	}
	return nil
}

// Edit applies one sequence operation. Successful changes reach every
// stream through the notifier; this response only carries the status line.
func (h *Handlers) Edit(w http.ResponseWriter, r *http.Request) {
	var signals viewertypes.EditSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(pages.StatusLine(viewertypes.Status{Message: "Failed to read signals: " + err.Error(), Error: true}))
		return
	}

	status := h.applyEdit(signals)
	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElementTempl(pages.StatusLine(status))
}

func (h *Handlers) applyEdit(s viewertypes.EditSignals) viewertypes.Status {
	var (
		res sequence.Result
		err error
		msg string
	)
	switch s.Op {
	case viewertypes.OpEdit:
		res, err = h.sess.EditAt(s.Index, s.Text)
		msg = fmt.Sprintf("position %d set to %s", s.Index, strings.ToUpper(s.Text))
	case viewertypes.OpDelete:
		res, err = h.sess.DeleteAt(s.Index)
		msg = fmt.Sprintf("deleted position %d", s.Index)
	case viewertypes.OpInsert:
		res, err = h.sess.InsertAt(s.Index, s.Text)
		msg = fmt.Sprintf("inserted %d bases at %d", res.Count, res.Position)
	case viewertypes.OpSet:
		res = h.sess.Set(s.Text)
		// Set does not notify listeners.
		h.notifier.Broadcast()
		if res.Count == 0 {
			return viewertypes.Status{Message: "no valid bases, the sequence is now empty", Error: true}
		}
		msg = fmt.Sprintf("sequence set (%d bases)", res.Count)
	case viewertypes.OpUndo:
		if !h.sess.Undo() {
			return viewertypes.Status{Message: "nothing to undo"}
		}
		return viewertypes.Status{Message: "undone"}
	default:
		err = fmt.Errorf("unknown edit operation %q", s.Op)
	}
	if err != nil {
		return viewertypes.Status{Message: err.Error(), Error: true}
	}
	return describe(res, msg)
}

// describe turns an operation result into a status line. Warnings are
// appended; a no-op is reported as an error.
func describe(res sequence.Result, msg string) viewertypes.Status {
	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.String())
	}
	if res.NoOp {
		if len(warnings) == 0 {
			return viewertypes.Status{Message: "nothing changed", Error: true}
		}
		return viewertypes.Status{Message: strings.Join(warnings, "; "), Error: true}
	}
	if len(warnings) > 0 {
		msg += " (" + strings.Join(warnings, "; ") + ")"
	}
	return viewertypes.Status{Message: msg}
}

// Speed sets the rotation speed.
func (h *Handlers) Speed(w http.ResponseWriter, r *http.Request) {
	var signals viewertypes.SpeedSignals
	err := datastar.ReadSignals(r, &signals)
	if err == nil && (signals.Speed < 0 || signals.Speed > maxSpeed) {
		err = errors.New("speed must be between 0 and 2 rad/s")
	}

	sse := datastar.NewSSE(w, r)
	if err != nil {
		_ = sse.PatchElementTempl(pages.StatusLine(viewertypes.Status{Message: err.Error(), Error: true}))
		return
	}
	h.sess.SetSpeed(signals.Speed)
	_ = sse.PatchElementTempl(pages.StatusLine(viewertypes.Status{Message: fmt.Sprintf("speed %.2f rad/s", signals.Speed)}))
}

func (h *Handlers) loadCamera(r *http.Request) (scene.Camera, bool) {
	sess, err := h.sessionStore.Get(r, cameraSessionName)
	if err != nil || sess.IsNew {
		return scene.Camera{}, false
	}
	az, ok1 := sess.Values["azimuth"].(float64)
	el, ok2 := sess.Values["elevation"].(float64)
	dist, ok3 := sess.Values["distance"].(float64)
	if !ok1 || !ok2 || !ok3 {
		return scene.Camera{}, false
	}
	cam := h.sess.Camera()
	cam.Azimuth, cam.Elevation, cam.Distance = az, el, dist
	cam.Target.X, _ = sess.Values["target_x"].(float64)
	cam.Target.Y, _ = sess.Values["target_y"].(float64)
	cam.Target.Z, _ = sess.Values["target_z"].(float64)
	return cam, true
}

// saveCamera stores cam in the viewer's cookie and returns the viewer ID,
// assigning one on first save.
func (h *Handlers) saveCamera(w http.ResponseWriter, r *http.Request, cam scene.Camera) (string, error) {
	sess, err := h.sessionStore.Get(r, cameraSessionName)
	if err != nil && sess == nil {
		return "", err
	}
	id, ok := sess.Values["viewer"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		sess.Values["viewer"] = id
	}
	sess.Values["azimuth"] = cam.Azimuth
	sess.Values["elevation"] = cam.Elevation
	sess.Values["distance"] = cam.Distance
	sess.Values["target_x"] = cam.Target.X
	sess.Values["target_y"] = cam.Target.Y
	sess.Values["target_z"] = cam.Target.Z
	return id, sess.Save(r, w)
}
