package viewer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/helixlab/internal/analysis"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/internal/testutil"
	"github.com/leapstack-labs/helixlab/internal/ui/features/viewer/pages"
	viewertypes "github.com/leapstack-labs/helixlab/internal/ui/features/viewer/types"
	"github.com/leapstack-labs/helixlab/internal/ui/notifier"
	"github.com/leapstack-labs/helixlab/pkg/scene"
	"github.com/leapstack-labs/helixlab/pkg/sequence"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

type fixture struct {
	sess     *session.Session
	animator *Animator
	notifier *notifier.Notifier
}

func setupTestHandlers(t *testing.T) (*Handlers, *fixture) {
	t.Helper()

	res, err := analysis.Mock().Load(context.Background())
	require.NoError(t, err)

	cfg := session.DefaultConfig()
	cfg.Logger = testutil.NewTestLogger(t)
	sess, err := session.New(cfg, res)
	require.NoError(t, err)

	fx := &fixture{
		sess:     sess,
		animator: NewAnimator(sess, 10*time.Millisecond),
		notifier: notifier.New(),
	}
	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
	h := NewHandlers(sess, fx.animator, store, fx.notifier, cfg.Logger, false)
	return h, fx
}

func post(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// =============================================================================
// ViewerPage Tests
// =============================================================================

func TestViewerPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ViewerPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>BRCA1 - helixlab</title>",
		"/static/viewer.css",
		`data-init="@get('/frames')"`,
		`id="helix-scene"`,
		`id="viewer-panel"`,
		`id="camera-info"`,
		`id="viewer-status"`,
		"gRNA 1",
		"Edits: 0",
	} {
		assert.Contains(t, body, want, "response should contain %q", want)
	}
	assert.NotContains(t, body, "/reload", "hot reload is dev only")
}

func TestViewerPage_RestoresCameraFromCookie(t *testing.T) {
	h, fx := setupTestHandlers(t)

	rec := post(t, h.Camera, "/camera", `{"action":"zoom","factor":0.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	zoomed := fx.sess.Camera().Distance
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "camera should be stored in a cookie")

	fx.sess.ResetView()
	require.NotEqual(t, zoomed, fx.sess.Camera().Distance)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ViewerPage(httptest.NewRecorder(), req)

	assert.InDelta(t, zoomed, fx.sess.Camera().Distance, 1e-9)
}

func TestSaveCamera_KeepsViewerID(t *testing.T) {
	h, fx := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/camera", nil)
	rec := httptest.NewRecorder()
	first, err := h.saveCamera(rec, req, fx.sess.Camera())
	require.NoError(t, err)
	require.NotEmpty(t, first)

	next := httptest.NewRequest(http.MethodPost, "/camera", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	second, err := h.saveCamera(httptest.NewRecorder(), next, fx.sess.Camera())
	require.NoError(t, err)
	assert.Equal(t, first, second, "a returning viewer keeps its ID")
}

// =============================================================================
// Camera Tests
// =============================================================================

func TestCamera(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		check    func(t *testing.T, before, after scene.Camera)
		wantBody string
	}{
		{
			name: "orbit",
			body: `{"action":"orbit","dx":0.2,"dy":0.1}`,
			check: func(t *testing.T, before, after scene.Camera) {
				assert.InDelta(t, before.Azimuth+0.2, after.Azimuth, 1e-9)
				assert.InDelta(t, before.Elevation+0.1, after.Elevation, 1e-9)
			},
			wantBody: "camera-info",
		},
		{
			name: "zoom clamps to the minimum distance",
			body: `{"action":"zoom","factor":0.01}`,
			check: func(t *testing.T, _, after scene.Camera) {
				assert.InDelta(t, scene.DefaultMinDistance, after.Distance, 1e-9)
			},
			wantBody: "camera-info",
		},
		{
			name: "pan moves the target",
			body: `{"action":"pan","dx":1}`,
			check: func(t *testing.T, before, after scene.Camera) {
				assert.NotEqual(t, before.Target, after.Target)
			},
			wantBody: "camera-info",
		},
		{
			name: "unknown action",
			body: `{"action":"spin"}`,
			check: func(t *testing.T, before, after scene.Camera) {
				assert.Equal(t, before, after)
			},
			wantBody: "unknown camera action",
		},
		{
			name: "malformed signals",
			body: `{`,
			check: func(t *testing.T, before, after scene.Camera) {
				assert.Equal(t, before, after)
			},
			wantBody: "Failed to read signals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fx := setupTestHandlers(t)
			before := fx.sess.Camera()

			rec := post(t, h.Camera, "/camera", tt.body)

			tt.check(t, before, fx.sess.Camera())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

// =============================================================================
// Edit Tests
// =============================================================================

func TestEdit(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSeq   func(original string) string
		wantBody  string
		wantError bool
	}{
		{
			name:     "edit one base",
			body:     `{"op":"edit","index":1,"text":"g"}`,
			wantSeq:  func(o string) string { return o[:1] + "G" + o[2:] },
			wantBody: "position 1 set to G",
		},
		{
			name:      "invalid symbol is rejected",
			body:      `{"op":"edit","index":1,"text":"X"}`,
			wantSeq:   func(o string) string { return o },
			wantBody:  "invalid symbol",
			wantError: true,
		},
		{
			name:      "out of range delete",
			body:      `{"op":"delete","index":999}`,
			wantSeq:   func(o string) string { return o },
			wantBody:  "out of range",
			wantError: true,
		},
		{
			name:     "insert filters invalid characters",
			body:     `{"op":"insert","index":0,"text":"GGxx"}`,
			wantSeq:  func(o string) string { return "GG" + o },
			wantBody: "inserted 2 bases at 0",
		},
		{
			name:     "set replaces the sequence",
			body:     `{"op":"set","text":"ATGC"}`,
			wantSeq:  func(string) string { return "ATGC" },
			wantBody: "sequence set (4 bases)",
		},
		{
			name:      "set with no valid bases",
			body:      `{"op":"set","text":"xyz"}`,
			wantSeq:   func(string) string { return "" },
			wantBody:  "the sequence is now empty",
			wantError: true,
		},
		{
			name:     "undo with empty history",
			body:     `{"op":"undo"}`,
			wantSeq:  func(o string) string { return o },
			wantBody: "nothing to undo",
		},
		{
			name:      "unknown operation",
			body:      `{"op":"reverse"}`,
			wantSeq:   func(o string) string { return o },
			wantBody:  "unknown edit operation",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fx := setupTestHandlers(t)
			original := fx.sess.Sequence()

			rec := post(t, h.Edit, "/edit", tt.body)

			assert.Equal(t, tt.wantSeq(original), fx.sess.Sequence())
			body := rec.Body.String()
			assert.Contains(t, body, tt.wantBody)
			assert.Contains(t, body, "viewer-status")
			assert.Equal(t, tt.wantError, strings.Contains(body, "status error"))
		})
	}
}

func TestEdit_UndoRestores(t *testing.T) {
	h, fx := setupTestHandlers(t)
	original := fx.sess.Sequence()

	post(t, h.Edit, "/edit", `{"op":"delete","index":0}`)
	require.NotEqual(t, original, fx.sess.Sequence())

	rec := post(t, h.Edit, "/edit", `{"op":"undo"}`)
	assert.Equal(t, original, fx.sess.Sequence())
	assert.Contains(t, rec.Body.String(), "undone")
}

func TestEdit_SetBroadcasts(t *testing.T) {
	h, fx := setupTestHandlers(t)
	ch := fx.notifier.Subscribe()
	defer fx.notifier.Unsubscribe(ch)

	post(t, h.Edit, "/edit", `{"op":"set","text":"GATTACA"}`)

	select {
	case <-ch:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("set should refresh the panel")
	}
}

// =============================================================================
// Speed Tests
// =============================================================================

func TestSpeed(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSpeed float64
		wantBody  string
	}{
		{name: "valid", body: `{"speed":0.5}`, wantSpeed: 0.5, wantBody: "speed 0.50 rad/s"},
		{name: "zero pauses", body: `{"speed":0}`, wantSpeed: 0, wantBody: "speed 0.00 rad/s"},
		{name: "too fast", body: `{"speed":5}`, wantSpeed: scene.DefaultOmega, wantBody: "between 0 and 2"},
		{name: "negative", body: `{"speed":-1}`, wantSpeed: scene.DefaultOmega, wantBody: "between 0 and 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fx := setupTestHandlers(t)
			rec := post(t, h.Speed, "/speed", tt.body)

			assert.InDelta(t, tt.wantSpeed, fx.sess.Speed(), 1e-9)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

// =============================================================================
// FrameStream Tests
// =============================================================================

func TestFrameStream_PatchesSceneAndPanel(t *testing.T) {
	h, fx := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/frames", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.FrameStream(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fx.animator.Step(0.1)
	time.Sleep(20 * time.Millisecond)
	_, err := fx.sess.EditAt(0, "C")
	require.NoError(t, err)
	fx.notifier.Broadcast()

	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 2)
	assert.Contains(t, body, `id="helix-scene"`)
	assert.Contains(t, body, `id="viewer-panel"`)
	assert.Contains(t, body, "Edits: 1")
}

func TestFrameStream_NoEventsWithoutTicks(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/frames", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	h.FrameStream(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
}

// =============================================================================
// Animator and Component Tests
// =============================================================================

func TestAnimator_StepAdvancesSharedRotation(t *testing.T) {
	_, fx := setupTestHandlers(t)
	ch := fx.animator.Frames().Subscribe()
	defer fx.animator.Frames().Unsubscribe(ch)

	fx.animator.Step(1)

	f, err := fx.animator.Latest()
	require.NoError(t, err)
	assert.InDelta(t, scene.DefaultOmega, f.Transform.Angle, 1e-9)
	select {
	case <-ch:
	default:
		t.Error("step should ping frame subscribers")
	}
}

func TestAnimator_RunStopsOnCancel(t *testing.T) {
	_, fx := setupTestHandlers(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	require.NoError(t, fx.animator.Run(ctx))

	f, err := fx.animator.Latest()
	require.NoError(t, err)
	assert.Greater(t, f.Transform.Angle, 0.0, "ticks should have advanced the rotation")
}

func TestSceneSVG(t *testing.T) {
	_, fx := setupTestHandlers(t)
	f, err := fx.animator.Latest()
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, pages.SceneSVG(f).Render(context.Background(), &b))
	svg := b.String()

	assert.True(t, strings.HasPrefix(svg, `<svg id="helix-scene"`))
	assert.Equal(t, 2, strings.Count(svg, `class="backbone"`))
	assert.Contains(t, svg, `class="connector"`)
	assert.Contains(t, svg, `class="annotation"`)
	assert.Contains(t, svg, "gRNA 3")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		res  sequence.Result
		want viewertypes.Status
	}{
		{name: "success", res: sequence.Result{Count: 1}, want: viewertypes.Status{Message: "done"}},
		{name: "silent no-op", res: sequence.Result{NoOp: true}, want: viewertypes.Status{Message: "nothing changed", Error: true}},
		{
			name: "success with warning",
			res: sequence.Result{Count: 2, Warnings: []sequence.Warning{
				{Kind: sequence.WarnDroppedCharacters, Dropped: []rune("X")},
			}},
			want: viewertypes.Status{Message: "done (" + sequence.Warning{Kind: sequence.WarnDroppedCharacters, Dropped: []rune("X")}.String() + ")"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.res, "done"))
		})
	}
}
