// Package session owns one editing session: the sequence model, the
// analysis it was loaded from, the rotating scene and the camera.
//
// Every host (REPL, terminal viewer, web viewer) drives a Session. All
// methods are safe for concurrent use. Change listeners run after the
// session lock is released, so they may call back into the session.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/helixlab/internal/analysis"
	"github.com/leapstack-labs/helixlab/pkg/core"
	"github.com/leapstack-labs/helixlab/pkg/helix"
	"github.com/leapstack-labs/helixlab/pkg/metrics"
	"github.com/leapstack-labs/helixlab/pkg/scene"
	"github.com/leapstack-labs/helixlab/pkg/sequence"
)

// Config holds the tunables for a Session.
type Config struct {
	Helix        helix.Params
	HistoryLimit int
	Omega        float64
	MinDistance  float64
	MaxDistance  float64
	Baseline     metrics.Baseline
	Logger       *slog.Logger
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Helix:        helix.DefaultParams(),
		HistoryLimit: sequence.DefaultHistoryLimit,
		Omega:        scene.DefaultOmega,
		MinDistance:  scene.DefaultMinDistance,
		MaxDistance:  scene.DefaultMaxDistance,
		Baseline:     metrics.DefaultBaseline(),
	}
}

// ChangeFunc is called with the full sequence after each committed change.
type ChangeFunc func(sequence string)

// Session is the single owner of one editing session.
type Session struct {
	mu sync.Mutex

	cfg      Config
	logger   *slog.Logger
	model    *sequence.Model
	analysis *analysis.Result
	rotor    *scene.Rotor
	camera   scene.Camera
	composer scene.Composer

	geometry *helix.Geometry
	dirty    bool

	listeners []ChangeFunc
	pending   []string
}

// New starts a session from an analysis result.
func New(cfg Config, res *analysis.Result) (*Session, error) {
	if res == nil {
		return nil, analysis.ErrNoSequence
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis: %w", err)
	}
	if err := cfg.Helix.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		cfg:      cfg,
		logger:   logger,
		model:    sequence.New(sequence.WithHistoryLimit(cfg.HistoryLimit)),
		analysis: res.Normalized(),
		rotor:    scene.NewRotor(cfg.Omega),
		camera:   scene.NewCamera(cfg.MinDistance, cfg.MaxDistance),
		composer: scene.NewComposer(),
		dirty:    true,
	}
	s.model.Set(s.analysis.Sequence)
	s.model.OnChange(s.recordChange)

	logger.Debug("session started",
		"gene", res.Gene,
		"length", s.model.Len(),
		"annotations", len(res.Annotations),
		"source", res.Source)
	return s, nil
}

// recordChange runs inside model calls, with mu held.
func (s *Session) recordChange(seq string) {
	s.dirty = true
	s.pending = append(s.pending, seq)
}

// OnSequenceChange registers fn to run after every committed edit, delete,
// insert or undo.
func (s *Session) OnSequenceChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// flush must be called with mu held. It clears the pending changes and
// returns the listener calls to make once mu is released.
func (s *Session) flush() func() {
	if len(s.pending) == 0 {
		return func() {}
	}
	changes := s.pending
	s.pending = nil
	listeners := append([]ChangeFunc(nil), s.listeners...)
	return func() {
		for _, seq := range changes {
			for _, fn := range listeners {
				fn(seq)
			}
		}
	}
}

func (s *Session) logWarnings(op string, res sequence.Result) {
	for _, w := range res.Warnings {
		s.logger.Warn("edit warning", "op", op, "warning", w.String())
	}
}

// Set replaces the whole sequence and clears the undo history.
func (s *Session) Set(text string) sequence.Result {
	s.mu.Lock()
	res := s.model.Set(text)
	s.dirty = true
	s.mu.Unlock()

	s.logWarnings("set", res)
	return res
}

// EditAt replaces the symbol at index.
func (s *Session) EditAt(index int, symbol string) (sequence.Result, error) {
	s.mu.Lock()
	res, err := s.model.EditAt(index, symbol)
	fire := s.flush()
	s.mu.Unlock()

	s.logWarnings("edit", res)
	fire()
	return res, err
}

// DeleteAt removes the symbol at index.
func (s *Session) DeleteAt(index int) (sequence.Result, error) {
	s.mu.Lock()
	res, err := s.model.DeleteAt(index)
	fire := s.flush()
	s.mu.Unlock()

	fire()
	return res, err
}

// InsertAt inserts the valid symbols of text at position.
func (s *Session) InsertAt(position int, text string) (sequence.Result, error) {
	s.mu.Lock()
	res, err := s.model.InsertAt(position, text)
	fire := s.flush()
	s.mu.Unlock()

	s.logWarnings("insert", res)
	fire()
	return res, err
}

// Undo reverts the most recent change. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	ok := s.model.Undo()
	fire := s.flush()
	s.mu.Unlock()

	fire()
	return ok
}

// Sequence returns the current sequence.
func (s *Session) Sequence() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.String()
}

// Gene returns the analysed gene name.
func (s *Session) Gene() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis.Gene
}

// Analysis returns a copy of the current analysis.
func (s *Session) Analysis() *analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis.Clone()
}

// Metrics returns the derived metrics for the current sequence.
func (s *Session) Metrics() (metrics.Summary, metrics.Trends) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metricsLocked()
}

func (s *Session) metricsLocked() (metrics.Summary, metrics.Trends) {
	count := len(s.analysis.Annotations)
	sum := metrics.Compute(s.model.String(), s.analysis.Sequence, count, s.cfg.Baseline)
	return sum, sum.Trends(s.cfg.Baseline, count)
}

// ReloadAnalysis swaps in a new analysis. Annotations, gene and reference
// length always follow the new result. The sequence is replaced only when
// the session has no edits to lose.
func (s *Session) ReloadAnalysis(res *analysis.Result) error {
	if res == nil {
		return analysis.ErrNoSequence
	}
	if err := res.Validate(); err != nil {
		return fmt.Errorf("invalid analysis: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.analysis = res.Normalized()
	s.dirty = true
	replaced := s.model.HistoryLen() == 0 && s.model.EditCount() == 0
	if replaced {
		s.model.Set(s.analysis.Sequence)
	}
	s.logger.Info("analysis reloaded",
		"gene", res.Gene,
		"annotations", len(res.Annotations),
		"sequence_replaced", replaced)
	return nil
}

// Geometry returns the static layout for the current sequence and
// annotations, rebuilding it only after a change.
func (s *Session) Geometry() (*helix.Geometry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geometryLocked()
}

func (s *Session) geometryLocked() (*helix.Geometry, error) {
	if !s.dirty && s.geometry != nil {
		return s.geometry, nil
	}
	g, err := helix.Build(s.cfg.Helix, s.model.Symbols(), s.analysis.ReferenceLength, s.analysis.Annotations)
	if err != nil {
		return nil, err
	}
	s.geometry = g
	s.dirty = false
	return g, nil
}

// Frame advances the rotation by dt and composes the frame to draw.
func (s *Session) Frame(dt float64) (scene.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.geometryLocked()
	if err != nil {
		return scene.Frame{}, err
	}
	t := s.rotor.Advance(dt)
	return s.composer.Compose(g, t, s.camera), nil
}

// SetSpeed changes the rotation speed; zero pauses.
func (s *Session) SetSpeed(omega float64) {
	s.mu.Lock()
	s.rotor.SetOmega(omega)
	s.mu.Unlock()
}

// Speed returns the rotation speed.
func (s *Session) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotor.Omega()
}

// Camera returns the current camera.
func (s *Session) Camera() scene.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// SetCamera replaces the camera, keeping the configured distance limits.
func (s *Session) SetCamera(c scene.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.MinDist, c.MaxDist = s.camera.MinDist, s.camera.MaxDist
	if c.FOV == 0 {
		c.FOV = s.camera.FOV
	}
	c.SetDistance(c.Distance)
	c.Orbit(0, 0)
	s.camera = c
}

// Orbit rotates the camera around its target.
func (s *Session) Orbit(dAzimuth, dElevation float64) {
	s.mu.Lock()
	s.camera.Orbit(dAzimuth, dElevation)
	s.mu.Unlock()
}

// Pan moves the camera target in the screen plane.
func (s *Session) Pan(dx, dy float64) {
	s.mu.Lock()
	s.camera.Pan(dx, dy)
	s.mu.Unlock()
}

// Zoom scales the camera distance.
func (s *Session) Zoom(factor float64) {
	s.mu.Lock()
	s.camera.Zoom(factor)
	s.mu.Unlock()
}

// ResetView restores the default camera and rotation angle.
func (s *Session) ResetView() {
	s.mu.Lock()
	s.camera = scene.NewCamera(s.cfg.MinDistance, s.cfg.MaxDistance)
	s.rotor.Reset()
	s.mu.Unlock()
}

// View is a consistent read of everything a host shows besides the 3D scene.
type View struct {
	Gene        string
	Sequence    []core.Symbol
	Edited      []bool
	EditCount   int
	HistoryLen  int
	Evicted     int
	Summary     metrics.Summary
	Trends      metrics.Trends
	Annotations []core.Annotation
}

// View snapshots the session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbols := s.model.Symbols()
	edited := make([]bool, len(symbols))
	for i := range edited {
		edited[i] = s.model.Edited(i)
	}
	sum, trends := s.metricsLocked()
	return View{
		Gene:        s.analysis.Gene,
		Sequence:    symbols,
		Edited:      edited,
		EditCount:   s.model.EditCount(),
		HistoryLen:  s.model.HistoryLen(),
		Evicted:     s.model.Evicted(),
		Summary:     sum,
		Trends:      trends,
		Annotations: append([]core.Annotation(nil), s.analysis.Annotations...),
	}
}
