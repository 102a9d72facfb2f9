package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/internal/ui/notifier"
	"github.com/leapstack-labs/helixlab/pkg/scene"
)

// DefaultFrameInterval is the frame period when none is configured.
const DefaultFrameInterval = 50 * time.Millisecond

// Animator owns the frame clock. It advances the shared session once per
// tick and pings every stream, so the rotation speed does not depend on how
// many viewers are connected.
type Animator struct {
	sess     *session.Session
	interval time.Duration
	frames   *notifier.Notifier

	mu    sync.RWMutex
	frame scene.Frame
	err   error
}

// NewAnimator creates an animator for sess. Non-positive intervals select
// DefaultFrameInterval.
func NewAnimator(sess *session.Session, interval time.Duration) *Animator {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	a := &Animator{sess: sess, interval: interval, frames: notifier.New()}
	a.frame, a.err = sess.Frame(0)
	return a
}

// Interval returns the frame period.
func (a *Animator) Interval() time.Duration { return a.interval }

// Frames returns the notifier pinged after each new frame.
func (a *Animator) Frames() *notifier.Notifier { return a.frames }

// Run ticks until ctx is cancelled.
func (a *Animator) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			a.Step(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Step advances the session by dt seconds, stores the frame and pings
// the streams.
func (a *Animator) Step(dt float64) {
	f, err := a.sess.Frame(dt)
	a.mu.Lock()
	if err == nil {
		a.frame = f
	}
	a.err = err
	a.mu.Unlock()
	a.frames.Broadcast()
}

// Latest returns the most recent frame and the error of the last step.
func (a *Animator) Latest() (scene.Frame, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frame, a.err
}
