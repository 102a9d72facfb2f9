// Package scene turns static helix geometry into per-frame primitive lists.
//
// The Rotor advances a single rotation angle by ω·Δt each tick and the
// Composer applies it as a rigid transform about the vertical axis. Neither
// mutates the geometry they are given; a host calls Advance and Compose once
// per display refresh and draws the resulting Frame.
package scene

import (
	"math"

	"github.com/leapstack-labs/helixlab/pkg/core"
)

// DefaultOmega turns the helix once every 60 time units.
const DefaultOmega = 2 * math.Pi / 60

// Transform is the rigid display transform applied to a static layout.
type Transform struct {
	// Angle is the rotation about the Y axis in radians, in [0, 2π).
	Angle float64
}

// Apply transforms a single point.
func (t Transform) Apply(v core.Vec3) core.Vec3 {
	return v.RotateY(t.Angle)
}

// Rotor owns the continuously advancing rotation angle.
type Rotor struct {
	omega float64
	angle float64
}

// NewRotor creates a rotor turning at omega radians per time unit.
func NewRotor(omega float64) *Rotor {
	return &Rotor{omega: omega}
}

// Advance moves the angle forward by omega·dt and returns the new transform.
// Negative or non-finite dt is ignored.
func (r *Rotor) Advance(dt float64) Transform {
	if dt > 0 && !math.IsInf(dt, 0) {
		r.angle = math.Mod(r.angle+r.omega*dt, 2*math.Pi)
		if r.angle < 0 {
			r.angle += 2 * math.Pi
		}
	}
	return Transform{Angle: r.angle}
}

// Transform returns the current transform without advancing.
func (r *Rotor) Transform() Transform { return Transform{Angle: r.angle} }

// Omega returns the angular speed.
func (r *Rotor) Omega() float64 { return r.omega }

// SetOmega changes the angular speed; zero pauses the rotation.
func (r *Rotor) SetOmega(omega float64) { r.omega = omega }

// Reset returns the angle to zero.
func (r *Rotor) Reset() { r.angle = 0 }
