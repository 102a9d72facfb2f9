package scene

import (
	"math"

	"github.com/leapstack-labs/helixlab/pkg/core"
)

// Camera defaults.
const (
	DefaultMinDistance = 8.0
	DefaultMaxDistance = 50.0
	DefaultFOV         = 60.0

	// elevationLimit keeps the camera off the poles so the up vector stays defined.
	elevationLimit = math.Pi/2 - 0.01
)

// DefaultEye is the initial camera position.
var DefaultEye = core.Vec3{X: 15, Y: 10, Z: 15}

// Camera is an orbit camera around Target. All controls clamp instead of
// failing; Distance always stays inside [MinDist, MaxDist].
type Camera struct {
	Azimuth   float64
	Elevation float64
	Distance  float64
	Target    core.Vec3
	MinDist   float64
	MaxDist   float64
	// FOV is the vertical field of view in degrees.
	FOV float64
}

// NewCamera returns a camera looking at the origin from DefaultEye.
func NewCamera(minDist, maxDist float64) Camera {
	if minDist <= 0 {
		minDist = DefaultMinDistance
	}
	if maxDist < minDist {
		maxDist = minDist
	}
	c := Camera{MinDist: minDist, MaxDist: maxDist, FOV: DefaultFOV}
	c.LookFrom(DefaultEye)
	return c
}

// LookFrom positions the camera at eye, keeping Target.
func (c *Camera) LookFrom(eye core.Vec3) {
	d := eye.Sub(c.Target)
	c.Distance = d.Len()
	c.Azimuth = math.Atan2(d.X, d.Z)
	if c.Distance > 0 {
		c.Elevation = math.Asin(d.Y / c.Distance)
	}
	c.clamp()
}

// Orbit rotates the camera around the target.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	c.Azimuth = math.Mod(c.Azimuth+dAzimuth, 2*math.Pi)
	c.Elevation += dElevation
	c.clamp()
}

// Pan moves the target in the camera's screen plane.
func (c *Camera) Pan(dx, dy float64) {
	right, up, _ := c.Basis()
	c.Target = c.Target.Add(right.Scale(dx)).Add(up.Scale(dy))
}

// Zoom multiplies the distance by factor (< 1 moves closer).
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	c.Distance *= factor
	c.clamp()
}

// SetDistance sets the distance, clamped to the allowed range.
func (c *Camera) SetDistance(d float64) {
	c.Distance = d
	c.clamp()
}

// Eye returns the camera position.
func (c Camera) Eye() core.Vec3 {
	sinEl, cosEl := math.Sincos(c.Elevation)
	sinAz, cosAz := math.Sincos(c.Azimuth)
	offset := core.Vec3{
		X: c.Distance * cosEl * sinAz,
		Y: c.Distance * sinEl,
		Z: c.Distance * cosEl * cosAz,
	}
	return c.Target.Add(offset)
}

// Basis returns the camera's right, up and forward unit vectors.
func (c Camera) Basis() (right, up, forward core.Vec3) {
	forward = c.Target.Sub(c.Eye()).Normalize()
	right = forward.Cross(core.Vec3{Y: 1}).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

func (c *Camera) clamp() {
	if math.IsNaN(c.Distance) || c.Distance < c.MinDist {
		c.Distance = c.MinDist
	}
	if c.Distance > c.MaxDist {
		c.Distance = c.MaxDist
	}
	c.Elevation = math.Max(-elevationLimit, math.Min(elevationLimit, c.Elevation))
}
