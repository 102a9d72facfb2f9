package scene

import (
	"math"
	"sort"

	"github.com/leapstack-labs/helixlab/pkg/core"
)

// nearPlane is the minimum view depth a point needs to be drawn.
const nearPlane = 0.1

// ScreenPoint is a projected point. X grows right and Y grows down.
type ScreenPoint struct {
	X, Y  float64
	Depth float64
}

// ScreenPrimitive is a primitive after perspective projection.
type ScreenPrimitive struct {
	Primitive
	Screen []ScreenPoint
	// Depth is the mean view depth, used for painter's ordering.
	Depth float64
	// Visible is false when any point lies behind the near plane.
	Visible bool
}

// Project maps every primitive onto a w×h viewport using the camera's
// perspective. The result is sorted far to near so hosts can paint in order.
func (f Frame) Project(w, h float64) []ScreenPrimitive {
	eye := f.Camera.Eye()
	right, up, forward := f.Camera.Basis()

	fov := f.Camera.FOV
	if fov <= 0 || fov >= 180 {
		fov = DefaultFOV
	}
	focal := (h / 2) / math.Tan(fov*math.Pi/360)

	out := make([]ScreenPrimitive, 0, len(f.Primitives))
	for _, p := range f.Primitives {
		sp := ScreenPrimitive{Primitive: p, Screen: make([]ScreenPoint, len(p.Points)), Visible: len(p.Points) > 0}
		var sum float64
		for i, pt := range p.Points {
			s := projectPoint(pt, eye, right, up, forward, focal, w, h)
			if s.Depth < nearPlane {
				sp.Visible = false
			}
			sp.Screen[i] = s
			sum += s.Depth
		}
		if len(p.Points) > 0 {
			sp.Depth = sum / float64(len(p.Points))
		}
		out = append(out, sp)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}

func projectPoint(p, eye, right, up, forward core.Vec3, focal, w, h float64) ScreenPoint {
	d := p.Sub(eye)
	z := d.Dot(forward)
	if z < nearPlane {
		return ScreenPoint{X: w / 2, Y: h / 2, Depth: z}
	}
	return ScreenPoint{
		X:     w/2 + d.Dot(right)*focal/z,
		Y:     h/2 - d.Dot(up)*focal/z,
		Depth: z,
	}
}
