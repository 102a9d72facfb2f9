// Package helix generates the static double-helix layout for a sequence and
// projects analysis annotations onto it.
//
// The layout is a pure function of its inputs: identical Params, sequence
// and annotations always produce identical geometry. Rotation for display is
// applied separately by the scene package.
package helix

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when geometry parameters cannot produce a helix.
var ErrInvalidParameter = errors.New("invalid helix parameter")

// Params describes the parametric helix.
type Params struct {
	// Resolution is the number of samples per strand (N). It is independent
	// of the sequence length.
	Resolution int
	// Turns scales the total sweep angle: sample i sits at (i/N)·Turns·π.
	Turns float64
	// Pitch is the vertical rise per sample.
	Pitch float64
	// Radius of the backbone strands.
	Radius float64
	// BaseInset moves base markers toward the axis (radius - BaseInset).
	BaseInset float64
	// MarkerOffset moves annotation markers away from the axis (radius + MarkerOffset).
	MarkerOffset float64
	// LabelOffset places annotation label anchors (radius + LabelOffset).
	LabelOffset float64
}

// DefaultParams returns the layout used by the viewers.
func DefaultParams() Params {
	return Params{
		Resolution:   120,
		Turns:        10,
		Pitch:        0.3,
		Radius:       2.5,
		BaseInset:    0.3,
		MarkerOffset: 0.7,
		LabelOffset:  2.0,
	}
}

// Validate reports the first parameter that cannot produce a helix.
func (p Params) Validate() error {
	switch {
	case p.Resolution <= 0:
		return fmt.Errorf("resolution must be positive, got %d: %w", p.Resolution, ErrInvalidParameter)
	case !finite(p.Turns):
		return fmt.Errorf("turns must be finite, got %v: %w", p.Turns, ErrInvalidParameter)
	case !finite(p.Pitch) || p.Pitch < 0:
		return fmt.Errorf("pitch must be finite and non-negative, got %v: %w", p.Pitch, ErrInvalidParameter)
	case !finite(p.Radius) || p.Radius <= 0:
		return fmt.Errorf("radius must be positive, got %v: %w", p.Radius, ErrInvalidParameter)
	case !finite(p.BaseInset) || p.BaseInset < 0 || p.BaseInset >= p.Radius:
		return fmt.Errorf("base inset must be in [0, radius), got %v: %w", p.BaseInset, ErrInvalidParameter)
	case !finite(p.MarkerOffset) || p.MarkerOffset < 0:
		return fmt.Errorf("marker offset must be non-negative, got %v: %w", p.MarkerOffset, ErrInvalidParameter)
	case !finite(p.LabelOffset) || p.LabelOffset < 0:
		return fmt.Errorf("label offset must be non-negative, got %v: %w", p.LabelOffset, ErrInvalidParameter)
	}
	return nil
}

// Theta returns the sweep angle at (possibly fractional) sample index i.
func (p Params) Theta(i float64) float64 {
	return i / float64(p.Resolution) * p.Turns * math.Pi
}

// Height returns the Y coordinate at sample index i. The helix is centered
// on the origin.
func (p Params) Height(i float64) float64 {
	return i*p.Pitch - float64(p.Resolution)*p.Pitch/2
}

// Span returns the full vertical extent of the helix.
func (p Params) Span() float64 {
	return float64(p.Resolution) * p.Pitch
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
