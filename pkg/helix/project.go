package helix

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/helixlab/pkg/core"
)

// AnnotationMarker places one annotation just outside the helix.
type AnnotationMarker struct {
	Annotation core.Annotation
	// Ordinal is the 1-based position of the annotation in the input list,
	// used for "gRNA n" labels.
	Ordinal int
	// Sample is the fractional sample index the marker was placed at.
	Sample float64
	// Index is Sample rounded to the nearest backbone sample.
	Index    int
	Pos      core.Vec3
	LabelPos core.Vec3
	// Clamped is set when the annotation's position was outside [0, M].
	Clamped bool
}

// labelLift raises label anchors above their marker.
const labelLift = 0.3

// Project maps annotation positions from the reference space [0, M] onto
// the helix. Out-of-range positions are clamped. Position 0 lands on
// sample 0 and position M on sample N-1; positions in between use the
// fractional sample so markers follow the helix smoothly.
func Project(p Params, referenceLength float64, annotations []core.Annotation) ([]AnnotationMarker, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !finite(referenceLength) || referenceLength <= 0 {
		return nil, fmt.Errorf("reference length must be positive, got %v: %w", referenceLength, ErrInvalidParameter)
	}

	last := float64(p.Resolution - 1)
	outer := p.Radius + p.MarkerOffset
	label := p.Radius + p.LabelOffset

	markers := make([]AnnotationMarker, 0, len(annotations))
	for i, a := range annotations {
		pos := a.Position
		clamped := false
		if math.IsNaN(pos) || pos < 0 {
			pos, clamped = 0, true
		} else if pos > referenceLength {
			pos, clamped = referenceLength, true
		}

		sample := pos / referenceLength * last
		m := AnnotationMarker{
			Annotation: a,
			Ordinal:    i + 1,
			Sample:     sample,
			Index:      int(math.Round(sample)),
			Pos:        p.At(sample, outer, 0),
			LabelPos:   p.At(sample, label, 0).Add(core.Vec3{Y: labelLift}),
			Clamped:    clamped,
		}
		markers = append(markers, m)
	}
	return markers, nil
}
