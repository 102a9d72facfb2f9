package scene

import (
	"fmt"

	"github.com/leapstack-labs/helixlab/pkg/core"
	"github.com/leapstack-labs/helixlab/pkg/helix"
)

// Kind identifies what a primitive depicts.
type Kind int

// Primitive kinds, in the order Compose emits them.
const (
	KindBackbone Kind = iota
	KindBead
	KindConnector
	KindBase
	KindAnnotation
	KindLabel
)

var kindNames = [...]string{"backbone", "bead", "connector", "base", "annotation", "label"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Primitive is one drawable item in world space.
type Primitive struct {
	Kind Kind
	// Strand is 0 or 1 for strand-bound primitives, -1 otherwise.
	Strand int
	// Index is the backbone sample the primitive belongs to. For annotation
	// markers and labels it is the rounded projection sample.
	Index int
	// Points holds one point for markers, beads and labels, two for
	// connectors and N for a backbone polyline.
	Points []core.Vec3
	Symbol core.Symbol
	Label  string
	// Grade colors annotation markers by on-target score.
	Grade core.Grade
}

// Frame is everything a host needs to draw one refresh.
type Frame struct {
	Primitives []Primitive
	Transform  Transform
	Camera     Camera
}

// Count returns how many primitives of kind k the frame holds.
func (f Frame) Count(k Kind) int {
	n := 0
	for _, p := range f.Primitives {
		if p.Kind == k {
			n++
		}
	}
	return n
}

// Composer converts geometry into frames.
type Composer struct {
	// Beads adds one bead primitive per backbone sample.
	Beads bool
	// Labels adds a "gRNA n" label next to each annotation marker.
	Labels bool
}

// NewComposer returns a composer emitting every primitive kind.
func NewComposer() Composer {
	return Composer{Beads: true, Labels: true}
}

// Compose applies t to every element of g and returns the frame. The
// geometry is left untouched. A nil geometry yields an empty frame.
func (c Composer) Compose(g *helix.Geometry, t Transform, cam Camera) Frame {
	f := Frame{Transform: t, Camera: cam}
	if g == nil {
		return f
	}

	f.Primitives = make([]Primitive, 0, c.capacity(g))

	for strand, pts := range [2][]helix.Point{g.Strand0, g.Strand1} {
		line := make([]core.Vec3, len(pts))
		for i, p := range pts {
			line[i] = t.Apply(p.Pos)
		}
		f.Primitives = append(f.Primitives, Primitive{Kind: KindBackbone, Strand: strand, Index: 0, Points: line})

		if !c.Beads {
			continue
		}
		for i, p := range line {
			f.Primitives = append(f.Primitives, Primitive{
				Kind: KindBead, Strand: strand, Index: pts[i].Index, Points: []core.Vec3{p},
			})
		}
	}

	for _, cn := range g.Connectors {
		f.Primitives = append(f.Primitives, Primitive{
			Kind:   KindConnector,
			Strand: -1,
			Index:  cn.Index,
			Points: []core.Vec3{t.Apply(cn.From), t.Apply(cn.To)},
		})
	}

	for _, bm := range g.BaseMarkers {
		f.Primitives = append(f.Primitives,
			Primitive{Kind: KindBase, Strand: 0, Index: bm.Index, Points: []core.Vec3{t.Apply(bm.Pos0)}, Symbol: bm.Symbol},
			Primitive{Kind: KindBase, Strand: 1, Index: bm.Index, Points: []core.Vec3{t.Apply(bm.Pos1)}, Symbol: bm.Partner},
		)
	}

	for _, am := range g.AnnotationMarkers {
		label := fmt.Sprintf("gRNA %d", am.Ordinal)
		grade := am.Annotation.ScoreGrade()
		f.Primitives = append(f.Primitives, Primitive{
			Kind:   KindAnnotation,
			Strand: -1,
			Index:  am.Index,
			Points: []core.Vec3{t.Apply(am.Pos)},
			Label:  label,
			Grade:  grade,
		})
		if c.Labels {
			f.Primitives = append(f.Primitives, Primitive{
				Kind:   KindLabel,
				Strand: -1,
				Index:  am.Index,
				Points: []core.Vec3{t.Apply(am.LabelPos)},
				Label:  label,
				Grade:  grade,
			})
		}
	}

	return f
}

func (c Composer) capacity(g *helix.Geometry) int {
	n := 2 + len(g.Connectors) + 2*len(g.BaseMarkers) + 2*len(g.AnnotationMarkers)
	if c.Beads {
		n += len(g.Strand0) + len(g.Strand1)
	}
	return n
}
