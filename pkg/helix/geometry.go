package helix

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/leapstack-labs/helixlab/pkg/core"
)

// Point is one backbone sample.
type Point struct {
	Pos    core.Vec3
	Strand int
	Index  int
}

// Connector joins the two strands at one sample height.
type Connector struct {
	Index    int
	From, To core.Vec3
}

// BaseMarker is the decorative base pair drawn on a connector, inset from
// each backbone. Symbol belongs to strand 0; Partner is its complement on
// strand 1.
type BaseMarker struct {
	Index   int
	Pos0    core.Vec3
	Pos1    core.Vec3
	Symbol  core.Symbol
	Partner core.Symbol
}

// Geometry is the static layout for one render pass.
type Geometry struct {
	Params            Params
	Strand0           []Point
	Strand1           []Point
	Connectors        []Connector
	BaseMarkers       []BaseMarker
	AnnotationMarkers []AnnotationMarker
}

// Generate lays out both strands, the connectors at every even sample and
// one base marker pair per connector.
//
// Marker symbols come from seq when it is non-empty: sample i shows the
// symbol at sequence position i·len(seq)/N. With an empty sequence they are
// derived from a fixed hash of i.
func Generate(p Params, seq []core.Symbol) (*Geometry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Resolution
	g := &Geometry{
		Params:      p,
		Strand0:     make([]Point, n),
		Strand1:     make([]Point, n),
		Connectors:  make([]Connector, 0, (n+1)/2),
		BaseMarkers: make([]BaseMarker, 0, (n+1)/2),
	}

	inner := p.Radius - p.BaseInset
	for i := 0; i < n; i++ {
		fi := float64(i)
		theta := p.Theta(fi)
		y := p.Height(fi)

		p0 := onCircle(p.Radius, theta, y)
		p1 := onCircle(p.Radius, theta+math.Pi, y)
		g.Strand0[i] = Point{Pos: p0, Strand: 0, Index: i}
		g.Strand1[i] = Point{Pos: p1, Strand: 1, Index: i}

		if i%2 != 0 {
			continue
		}
		g.Connectors = append(g.Connectors, Connector{Index: i, From: p0, To: p1})

		sym := markerSymbol(i, n, seq)
		g.BaseMarkers = append(g.BaseMarkers, BaseMarker{
			Index:   i,
			Pos0:    onCircle(inner, theta, y),
			Pos1:    onCircle(inner, theta+math.Pi, y),
			Symbol:  sym,
			Partner: sym.Complement(),
		})
	}

	return g, nil
}

// Build generates the helix and projects annotations onto it in one pass.
func Build(p Params, seq []core.Symbol, referenceLength float64, annotations []core.Annotation) (*Geometry, error) {
	g, err := Generate(p, seq)
	if err != nil {
		return nil, err
	}
	markers, err := Project(p, referenceLength, annotations)
	if err != nil {
		return nil, err
	}
	g.AnnotationMarkers = markers
	return g, nil
}

// At returns the point at fractional sample index i on a circle of the
// given radius, shifted by phase radians.
func (p Params) At(i, radius, phase float64) core.Vec3 {
	return onCircle(radius, p.Theta(i)+phase, p.Height(i))
}

func onCircle(radius, theta, y float64) core.Vec3 {
	sin, cos := math.Sincos(theta)
	return core.Vec3{X: radius * cos, Y: y, Z: radius * sin}
}

// markerSymbol picks the strand-0 symbol shown at sample i.
func markerSymbol(i, n int, seq []core.Symbol) core.Symbol {
	if len(seq) > 0 {
		return seq[i*len(seq)/n]
	}
	h := fnv.New32a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	_, _ = h.Write(buf[:])
	return core.Symbols[h.Sum32()%uint32(len(core.Symbols))]
}
