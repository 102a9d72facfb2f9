// Package theme holds the colors every host uses for the helix.
package theme

import "github.com/leapstack-labs/helixlab/pkg/core"

// Hex colors.
const (
	Adenine    = "#EF4444"
	Thymine    = "#F59E0B"
	Guanine    = "#10B981"
	Cytosine   = "#3B82F6"
	Backbone   = "#1E40AF"
	Connector  = "#64748B"
	Label      = "#1E293B"
	Marker     = "#10B981"
	MarkerGlow = "#065F46"
	Edited     = "#A855F7"

	Good = "#10B981"
	Fair = "#F59E0B"
	Poor = "#EF4444"
)

// Symbol returns the color of a nucleotide.
func Symbol(s core.Symbol) string {
	switch s {
	case core.Adenine:
		return Adenine
	case core.Thymine:
		return Thymine
	case core.Guanine:
		return Guanine
	case core.Cytosine:
		return Cytosine
	}
	return Connector
}

// Grade returns the color of a score or risk grade.
func Grade(g core.Grade) string {
	switch g {
	case core.GradeGood:
		return Good
	case core.GradeFair:
		return Fair
	default:
		return Poor
	}
}
