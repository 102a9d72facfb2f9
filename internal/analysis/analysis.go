// Package analysis supplies the gene, reference sequence and gRNA
// annotations a session starts from.
//
// A Provider is the seam to whatever produced the analysis. Two
// implementations ship: Mock, the built-in demonstration fixture, and
// FileProvider, which reads a YAML fixture and can be watched for changes.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/leapstack-labs/helixlab/pkg/core"
)

// ErrNoSequence is returned when an analysis carries no usable reference sequence.
var ErrNoSequence = errors.New("analysis has no sequence")

// ErrInvalidReferenceLength is returned when the reference length is not positive.
var ErrInvalidReferenceLength = errors.New("reference length must be positive")

// Result is one loaded analysis.
type Result struct {
	Gene     string
	Sequence string
	// ReferenceLength is M, the length of the coordinate space annotation
	// positions are expressed in.
	ReferenceLength float64
	Annotations     []core.Annotation
	// Source names where the result came from ("mock" or a file path).
	Source string
}

// Provider loads an analysis.
type Provider interface {
	Load(ctx context.Context) (*Result, error)
}

// Validate checks the invariants every provider must uphold.
func (r *Result) Validate() error {
	symbols, dropped := core.Normalize(r.Sequence)
	if len(symbols) == 0 {
		return ErrNoSequence
	}
	if len(dropped) > 0 {
		return fmt.Errorf("sequence contains %d invalid characters (first %q): %w", len(dropped), dropped[0], ErrNoSequence)
	}
	if math.IsNaN(r.ReferenceLength) || math.IsInf(r.ReferenceLength, 0) || r.ReferenceLength <= 0 {
		return fmt.Errorf("%v: %w", r.ReferenceLength, ErrInvalidReferenceLength)
	}
	return nil
}

// Normalized returns a copy whose sequence is in canonical upper-case form.
// Call it after Validate; characters Normalize would drop are discarded.
func (r *Result) Normalized() *Result {
	out := r.Clone()
	if out == nil {
		return nil
	}
	symbols, _ := core.Normalize(out.Sequence)
	out.Sequence = core.FormatSymbols(symbols)
	return out
}

// Clone returns a deep copy so callers can hand results across goroutines.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.Annotations = append([]core.Annotation(nil), r.Annotations...)
	return &out
}
