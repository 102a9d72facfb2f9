// Package core defines the shared language of the helixlab system.
//
// This package contains:
//   - Nucleotide symbols (Symbol) and their normalization rules
//   - Analysis annotations (Annotation) and score grading
//   - The 3D vector type (Vec3) used by geometry and scene composition
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
