package analysis

import (
	"context"

	"github.com/leapstack-labs/helixlab/pkg/core"
)

// MockSequence is the demonstration reference sequence.
const MockSequence = "ATGCGATCGATCGATCGATCGATCTGGATGCATGCATGCATGCATGCAGGCGTACGTACGTACGTACGTACGG"

// MockReferenceLength is the coordinate space of the mock annotations.
const MockReferenceLength = 3000

// MockProvider serves a fixed demonstration analysis.
type MockProvider struct{}

// Mock returns the demonstration provider.
func Mock() MockProvider { return MockProvider{} }

// Load returns a fresh copy of the demonstration analysis.
func (MockProvider) Load(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{
		Gene:            "BRCA1",
		Sequence:        MockSequence,
		ReferenceLength: MockReferenceLength,
		Source:          "mock",
		Annotations: []core.Annotation{
			{
				ID:            "1",
				Label:         "gRNA 1",
				Position:      1250,
				OnTargetScore: 0.85,
				OffTargetRisk: 0.12,
				Spacer:        "GATCGATCGATCGATCGATC",
				PAM:           "TGG",
				GCContent:     55,
			},
			{
				ID:            "2",
				Label:         "gRNA 2",
				Position:      2100,
				OnTargetScore: 0.78,
				OffTargetRisk: 0.08,
				Spacer:        "ATGCATGCATGCATGCATGC",
				PAM:           "AGG",
				GCContent:     50,
			},
			{
				ID:            "3",
				Label:         "gRNA 3",
				Position:      3450,
				OnTargetScore: 0.72,
				OffTargetRisk: 0.15,
				Spacer:        "CGTACGTACGTACGTACGTA",
				PAM:           "CGG",
				GCContent:     60,
			},
		},
	}, nil
}
