package core

// Annotation is a positional result supplied by an analysis provider,
// typically a gRNA candidate.
type Annotation struct {
	ID    string
	Label string

	// Position is expressed in the provider's reference coordinate space,
	// bounded by the reference length the provider reports.
	Position float64

	OnTargetScore float64
	OffTargetRisk float64

	// Display-only fields carried from the provider.
	Spacer    string
	PAM       string
	GCContent float64
}

// Grade is a coarse quality bucket used for coloring scores and risks.
type Grade int

// Grades, best first.
const (
	GradeGood Grade = iota
	GradeFair
	GradePoor
)

func (g Grade) String() string {
	switch g {
	case GradeGood:
		return "good"
	case GradeFair:
		return "fair"
	case GradePoor:
		return "poor"
	}
	return "unknown"
}

// GradeScore buckets an on-target score: >= 0.8 good, >= 0.6 fair, else poor.
func GradeScore(score float64) Grade {
	switch {
	case score >= 0.8:
		return GradeGood
	case score >= 0.6:
		return GradeFair
	default:
		return GradePoor
	}
}

// GradeRisk buckets an off-target risk: <= 0.1 good, <= 0.2 fair, else poor.
func GradeRisk(risk float64) Grade {
	switch {
	case risk <= 0.1:
		return GradeGood
	case risk <= 0.2:
		return GradeFair
	default:
		return GradePoor
	}
}

// ScoreGrade grades the annotation's on-target score.
func (a Annotation) ScoreGrade() Grade { return GradeScore(a.OnTargetScore) }

// RiskGrade grades the annotation's off-target risk.
func (a Annotation) RiskGrade() Grade { return GradeRisk(a.OffTargetRisk) }
