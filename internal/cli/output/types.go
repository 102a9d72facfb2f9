package output

// MetricsOutput is the JSON form of the metrics command.
type MetricsOutput struct {
	Gene           string  `json:"gene"`
	Length         int     `json:"length"`
	BaselineLength int     `json:"baseline_length"`
	Changed        bool    `json:"changed"`
	SiteCount      int     `json:"site_count"`
	CandidateCount int     `json:"candidate_count"`
	HighScoreCount int     `json:"high_score_count"`
	AvgOnTarget    float64 `json:"avg_on_target"`
	AvgOffTarget   float64 `json:"avg_off_target"`
	LengthDelta    int     `json:"length_delta"`
	Impact         string  `json:"impact,omitempty"`
	Trends         Trends  `json:"trends"`
}

// Trends holds the direction of each metric relative to the baseline.
type Trends struct {
	SiteCount      string `json:"site_count"`
	CandidateCount string `json:"candidate_count"`
	HighScoreCount string `json:"high_score_count"`
	AvgOnTarget    string `json:"avg_on_target"`
	AvgOffTarget   string `json:"avg_off_target"`
}

// GeometryOutput is the JSON form of the geometry command.
type GeometryOutput struct {
	Resolution        int           `json:"resolution"`
	Turns             float64       `json:"turns"`
	Pitch             float64       `json:"pitch"`
	Radius            float64       `json:"radius"`
	Span              float64       `json:"span"`
	Connectors        int           `json:"connectors"`
	BaseMarkers       int           `json:"base_markers"`
	AnnotationMarkers int           `json:"annotation_markers"`
	Points            []PointOutput `json:"points,omitempty"`
}

// PointOutput is one backbone sample pair.
type PointOutput struct {
	Index   int        `json:"index"`
	Strand0 [3]float64 `json:"strand0"`
	Strand1 [3]float64 `json:"strand1"`
	Base    string     `json:"base,omitempty"`
}

// AnnotationOutput is one projected annotation.
type AnnotationOutput struct {
	Ordinal       int     `json:"ordinal"`
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Position      float64 `json:"position"`
	Sample        float64 `json:"sample"`
	Index         int     `json:"index"`
	Clamped       bool    `json:"clamped"`
	OnTargetScore float64 `json:"on_target_score"`
	ScoreGrade    string  `json:"score_grade"`
	OffTargetRisk float64 `json:"off_target_risk"`
	RiskGrade     string  `json:"risk_grade"`
	Spacer        string  `json:"spacer,omitempty"`
	PAM           string  `json:"pam,omitempty"`
	GCContent     float64 `json:"gc_content"`
}

// AnnotationsOutput is the JSON form of the annotations command.
type AnnotationsOutput struct {
	Gene            string             `json:"gene"`
	ReferenceLength float64            `json:"reference_length"`
	Annotations     []AnnotationOutput `json:"annotations"`
}
