package types

// Scorecard aggregates the per-turn evaluations of one interview
type Scorecard struct {
	TurnsScored    int                `json:"turns_scored"`
	FallbackTurns  int                `json:"fallback_turns"`
	MeanScore      float64            `json:"mean_score"`
	Criteria       map[string]float64 `json:"criteria"` // Mean score per rubric criterion
	Strengths      []string           `json:"strengths"`
	AreasToImprove []string           `json:"areas_to_improve"`
}
