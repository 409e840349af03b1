package models

import "time"

// Priority is a qualitative maintenance priority produced by the
// heuristic assessor.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for comparison and ranking: low < medium < high.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// Scoring strategies. The choice is global per scoring call.
const (
	StrategyClassifier = "classifier"
	StrategyHeuristic  = "heuristic"
)

// RiskAssessment is the per-bike output of a scoring call. Exactly one
// representation is populated depending on the strategy: the classifier
// path fills FailureProbability, the heuristic path fills
// MaintenancePriority, PredictedIssues, Recommendation and
// ConfidenceScore. TotalKM and DaysSinceLastService are echoed from the
// feature vector for display.
type RiskAssessment struct {
	BikeID               int64    `json:"bike_id"`
	FailureProbability   *float64 `json:"failure_probability,omitempty"`
	MaintenancePriority  Priority `json:"maintenance_priority,omitempty"`
	PredictedIssues      []string `json:"predicted_issues,omitempty"`
	Recommendation       string   `json:"recommendation,omitempty"`
	ConfidenceScore      *float64 `json:"confidence_score,omitempty"`
	TotalKM              float64  `json:"total_km"`
	DaysSinceLastService int      `json:"days_since_last_service"`
}

// ScoreResult is the full response of a scoring call: the strategy that
// was actually used (the caller can tell a heuristic fallback apart
// from a classifier run), the model version on the classifier path, and
// the ranked assessments.
type ScoreResult struct {
	Strategy     string           `json:"strategy"`
	ModelVersion string           `json:"model_version,omitempty"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Assessments  []RiskAssessment `json:"assessments"`
}
