// Package risk turns feature vectors into actionable maintenance
// assessments, either through a trained classifier artifact or through
// a deterministic rule-based heuristic when no artifact is available.
package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ukydev/bike-fleet-maintenance/internal/features"
	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// Heuristic thresholds. These are part of the assessor's contract:
// fleet mechanics plan around them, so they change deliberately, not
// incidentally.
const (
	vibrationHigh   = 0.8
	vibrationMedium = 0.5
	distanceHighKM  = 2000.0
	distanceMedKM   = 1000.0
)

// HeuristicAssessment is the rule-based judgment for one bike.
type HeuristicAssessment struct {
	Priority       models.Priority
	Issues         []string
	Recommendation string
	Confidence     float64
}

// AssessHeuristic maps a feature vector to a priority, an issue set
// and a confidence score using fixed thresholds. Pure and
// deterministic; total over all vectors including all-zero ones, which
// yield low priority and a routine-maintenance recommendation.
//
// The vibration tier is evaluated before the distance tier, and a tier
// can only ever raise the priority. A tier that does not outrank the
// current priority still contributes its issues, and the confidence is
// the maximum across contributing tiers.
func AssessHeuristic(v features.FeatureVector) HeuristicAssessment {
	priority := models.PriorityLow
	confidence := 0.5
	issues := make(map[string]struct{})

	add := func(p models.Priority, conf float64, names ...string) {
		if p.Rank() > priority.Rank() {
			priority = p
		}
		confidence = math.Max(confidence, conf)
		for _, name := range names {
			issues[name] = struct{}{}
		}
	}

	switch {
	case v.AvgVibrationRecent > vibrationHigh:
		add(models.PriorityHigh, 0.9, "suspension issues", "wheel alignment")
	case v.AvgVibrationRecent > vibrationMedium:
		add(models.PriorityMedium, 0.7, "tire pressure", "general checkup")
	}

	switch {
	case v.TotalKM > distanceHighKM:
		add(models.PriorityHigh, 0.85, "chain wear", "brake pads", "bearing replacement")
	case v.TotalKM > distanceMedKM:
		add(models.PriorityMedium, 0.65, "chain lubrication", "brake adjustment")
	}

	if len(issues) == 0 {
		priority = models.PriorityLow
		confidence = 0.5
		issues["routine maintenance"] = struct{}{}
	}

	names := make([]string, 0, len(issues))
	for name := range issues {
		names = append(names, name)
	}
	sort.Strings(names)

	return HeuristicAssessment{
		Priority:       priority,
		Issues:         names,
		Recommendation: fmt.Sprintf("Check {%s}", strings.Join(names, ", ")),
		Confidence:     math.Round(confidence*100) / 100,
	}
}
