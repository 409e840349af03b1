package risk

import (
	"context"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ukydev/bike-fleet-maintenance/internal/features"
	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// defaultWorkers bounds the per-bike feature computation fan-out.
// Bikes are independent, so the only limit is store pressure.
const defaultWorkers = 8

// Engine orchestrates scoring: it computes a feature vector per bike,
// picks a strategy, and returns ranked assessments. A nil classifier
// means the heuristic strategy is used for every call.
type Engine struct {
	aggregator *features.Aggregator
	classifier *Classifier
	workers    int
}

// NewEngine creates a scoring engine. classifier may be nil when no
// artifact is available; the engine then scores heuristically and says
// so in each result.
func NewEngine(aggregator *features.Aggregator, classifier *Classifier) *Engine {
	return &Engine{
		aggregator: aggregator,
		classifier: classifier,
		workers:    defaultWorkers,
	}
}

// Score produces one ranked assessment per bike in scope as of ref.
//
// The strategy is global per call: the classifier when one is loaded,
// otherwise the heuristic for the entire batch, so every assessment in
// a response has the same shape. Bikes with no history are scored from
// sentinel features, never skipped.
//
// Ranking: the classifier path sorts by failure probability descending
// with ties broken by bike_id ascending. The heuristic path sorts by
// priority rank descending, then confidence descending, then bike_id
// ascending.
func (e *Engine) Score(ctx context.Context, bikes []models.Bike, ref time.Time) (models.ScoreResult, error) {
	vectors := make([]features.FeatureVector, len(bikes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range bikes {
		i := i
		g.Go(func() error {
			v, err := e.aggregator.VectorFor(gctx, bikes[i], ref)
			if err != nil {
				return err
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ScoreResult{}, err
	}

	result := models.ScoreResult{GeneratedAt: ref}
	if e.classifier != nil {
		assessments, err := e.scoreClassifier(vectors)
		if err != nil {
			return models.ScoreResult{}, err
		}
		result.Strategy = models.StrategyClassifier
		result.ModelVersion = e.classifier.ModelVersion()
		result.Assessments = assessments
		return result, nil
	}

	log.WithField("bikes", len(bikes)).Info("no classifier artifact loaded, scoring heuristically")
	result.Strategy = models.StrategyHeuristic
	result.Assessments = e.scoreHeuristic(vectors)
	return result, nil
}

func (e *Engine) scoreClassifier(vectors []features.FeatureVector) ([]models.RiskAssessment, error) {
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i] = v.Row()
	}

	probs, err := e.classifier.PredictProba(rows)
	if err != nil {
		return nil, err
	}

	assessments := make([]models.RiskAssessment, len(vectors))
	for i, v := range vectors {
		p := probs[i]
		assessments[i] = models.RiskAssessment{
			BikeID:               v.BikeID,
			FailureProbability:   &p,
			TotalKM:              v.TotalKM,
			DaysSinceLastService: v.DaysSinceLastService,
		}
	}

	sort.Slice(assessments, func(i, j int) bool {
		pi, pj := *assessments[i].FailureProbability, *assessments[j].FailureProbability
		if pi != pj {
			return pi > pj
		}
		return assessments[i].BikeID < assessments[j].BikeID
	})
	return assessments, nil
}

func (e *Engine) scoreHeuristic(vectors []features.FeatureVector) []models.RiskAssessment {
	assessments := make([]models.RiskAssessment, len(vectors))
	for i, v := range vectors {
		h := AssessHeuristic(v)
		conf := h.Confidence
		assessments[i] = models.RiskAssessment{
			BikeID:               v.BikeID,
			MaintenancePriority:  h.Priority,
			PredictedIssues:      h.Issues,
			Recommendation:       h.Recommendation,
			ConfidenceScore:      &conf,
			TotalKM:              v.TotalKM,
			DaysSinceLastService: v.DaysSinceLastService,
		}
	}

	sort.Slice(assessments, func(i, j int) bool {
		ri, rj := assessments[i].MaintenancePriority.Rank(), assessments[j].MaintenancePriority.Rank()
		if ri != rj {
			return ri > rj
		}
		ci, cj := *assessments[i].ConfidenceScore, *assessments[j].ConfidenceScore
		if ci != cj {
			return ci > cj
		}
		return assessments[i].BikeID < assessments[j].BikeID
	})
	return assessments
}
