package risk

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

var (
	// ErrModelUnavailable means no usable classifier artifact could be
	// loaded. Callers fall back to the heuristic assessor; this is an
	// availability condition, not a scoring failure.
	ErrModelUnavailable = errors.New("classifier artifact unavailable")

	// ErrFeatureArity means a feature row did not match the artifact's
	// expected width. Unlike missing data this is a contract violation
	// and does surface as an error.
	ErrFeatureArity = errors.New("feature row has wrong arity")
)

// FeatureOrder is the feature ordering every classifier artifact is
// trained against. An artifact whose feature_names differ is rejected
// at load time rather than silently producing garbage probabilities.
var FeatureOrder = []string{
	"total_km",
	"km_since_last_service",
	"days_since_last_service",
	"avg_vibration_last_10_rides",
}

// Artifact is the on-disk form of a trained binary classifier: a
// logistic model exported by the training job as JSON.
type Artifact struct {
	ModelVersion string    `json:"model_version"`
	TrainedAt    time.Time `json:"trained_at"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Classifier predicts per-bike failure probability from a loaded
// artifact. The zero value is not usable; obtain one via LoadArtifact.
type Classifier struct {
	artifact Artifact
}

// LoadArtifact reads and validates a classifier artifact. Any failure
// (missing file, malformed JSON, feature-order mismatch) is reported
// as ErrModelUnavailable so the caller can make a one-time fallback
// decision. Loading is explicit and lazy; there is no process-wide
// model singleton.
func LoadArtifact(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if len(artifact.FeatureNames) != len(FeatureOrder) {
		return nil, fmt.Errorf("%w: artifact has %d features, expected %d",
			ErrModelUnavailable, len(artifact.FeatureNames), len(FeatureOrder))
	}
	for i, name := range FeatureOrder {
		if artifact.FeatureNames[i] != name {
			return nil, fmt.Errorf("%w: feature %d is %q, expected %q",
				ErrModelUnavailable, i, artifact.FeatureNames[i], name)
		}
	}
	if len(artifact.Coefficients) != len(FeatureOrder) {
		return nil, fmt.Errorf("%w: artifact has %d coefficients, expected %d",
			ErrModelUnavailable, len(artifact.Coefficients), len(FeatureOrder))
	}

	return &Classifier{artifact: artifact}, nil
}

// ModelVersion identifies the loaded artifact.
func (c *Classifier) ModelVersion() string {
	return c.artifact.ModelVersion
}

// PredictProba returns the estimated probability of the positive
// ("will fail") class for each feature row, in input order. NaN
// feature values are imputed to 0 before inference. A row with the
// wrong width returns ErrFeatureArity.
func (c *Classifier) PredictProba(rows [][]float64) ([]float64, error) {
	probs := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(c.artifact.Coefficients) {
			return nil, fmt.Errorf("%w: row %d has %d features, expected %d",
				ErrFeatureArity, i, len(row), len(c.artifact.Coefficients))
		}
		z := c.artifact.Intercept
		for j, x := range row {
			if math.IsNaN(x) {
				x = 0
			}
			z += c.artifact.Coefficients[j] * x
		}
		probs[i] = sigmoid(z)
	}
	return probs, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
