package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Sub-model names used for weighting and on-disk artifacts.
const (
	ModelSequence    = "lstm"
	ModelFeature     = "transformer"
	ModelTrendForest = "random_forest"
	ModelTrendBoost  = "gradient_boosting"
	ModelRidge       = "ridge"
)

// Weights is the fixed blend. It is never renormalized: when a
// sub-model fails its slot is filled with a flat line at the last
// price, so the weighted sum stays a convex combination.
var Weights = map[string]float64{
	ModelSequence:    0.3,
	ModelFeature:     0.3,
	ModelTrendForest: 0.2,
	ModelTrendBoost:  0.15,
	ModelRidge:       0.05,
}

// Predictor is one sub-model of the blend. Train returns a fit score
// in [0, 1]; Predict returns one price per future day.
type Predictor interface {
	Train(prices []float64) (float64, error)
	Predict(prices []float64, days int) ([]float64, error)
}

// Ensemble blends five price models with fixed weights.
type Ensemble struct {
	models map[string]Predictor
	log    zerolog.Logger
}

func NewEnsemble(log zerolog.Logger) *Ensemble {
	return &Ensemble{
		models: map[string]Predictor{
			ModelSequence:    NewSequenceModel(),
			ModelFeature:     NewFeatureModel(),
			ModelTrendForest: NewTrendForestModel(),
			ModelTrendBoost:  NewTrendBoostModel(),
			ModelRidge:       NewRidgeModel(1.0),
		},
		log: log.With().Str("component", "ensemble").Logger(),
	}
}

// Train fits every sub-model and reports a score per name. A failed
// sub-model scores 0 and stays in the blend; at prediction time its
// slot degrades to a flat line.
func (e *Ensemble) Train(prices []float64) map[string]float64 {
	scores := make(map[string]float64, len(e.models))
	for name, model := range e.models {
		score, err := model.Train(prices)
		if err != nil {
			e.log.Warn().Err(err).Str("model", name).Msg("sub-model training failed")
			scores[name] = 0
			continue
		}
		scores[name] = score
	}
	return scores
}

// Predict returns the weighted blend of all sub-model curves. Any
// sub-model that errors or returns the wrong length is replaced by a
// flat line at the last observed price.
func (e *Ensemble) Predict(prices []float64, days int) ([]float64, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("ensemble: empty price history")
	}
	if days <= 0 {
		return nil, fmt.Errorf("ensemble: days must be positive, got %d", days)
	}
	last := prices[len(prices)-1]

	blend := make([]float64, days)
	for name, model := range e.models {
		curve, err := model.Predict(prices, days)
		if err != nil || len(curve) != days {
			if err != nil {
				e.log.Warn().Err(err).Str("model", name).Msg("sub-model prediction failed")
			}
			curve = flatCurve(last, days)
		}
		w := Weights[name]
		for i, v := range curve {
			blend[i] += w * v
		}
	}
	return blend, nil
}

func flatCurve(price float64, days int) []float64 {
	out := make([]float64, days)
	for i := range out {
		out[i] = price
	}
	return out
}

// Save writes one JSON artifact per sub-model into dir.
func (e *Ensemble) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensemble dir: %w", err)
	}
	for name, model := range e.models {
		data, err := json.Marshal(model)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		if err := os.WriteFile(artifactPath(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// Load restores every sub-model from dir. A directory with any
// artifact missing or unreadable fails as a whole; a half-loaded
// blend would silently shift the weighting.
func (e *Ensemble) Load(dir string) error {
	for name, model := range e.models {
		data, err := os.ReadFile(artifactPath(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := json.Unmarshal(data, model); err != nil {
			return fmt.Errorf("unmarshal %s: %w", name, err)
		}
	}
	return nil
}

func artifactPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}
