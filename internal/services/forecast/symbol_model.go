package forecast

import (
	"fmt"

	"StockPilot/internal/domain/models"
	"StockPilot/internal/services/indicators"
)

// MinTrainBars is the shortest daily history a symbol model accepts.
const MinTrainBars = 100

// SymbolModel is the per-symbol fallback regressor. It learns next-day
// close from the engineered indicator frame and is persisted as a
// single artifact next to the symbol's ensemble.
type SymbolModel struct {
	Scaler *StandardScaler `json:"scaler"`
	Forest *RandomForest   `json:"forest"`
}

func NewSymbolModel() *SymbolModel {
	return &SymbolModel{
		Scaler: &StandardScaler{},
		Forest: NewRandomForest(150, 10, 42),
	}
}

func (m *SymbolModel) Train(bars []models.Bar) (float64, error) {
	if len(bars) < MinTrainBars {
		return 0, fmt.Errorf("symbol model: need at least %d bars, got %d", MinTrainBars, len(bars))
	}
	frame := indicators.BuildFrame(bars)
	if len(frame.X) == 0 {
		return 0, fmt.Errorf("symbol model: no complete feature rows")
	}
	m.Scaler.Fit(frame.X)
	scaled := m.Scaler.Transform(frame.X)
	if err := m.Forest.Fit(scaled, frame.Target); err != nil {
		return 0, err
	}
	return m.Forest.Score(scaled, frame.Target), nil
}

// Predict emits one price per horizon day. The latest feature row is
// reused for every day, so the curve is flat at the model's one-step
// estimate.
func (m *SymbolModel) Predict(bars []models.Bar, days int) ([]float64, error) {
	if m.Forest == nil || len(m.Forest.Trees) == 0 {
		return nil, fmt.Errorf("symbol model: not trained")
	}
	row, ok := indicators.LatestRow(bars)
	if !ok {
		return nil, fmt.Errorf("symbol model: insufficient history for features")
	}
	price := m.Forest.Predict(m.Scaler.TransformRow(row))

	out := make([]float64, days)
	for i := range out {
		out[i] = price
	}
	return out, nil
}
