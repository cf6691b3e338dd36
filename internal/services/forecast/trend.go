package forecast

import "fmt"

// TrendForestModel regresses price on the time index with a random
// forest, then extrapolates over the future indices. Trees cannot
// predict outside the value range they saw, so this contributes a
// conservative, recency-anchored estimate to the blend.
type TrendForestModel struct {
	Forest *RandomForest `json:"forest"`
}

func NewTrendForestModel() *TrendForestModel {
	return &TrendForestModel{Forest: NewRandomForest(150, 10, 42)}
}

func (m *TrendForestModel) Train(prices []float64) (float64, error) {
	x, err := indexMatrix(len(prices))
	if err != nil {
		return 0, err
	}
	if err := m.Forest.Fit(x, prices); err != nil {
		return 0, err
	}
	return m.Forest.Score(x, prices), nil
}

func (m *TrendForestModel) Predict(prices []float64, days int) ([]float64, error) {
	if m.Forest == nil || len(m.Forest.Trees) == 0 {
		return nil, fmt.Errorf("trend forest: model not trained")
	}
	out := make([]float64, days)
	for i := 0; i < days; i++ {
		out[i] = m.Forest.Predict([]float64{float64(len(prices) + i)})
	}
	return out, nil
}

// TrendBoostModel is the boosted counterpart of TrendForestModel.
type TrendBoostModel struct {
	Boost *GBM `json:"boost"`
}

func NewTrendBoostModel() *TrendBoostModel {
	return &TrendBoostModel{Boost: NewGBM(200, 5, 0.1, 42)}
}

func (m *TrendBoostModel) Train(prices []float64) (float64, error) {
	x, err := indexMatrix(len(prices))
	if err != nil {
		return 0, err
	}
	if err := m.Boost.Fit(x, prices); err != nil {
		return 0, err
	}
	return m.Boost.Score(x, prices), nil
}

func (m *TrendBoostModel) Predict(prices []float64, days int) ([]float64, error) {
	if m.Boost == nil || len(m.Boost.Trees) == 0 {
		return nil, fmt.Errorf("trend boost: model not trained")
	}
	out := make([]float64, days)
	for i := 0; i < days; i++ {
		out[i] = m.Boost.Predict([]float64{float64(len(prices) + i)})
	}
	return out, nil
}

func indexMatrix(n int) ([][]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("trend: need at least 2 prices, got %d", n)
	}
	x := make([][]float64, n)
	for i := range x {
		x[i] = []float64{float64(i)}
	}
	return x, nil
}
