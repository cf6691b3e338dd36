package forecast

import "fmt"

// LinearModel fits price against the time index by least squares.
type LinearModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Fitted    bool    `json:"fitted"`
}

func (m *LinearModel) Train(prices []float64) (float64, error) {
	if len(prices) < 2 {
		return 0, fmt.Errorf("linear: need at least 2 prices, got %d", len(prices))
	}
	m.Slope, m.Intercept = fitLine(prices, 0)
	m.Fitted = true

	fitted := make([]float64, len(prices))
	for i := range prices {
		fitted[i] = m.Intercept + m.Slope*float64(i)
	}
	return rSquared(prices, fitted), nil
}

func (m *LinearModel) Predict(prices []float64, days int) ([]float64, error) {
	if !m.Fitted {
		return nil, fmt.Errorf("linear: model not trained")
	}
	out := make([]float64, days)
	start := len(prices)
	for i := 0; i < days; i++ {
		out[i] = m.Intercept + m.Slope*float64(start+i)
	}
	return out, nil
}

// RidgeModel is the closed-form L2-regularized line fit. The intercept
// is left unpenalized.
type RidgeModel struct {
	Alpha     float64 `json:"alpha"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Fitted    bool    `json:"fitted"`
}

func NewRidgeModel(alpha float64) *RidgeModel {
	return &RidgeModel{Alpha: alpha}
}

func (m *RidgeModel) Train(prices []float64) (float64, error) {
	if len(prices) < 2 {
		return 0, fmt.Errorf("ridge: need at least 2 prices, got %d", len(prices))
	}
	m.Slope, m.Intercept = fitLine(prices, m.Alpha)
	m.Fitted = true

	fitted := make([]float64, len(prices))
	for i := range prices {
		fitted[i] = m.Intercept + m.Slope*float64(i)
	}
	return rSquared(prices, fitted), nil
}

func (m *RidgeModel) Predict(prices []float64, days int) ([]float64, error) {
	if !m.Fitted {
		return nil, fmt.Errorf("ridge: model not trained")
	}
	out := make([]float64, days)
	start := len(prices)
	for i := 0; i < days; i++ {
		out[i] = m.Intercept + m.Slope*float64(start+i)
	}
	return out, nil
}

// fitLine regresses y on its index with optional L2 penalty on the
// slope. alpha 0 reduces to ordinary least squares.
func fitLine(y []float64, alpha float64) (slope, intercept float64) {
	n := float64(len(y))
	xBar := (n - 1) / 2
	yBar := mean(y)

	sxx, sxy := 0.0, 0.0
	for i, v := range y {
		dx := float64(i) - xBar
		sxx += dx * dx
		sxy += dx * (v - yBar)
	}
	if sxx+alpha == 0 {
		return 0, yBar
	}
	slope = sxy / (sxx + alpha)
	intercept = yBar - slope*xBar
	return slope, intercept
}
