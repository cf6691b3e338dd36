package forecast

import "fmt"

// minFeatureHistory is the oldest index a full feature row can be
// built for, driven by the 20-day average and the 10-day volatility.
const minFeatureHistory = 20

// FeatureModel predicts the next price from engineered price features
// and extends its forecast by recomputing the features after each
// predicted step.
type FeatureModel struct {
	Scaler *StandardScaler `json:"scaler"`
	Forest *RandomForest   `json:"forest"`
}

func NewFeatureModel() *FeatureModel {
	return &FeatureModel{
		Scaler: &StandardScaler{},
		Forest: NewRandomForest(150, 10, 42),
	}
}

func (m *FeatureModel) Train(prices []float64) (float64, error) {
	if len(prices) <= minFeatureHistory+1 {
		return 0, fmt.Errorf("feature: need more than %d prices, got %d", minFeatureHistory+1, len(prices))
	}
	var (
		x [][]float64
		y []float64
	)
	for i := minFeatureHistory; i < len(prices)-1; i++ {
		x = append(x, priceFeatureRow(prices, i))
		y = append(y, prices[i+1])
	}
	m.Scaler.Fit(x)
	if err := m.Forest.Fit(m.Scaler.Transform(x), y); err != nil {
		return 0, err
	}
	return m.Forest.Score(m.Scaler.Transform(x), y), nil
}

func (m *FeatureModel) Predict(prices []float64, days int) ([]float64, error) {
	if m.Forest == nil || len(m.Forest.Trees) == 0 {
		return nil, fmt.Errorf("feature: model not trained")
	}
	if len(prices) <= minFeatureHistory {
		return nil, fmt.Errorf("feature: need more than %d prices, got %d", minFeatureHistory, len(prices))
	}
	series := make([]float64, len(prices))
	copy(series, prices)

	out := make([]float64, days)
	for i := 0; i < days; i++ {
		row := priceFeatureRow(series, len(series)-1)
		next := m.Forest.Predict(m.Scaler.TransformRow(row))
		out[i] = next
		series = append(series, next)
	}
	return out, nil
}

// priceFeatureRow builds the feature vector for index i. The caller
// guarantees i >= minFeatureHistory.
func priceFeatureRow(prices []float64, i int) []float64 {
	ma5 := mean(prices[i-4 : i+1])
	ma10 := mean(prices[i-9 : i+1])
	ma20 := mean(prices[i-19 : i+1])

	window := prices[i-9 : i+1]
	m := mean(window)
	sq := 0.0
	for _, v := range window {
		d := v - m
		sq += d * d
	}
	vol10 := sqrt(sq / float64(len(window)-1))

	momentum := prices[i] - prices[i-5]
	roc := 0.0
	if prices[i-5] != 0 {
		roc = (prices[i] - prices[i-5]) / prices[i-5]
	}
	position := 0.0
	if ma20 != 0 {
		position = (prices[i] - ma20) / ma20
	}

	return []float64{
		ma5, ma10, ma20,
		momentum, vol10, roc, position,
		prices[i-1], prices[i-2], prices[i-3],
	}
}
