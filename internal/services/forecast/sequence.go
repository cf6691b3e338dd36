package forecast

import "fmt"

const defaultLookback = 60

// SequenceModel learns the next scaled price from a sliding window of
// the previous lookback prices, then rolls the window forward one
// predicted step at a time.
type SequenceModel struct {
	Lookback int           `json:"lookback"`
	Scaler   *MinMaxScaler `json:"scaler"`
	Boost    *GBM          `json:"boost"`
}

func NewSequenceModel() *SequenceModel {
	return &SequenceModel{
		Lookback: defaultLookback,
		Scaler:   &MinMaxScaler{},
		Boost:    NewGBM(200, 5, 0.1, 42),
	}
}

func (m *SequenceModel) Train(prices []float64) (float64, error) {
	if len(prices) <= m.Lookback {
		return 0, fmt.Errorf("sequence: need more than %d prices, got %d", m.Lookback, len(prices))
	}
	m.Scaler.Fit(prices)
	scaled := m.Scaler.Transform(prices)

	n := len(scaled) - m.Lookback
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		window := make([]float64, m.Lookback)
		copy(window, scaled[i:i+m.Lookback])
		x[i] = window
		y[i] = scaled[i+m.Lookback]
	}
	if err := m.Boost.Fit(x, y); err != nil {
		return 0, err
	}
	return m.Boost.Score(x, y), nil
}

func (m *SequenceModel) Predict(prices []float64, days int) ([]float64, error) {
	if m.Boost == nil || len(m.Boost.Trees) == 0 {
		return nil, fmt.Errorf("sequence: model not trained")
	}
	if len(prices) < m.Lookback {
		return nil, fmt.Errorf("sequence: need at least %d prices, got %d", m.Lookback, len(prices))
	}
	scaled := m.Scaler.Transform(prices)

	window := make([]float64, m.Lookback)
	copy(window, scaled[len(scaled)-m.Lookback:])

	out := make([]float64, days)
	for i := 0; i < days; i++ {
		next := m.Boost.Predict(window)
		out[i] = next
		window = advanceWindow(window, next)
	}
	return m.Scaler.Inverse(out), nil
}

// advanceWindow drops the oldest value and appends the newest, keeping
// the window length fixed.
func advanceWindow(window []float64, next float64) []float64 {
	copy(window, window[1:])
	window[len(window)-1] = next
	return window
}
