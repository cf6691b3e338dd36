package indicators

import (
	"math"
	"time"

	"StockPilot/internal/domain/models"
)

// FeatureColumns is the engineered feature vocabulary fed to the
// per-symbol regressor, in column order.
var FeatureColumns = []string{
	"MA5", "MA10", "MA20", "MA50",
	"volatility",
	"price_change", "price_change_5d",
	"volume_ratio",
	"lag_1", "lag_2", "lag_3",
	"price_position",
	"RSI",
}

// Frame is a NaN-free feature matrix aligned with its targets. Row i
// holds features observable at date Dates[i]; Target[i] is the next
// day's close.
type Frame struct {
	Dates  []time.Time
	X      [][]float64
	Target []float64
	Close  []float64
}

// BuildFrame derives the training frame from a daily bar series.
// Rows containing any undefined value are dropped, so the matrix is
// guaranteed NaN-free at train/predict time. The final bar has no
// next-day target and is excluded from training rows; use LatestRow
// for inference.
func BuildFrame(bars []models.Bar) *Frame {
	rows := featureRows(bars)
	f := &Frame{}
	for i := 0; i < len(bars)-1; i++ {
		if rows[i] == nil {
			continue
		}
		f.Dates = append(f.Dates, bars[i].Date)
		f.X = append(f.X, rows[i])
		f.Target = append(f.Target, bars[i+1].Close)
		f.Close = append(f.Close, bars[i].Close)
	}
	return f
}

// LatestRow returns the feature vector of the most recent bar, or
// false when the history is too short to define every feature.
func LatestRow(bars []models.Bar) ([]float64, bool) {
	rows := featureRows(bars)
	if len(rows) == 0 {
		return nil, false
	}
	last := rows[len(rows)-1]
	if last == nil {
		return nil, false
	}
	return last, true
}

// featureRows produces one row per bar, nil where any feature is
// undefined. All windows look strictly backward.
func featureRows(bars []models.Bar) [][]float64 {
	n := len(bars)
	close := models.Closes(bars)
	volume := models.Volumes(bars)

	ma5 := SMA(close, 5)
	ma10 := SMA(close, 10)
	ma20 := SMA(close, 20)
	ma50 := SMA(close, 50)
	volSMA := SMA(volume, 5)
	rsi := RSISeries(close, 14)

	returns := nanSlice(n)
	for i := 1; i < n; i++ {
		if close[i-1] != 0 {
			returns[i] = close[i]/close[i-1] - 1
		}
	}
	vol10 := rollingStd(returns[1:], 10)

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, 0, len(FeatureColumns))
		row = append(row, ma5[i], ma10[i], ma20[i], ma50[i])

		if i >= 1 {
			row = append(row, vol10[i-1])
		} else {
			row = append(row, math.NaN())
		}

		row = append(row, returns[i])
		if i >= 5 && close[i-5] != 0 {
			row = append(row, close[i]/close[i-5]-1)
		} else {
			row = append(row, math.NaN())
		}

		if !math.IsNaN(volSMA[i]) && volSMA[i] != 0 {
			row = append(row, volume[i]/volSMA[i])
		} else {
			row = append(row, math.NaN())
		}

		for lag := 1; lag <= 3; lag++ {
			if i >= lag {
				row = append(row, close[i-lag])
			} else {
				row = append(row, math.NaN())
			}
		}

		if !math.IsNaN(ma20[i]) && ma20[i] != 0 {
			row = append(row, (close[i]-ma20[i])/ma20[i])
		} else {
			row = append(row, math.NaN())
		}

		row = append(row, rsi[i])

		if hasNaN(row) {
			continue
		}
		rows[i] = row
	}
	return rows
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}
