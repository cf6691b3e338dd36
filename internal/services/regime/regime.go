package regime

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"StockPilot/internal/services/risk"

	"StockPilot/internal/domain/models"
)

// DefaultLookback is the number of return observations classified.
const DefaultLookback = 60

// Classification thresholds. Volatility is checked first and takes
// precedence over trend.
const (
	trendUp   = 0.001
	trendDown = -0.001
	highVol   = 0.02
)

// Detect classifies recent return/volatility behavior of a close-price
// series into a market regime. The lookback is clipped to the available
// history.
func Detect(closes []float64, lookback int) (*models.Regime, error) {
	returns := risk.Returns(closes)
	if len(returns) == 0 {
		return nil, fmt.Errorf("regime: need at least 2 prices, got %d", len(closes))
	}
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if lookback > len(returns) {
		lookback = len(returns)
	}
	recent := returns[len(returns)-lookback:]

	mean := stat.Mean(recent, nil)
	vol := 0.0
	if len(recent) > 1 {
		vol = stat.StdDev(recent, nil)
	}
	if math.IsNaN(vol) {
		vol = 0
	}

	state := models.RegimeSideways
	switch {
	case vol > highVol:
		state = models.RegimeHighVol
	case mean > trendUp:
		state = models.RegimeBull
	case mean < trendDown:
		state = models.RegimeBear
	}

	return &models.Regime{
		State:      state,
		MeanReturn: mean,
		Volatility: vol,
		Lookback:   lookback,
	}, nil
}
