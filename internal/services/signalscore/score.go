package signalscore

import (
	"math"

	"StockPilot/internal/domain/models"
	"StockPilot/internal/services/indicators"
)

// Qualitative labels attached to individual indicator readings.
const (
	LabelOverbought    = "OVERBOUGHT"
	LabelOversold      = "OVERSOLD"
	LabelNeutral       = "NEUTRAL"
	LabelBullish       = "BULLISH"
	LabelBearish       = "BEARISH"
	LabelStrongBullish = "STRONG_BULLISH"
	LabelStrongBearish = "STRONG_BEARISH"
)

// Inputs are the latest indicator readings the scorer combines.
// Undefined values are NaN.
type Inputs struct {
	Close    float64
	RSI      float64
	MACDDiff float64
	SMA50    float64
	SMA200   float64
	BBUpper  float64
	BBLower  float64
}

// FromIndicators extracts scorer inputs from a computed indicator set.
func FromIndicators(close float64, set indicators.Set) Inputs {
	return Inputs{
		Close:    close,
		RSI:      set.Last(indicators.RSI),
		MACDDiff: set.Last(indicators.MACDDiff),
		SMA50:    set.Last(indicators.SMA50),
		SMA200:   set.Last(indicators.SMA200),
		BBUpper:  set.Last(indicators.BBUpper),
		BBLower:  set.Last(indicators.BBLower),
	}
}

// Score combines the indicator readings into a directional signal with
// an additive integer strength. Each rule is independent and
// order-independent; boundary scores land on the stronger label
// (exactly +3 is STRONG_BUY).
func Score(in Inputs) *models.SignalResult {
	res := &models.SignalResult{
		Overall:    models.SignalNeutral,
		Indicators: map[string]string{},
	}
	score := 0

	switch {
	case in.RSI > 70:
		res.Indicators["RSI"] = LabelOverbought
		score--
	case in.RSI < 30:
		res.Indicators["RSI"] = LabelOversold
		score++
	default:
		res.Indicators["RSI"] = LabelNeutral
	}

	if in.MACDDiff > 0 {
		res.Indicators["MACD"] = LabelBullish
		score++
	} else {
		res.Indicators["MACD"] = LabelBearish
		score--
	}

	// The crossover rule only fires when both averages are defined;
	// a 200-day window needs that much history.
	if !math.IsNaN(in.SMA50) && !math.IsNaN(in.SMA200) {
		switch {
		case in.Close > in.SMA50 && in.SMA50 > in.SMA200:
			res.Indicators["MA"] = LabelStrongBullish
			score += 2
		case in.Close > in.SMA50:
			res.Indicators["MA"] = LabelBullish
			score++
		case in.Close < in.SMA50 && in.SMA50 < in.SMA200:
			res.Indicators["MA"] = LabelStrongBearish
			score -= 2
		default:
			res.Indicators["MA"] = LabelBearish
			score--
		}
	}

	switch {
	case in.Close > in.BBUpper:
		res.Indicators["BB"] = LabelOverbought
		score--
	case in.Close < in.BBLower:
		res.Indicators["BB"] = LabelOversold
		score++
	default:
		res.Indicators["BB"] = LabelNeutral
	}

	res.Strength = score
	switch {
	case score >= 3:
		res.Overall = models.SignalStrongBuy
	case score >= 1:
		res.Overall = models.SignalBuy
	case score <= -3:
		res.Overall = models.SignalStrongSell
	case score <= -1:
		res.Overall = models.SignalSell
	}
	return res
}
